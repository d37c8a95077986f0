package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const createRoomStatesTable = `CREATE TABLE IF NOT EXISTS room_states (
	namespace  TEXT NOT NULL,
	room_id    TEXT NOT NULL,
	state      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (namespace, room_id)
)`

// PostgresHashBackend keeps the room hash in a table, one row per room id
// within a namespace. Writes are plain upserts: the last writer wins.
type PostgresHashBackend struct {
	pool      *pgxpool.Pool
	namespace string
}

func NewPostgresHashBackend(pool *pgxpool.Pool, namespace string) *PostgresHashBackend {
	return &PostgresHashBackend{pool: pool, namespace: namespace}
}

// EnsureSchema creates the room_states table if it does not exist.
func (r *PostgresHashBackend) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createRoomStatesTable); err != nil {
		return fmt.Errorf("failed to create room_states table: %w", err)
	}
	return nil
}

func (r *PostgresHashBackend) HSet(ctx context.Context, roomID string, value []byte) error {
	query := `INSERT INTO room_states (namespace, room_id, state)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (namespace, room_id)
	          DO UPDATE SET state = EXCLUDED.state, updated_at = NOW()`

	if _, err := r.pool.Exec(ctx, query, r.namespace, roomID, value); err != nil {
		return fmt.Errorf("failed to store room: %w", err)
	}
	return nil
}

func (r *PostgresHashBackend) HDel(ctx context.Context, roomID string) error {
	query := `DELETE FROM room_states WHERE namespace = $1 AND room_id = $2`

	if _, err := r.pool.Exec(ctx, query, r.namespace, roomID); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return nil
}

func (r *PostgresHashBackend) HGetAll(ctx context.Context) (map[string][]byte, error) {
	query := `SELECT room_id, state FROM room_states WHERE namespace = $1`

	rows, err := r.pool.Query(ctx, query, r.namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var roomID string
		var state []byte
		if err := rows.Scan(&roomID, &state); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		out[roomID] = state
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rooms: %w", err)
	}

	return out, nil
}

func (r *PostgresHashBackend) Close() error {
	r.pool.Close()
	return nil
}
