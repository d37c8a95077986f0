package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prudhvinik1/tablesync/internal/utils"
)

const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type Config struct {
	ServerPort string
	LogLevel   string

	StoreBackend  string
	RedisURL      string
	// RedisRoomHash also names the room namespace in postgres.
	RedisRoomHash string
	DatabaseURL   string

	PersistTimeout   time.Duration
	PersistQueueSize int

	JWTSecret string
	JWTExpiry time.Duration

	// Empty hashes disable the corresponding check.
	RoomSecretHash  string
	DMPasswordHash  string
	MinSecretLength int

	WSReadLimit         int64
	WSMessagesPerSecond float64
	WSBurst             int
	SnapshotGuardBytes  int
}

func LoadConfig() (*Config, error) {
	expiry, err := time.ParseDuration(getEnv("JWT_EXPIRY", "24h"))
	if err != nil {
		return nil, errors.New("invalid JWT_EXPIRY format")
	}
	persistTimeout, err := time.ParseDuration(getEnv("PERSIST_TIMEOUT", "5s"))
	if err != nil {
		return nil, errors.New("invalid PERSIST_TIMEOUT format")
	}

	queueSize, err := getEnvInt("PERSIST_QUEUE_SIZE", 256)
	if err != nil {
		return nil, err
	}
	readLimit, err := getEnvInt("WS_READ_LIMIT", 1<<20)
	if err != nil {
		return nil, err
	}
	burst, err := getEnvInt("WS_BURST", 120)
	if err != nil {
		return nil, err
	}
	minSecret, err := getEnvInt("SECRET_MIN_LENGTH", utils.DefaultMinSecretLength)
	if err != nil {
		return nil, err
	}
	guard, err := getEnvInt("SNAPSHOT_GUARD_BYTES", 512*1024)
	if err != nil {
		return nil, err
	}
	perSecond, err := strconv.ParseFloat(getEnv("WS_MESSAGES_PER_SECOND", "60"), 64)
	if err != nil {
		return nil, errors.New("invalid WS_MESSAGES_PER_SECOND format")
	}

	cfg := &Config{
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		RedisURL:            os.Getenv("REDIS_URL"),
		RedisRoomHash:       getEnv("REDIS_ROOM_HASH", "tablesync:rooms"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		PersistTimeout:      persistTimeout,
		PersistQueueSize:    queueSize,
		JWTSecret:           os.Getenv("JWT_SECRET"),
		JWTExpiry:           expiry,
		WSReadLimit:         int64(readLimit),
		WSMessagesPerSecond: perSecond,
		WSBurst:             burst,
		SnapshotGuardBytes:  guard,
		MinSecretLength:     minSecret,
	}

	cfg.StoreBackend = strings.ToLower(getEnv("STORE_BACKEND", defaultStoreBackend(cfg)))
	switch cfg.StoreBackend {
	case StoreMemory:
	case StoreRedis:
		if cfg.RedisURL == "" {
			return nil, errors.New("REDIS_URL is required for the redis store")
		}
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required for the postgres store")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	// Validate required fields
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	cfg.RoomSecretHash, err = secretHash("ROOM_SECRET", cfg.MinSecretLength)
	if err != nil {
		return nil, err
	}
	cfg.DMPasswordHash, err = secretHash("DM_PASSWORD", cfg.MinSecretLength)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultStoreBackend(cfg *Config) string {
	switch {
	case cfg.RedisURL != "":
		return StoreRedis
	case cfg.DatabaseURL != "":
		return StorePostgres
	default:
		return StoreMemory
	}
}

// secretHash prefers KEY_HASH (an existing bcrypt hash) and otherwise hashes
// the plaintext KEY so it is not kept around. Plaintexts shorter than
// minLength are refused; precomputed hashes are taken as given.
func secretHash(key string, minLength int) (string, error) {
	if hash := os.Getenv(key + "_HASH"); hash != "" {
		return hash, nil
	}
	plain := os.Getenv(key)
	if plain == "" {
		return "", nil
	}
	hash, err := utils.HashSecret(plain, minLength)
	if err != nil {
		return "", fmt.Errorf("invalid %s: %w", key, err)
	}
	return hash, nil
}

// Helper: get env with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s format", key)
	}
	return n, nil
}
