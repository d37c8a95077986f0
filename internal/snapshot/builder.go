// Package snapshot extracts heavy, rarely-changing fields of a room into
// content-addressed assets so repeated snapshots stay small.
package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/prudhvinik1/tablesync/internal/models"
)

// Asset slots.
const (
	SlotMapBackground = "map-background"
	SlotDrawings      = "drawings"
)

const EncodingJSON = "json"

// Asset is derived data: it can always be recomputed from the RoomState.
type Asset struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Hash     string          `json:"hash"`
	ByteSize int             `json:"byteSize"`
	Encoding string          `json:"encoding"`
	Payload  json.RawMessage `json:"payload"`
}

type Result struct {
	Assets    []Asset           `json:"assets"`
	AssetRefs map[string]string `json:"assetRefs"`
}

// Build emits one asset per populated heavy field. The output depends only
// on the content of those fields.
func Build(state *models.RoomState) (Result, error) {
	res := Result{Assets: []Asset{}, AssetRefs: map[string]string{}}
	if state == nil {
		return res, nil
	}

	if state.MapBackground != "" {
		if err := res.add(SlotMapBackground, state.MapBackground); err != nil {
			return Result{}, err
		}
	}
	if len(state.Drawings) > 0 {
		if err := res.add(SlotDrawings, state.Drawings); err != nil {
			return Result{}, err
		}
	}
	return res, nil
}

func (r *Result) add(slot string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s asset: %w", slot, err)
	}
	hash := Digest(payload)
	asset := Asset{
		ID:       slot + ":" + hash,
		Type:     slot,
		Hash:     hash,
		ByteSize: len(payload),
		Encoding: EncodingJSON,
		Payload:  payload,
	}
	r.Assets = append(r.Assets, asset)
	r.AssetRefs[slot] = asset.ID
	return nil
}

// Digest is the content hash used for asset ids.
func Digest(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// Prune returns a shallow copy of state with the heavy fields removed. The
// copy shares every other slice with state and must not be mutated.
func Prune(state *models.RoomState) *models.RoomState {
	pruned := *state
	pruned.MapBackground = ""
	pruned.Drawings = nil
	return &pruned
}
