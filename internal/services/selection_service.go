package services

import (
	"github.com/prudhvinik1/tablesync/internal/models"
	"github.com/prudhvinik1/tablesync/internal/protocol"
)

// SelectionService maintains per-user selection entries. An object id is
// held by at most one user at a time; every operation reports whether the
// selection state changed.
type SelectionService struct{}

func NewSelectionService() *SelectionService {
	return &SelectionService{}
}

// SelectObject makes objectID the caller's single selection, revoking any
// other user's claim on it.
func (s *SelectionService) SelectObject(state *models.RoomState, userID, objectID string) bool {
	if userID == "" || objectID == "" {
		return false
	}
	want := models.SingleSelection(objectID)
	if current, ok := state.SelectionState[userID]; ok && current.Equal(want) {
		return false
	}

	for otherID := range state.SelectionState {
		if otherID == userID {
			continue
		}
		s.revoke(state, otherID, map[string]struct{}{objectID: {}})
	}
	state.SelectionState[userID] = want
	return true
}

// SelectMultiple edits the caller's own entry. Ids currently held by other
// users are skipped rather than taken over.
func (s *SelectionService) SelectMultiple(state *models.RoomState, userID string, ids []string, op protocol.SelectionOp) bool {
	if userID == "" {
		return false
	}
	requested := dedupe(ids)

	var current []string
	if entry, ok := state.SelectionState[userID]; ok {
		current = entry.IDs()
	}

	var next []string
	switch op {
	case protocol.SelectSubtract:
		drop := toSet(requested)
		for _, id := range current {
			if _, gone := drop[id]; !gone {
				next = append(next, id)
			}
		}
	case protocol.SelectAppend:
		next = append(next, current...)
		next = append(next, s.claimable(state, userID, requested)...)
		next = dedupe(next)
	default:
		next = s.claimable(state, userID, requested)
	}

	return s.assign(state, userID, next)
}

// Deselect clears the caller's entry.
func (s *SelectionService) Deselect(state *models.RoomState, userID string) bool {
	if _, ok := state.SelectionState[userID]; !ok {
		return false
	}
	delete(state.SelectionState, userID)
	return true
}

// RemoveObject scrubs objectID from every entry. Used when the object itself is deleted.
func (s *SelectionService) RemoveObject(state *models.RoomState, objectID string) bool {
	touched := false
	drop := map[string]struct{}{objectID: {}}
	for userID := range state.SelectionState {
		if s.revoke(state, userID, drop) {
			touched = true
		}
	}
	return touched
}

// revoke removes ids from userID's entry, collapsing or deleting it.
func (s *SelectionService) revoke(state *models.RoomState, userID string, ids map[string]struct{}) bool {
	entry, ok := state.SelectionState[userID]
	if !ok {
		return false
	}
	held := entry.IDs()
	kept := make([]string, 0, len(held))
	for _, id := range held {
		if _, gone := ids[id]; !gone {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(held) {
		return false
	}
	s.assign(state, userID, kept)
	return true
}

// assign stores the canonical entry for ids and reports whether it changed.
func (s *SelectionService) assign(state *models.RoomState, userID string, ids []string) bool {
	before, had := state.SelectionState[userID]
	after, keep := models.SelectionFromIDs(ids)
	if !keep {
		if !had {
			return false
		}
		delete(state.SelectionState, userID)
		return true
	}
	if had && before.Equal(after) {
		return false
	}
	state.SelectionState[userID] = after
	return true
}

// claimable filters out ids another user already holds.
func (s *SelectionService) claimable(state *models.RoomState, userID string, ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if owner, held := s.Holder(state, id); held && owner != userID {
			continue
		}
		out = append(out, id)
	}
	return out
}

// Holder returns the user whose entry contains objectID.
func (s *SelectionService) Holder(state *models.RoomState, objectID string) (string, bool) {
	for userID, entry := range state.SelectionState {
		if entry.Contains(objectID) {
			return userID, true
		}
	}
	return "", false
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
