package services

import (
	"cmp"
	"slices"

	"github.com/prudhvinik1/tablesync/internal/models"
)

// InitiativeService keeps the combat order. Characters with an initiative
// value are ordered by initiative, then modifier (both descending), then id.
type InitiativeService struct{}

func NewInitiativeService() *InitiativeService {
	return &InitiativeService{}
}

func (s *InitiativeService) SetInitiative(state *models.RoomState, userID, characterID string, initiative, modifier int, isDM bool) bool {
	c, ok := state.Character(characterID)
	if !ok || (c.Owner != userID && !isDM) {
		return false
	}
	value := initiative
	c.Initiative = &value
	c.Modifier = modifier
	reorder(state)
	return true
}

// StartCombat activates combat with the first character in order. It fails
// when combat is already running or nobody has rolled.
func (s *InitiativeService) StartCombat(state *models.RoomState) bool {
	if state.CombatActive || len(state.InitiativeOrder) == 0 {
		return false
	}
	state.CombatActive = true
	state.CurrentTurnCharacterID = state.InitiativeOrder[0]
	return true
}

func (s *InitiativeService) EndCombat(state *models.RoomState) bool {
	if !state.CombatActive {
		return false
	}
	state.CombatActive = false
	state.CurrentTurnCharacterID = ""
	return true
}

// NextTurn advances the turn, wrapping at the end. Allowed for the DM and
// the owner of the character whose turn it is.
func (s *InitiativeService) NextTurn(state *models.RoomState, userID string, isDM bool) bool {
	return s.step(state, userID, isDM, 1)
}

func (s *InitiativeService) PreviousTurn(state *models.RoomState, userID string, isDM bool) bool {
	return s.step(state, userID, isDM, -1)
}

func (s *InitiativeService) ClearAll(state *models.RoomState) bool {
	changed := state.CombatActive || len(state.InitiativeOrder) > 0 || state.CurrentTurnCharacterID != ""
	for i := range state.Characters {
		if state.Characters[i].Initiative != nil || state.Characters[i].Modifier != 0 {
			changed = true
		}
		state.Characters[i].Initiative = nil
		state.Characters[i].Modifier = 0
	}
	state.InitiativeOrder = []string{}
	state.CombatActive = false
	state.CurrentTurnCharacterID = ""
	return changed
}

func (s *InitiativeService) step(state *models.RoomState, userID string, isDM bool, dir int) bool {
	n := len(state.InitiativeOrder)
	if !state.CombatActive || n == 0 {
		return false
	}
	if !isDM {
		current, ok := state.Character(state.CurrentTurnCharacterID)
		if !ok || current.Owner != userID {
			return false
		}
	}
	idx := slices.Index(state.InitiativeOrder, state.CurrentTurnCharacterID)
	if idx < 0 {
		idx = 0
	} else {
		idx = ((idx+dir)%n + n) % n
	}
	state.CurrentTurnCharacterID = state.InitiativeOrder[idx]
	return true
}

// reorder rebuilds InitiativeOrder from the characters.
func reorder(state *models.RoomState) {
	rolled := make([]models.Character, 0, len(state.Characters))
	for _, c := range state.Characters {
		if c.Initiative != nil {
			rolled = append(rolled, c)
		}
	}
	slices.SortFunc(rolled, func(a, b models.Character) int {
		if c := cmp.Compare(*b.Initiative, *a.Initiative); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Modifier, a.Modifier); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	order := make([]string, len(rolled))
	for i, c := range rolled {
		order[i] = c.ID
	}
	state.InitiativeOrder = order
}

// dropFromInitiative removes a deleted character from the order, handing the
// turn to the next character when it was theirs.
func dropFromInitiative(state *models.RoomState, characterID string) {
	idx := slices.Index(state.InitiativeOrder, characterID)
	if idx < 0 {
		return
	}
	state.InitiativeOrder = slices.Delete(state.InitiativeOrder, idx, idx+1)
	if state.CurrentTurnCharacterID != characterID {
		return
	}
	if len(state.InitiativeOrder) == 0 {
		state.CurrentTurnCharacterID = ""
		state.CombatActive = false
		return
	}
	state.CurrentTurnCharacterID = state.InitiativeOrder[idx%len(state.InitiativeOrder)]
}
