package dispatch

import (
	"github.com/prudhvinik1/tablesync/internal/models"
	"github.com/prudhvinik1/tablesync/internal/protocol"
	"github.com/prudhvinik1/tablesync/internal/services"
)

// InitiativeDispatcher owns combat. start, end and clear are in the router's
// DM-only set; turn changes are checked here.
type InitiativeDispatcher struct {
	initiative *services.InitiativeService
}

func NewInitiativeDispatcher(initiative *services.InitiativeService) *InitiativeDispatcher {
	return &InitiativeDispatcher{initiative: initiative}
}

func (d *InitiativeDispatcher) Dispatch(msg protocol.Message, rc *RouteContext, senderID string) (*Result, bool) {
	state := rc.State
	switch m := msg.(type) {
	case *protocol.SetInitiative:
		ok := d.initiative.SetInitiative(state, senderID, m.CharacterID, m.Initiative, m.Modifier, rc.IsDM)
		return check(ok, func() *Result {
			c, _ := state.Character(m.CharacterID)
			updated := *c
			return initiativeUpdated(state, &updated)
		}), true
	case *protocol.StartCombat:
		return d.combat(d.initiative.StartCombat(state), state), true
	case *protocol.EndCombat:
		return d.combat(d.initiative.EndCombat(state), state), true
	case *protocol.NextTurn:
		ok := d.initiative.NextTurn(state, senderID, rc.IsDM)
		return check(ok, func() *Result { return initiativeUpdated(state, nil) }), true
	case *protocol.PreviousTurn:
		ok := d.initiative.PreviousTurn(state, senderID, rc.IsDM)
		return check(ok, func() *Result { return initiativeUpdated(state, nil) }), true
	case *protocol.ClearAllInitiative:
		if !d.initiative.ClearAll(state) {
			return unchanged(), true
		}
		return changedSnapshot(), true
	}
	return nil, false
}

// combat treats a no-op start or end as accepted without a broadcast.
func (d *InitiativeDispatcher) combat(ok bool, state *models.RoomState) *Result {
	if !ok {
		return unchanged()
	}
	return initiativeUpdated(state, nil)
}

func initiativeUpdated(state *models.RoomState, c *models.Character) *Result {
	order := make([]string, len(state.InitiativeOrder))
	copy(order, state.InitiativeOrder)
	return changed(protocol.EntityInitiativeUpdated, protocol.InitiativeData{
		Character:              c,
		CombatActive:           state.CombatActive,
		InitiativeOrder:        order,
		CurrentTurnCharacterID: state.CurrentTurnCharacterID,
	})
}
