package dispatch

import (
	"github.com/prudhvinik1/tablesync/internal/models"
	"github.com/prudhvinik1/tablesync/internal/protocol"
	"github.com/prudhvinik1/tablesync/internal/services"
)

// SelectionDispatcher broadcasts the whole selection map on change, since a
// takeover rewrites another user's entry.
type SelectionDispatcher struct {
	selection *services.SelectionService
}

func NewSelectionDispatcher(selection *services.SelectionService) *SelectionDispatcher {
	return &SelectionDispatcher{selection: selection}
}

func (d *SelectionDispatcher) Dispatch(msg protocol.Message, rc *RouteContext, senderID string) (*Result, bool) {
	var touched bool
	switch m := msg.(type) {
	case *protocol.SelectObject:
		touched = d.selection.SelectObject(rc.State, senderID, m.ObjectID)
	case *protocol.SelectMultiple:
		touched = d.selection.SelectMultiple(rc.State, senderID, m.ObjectIDs, m.Mode)
	case *protocol.DeselectObject:
		touched = d.selection.Deselect(rc.State, senderID)
	default:
		return nil, false
	}
	if !touched {
		return unchanged(), true
	}
	return changed(protocol.EntitySelectionUpdated, copySelections(rc.State.SelectionState)), true
}

func copySelections(in map[string]models.Selection) map[string]models.Selection {
	out := make(map[string]models.Selection, len(in))
	for userID, entry := range in {
		out[userID] = entry
	}
	return out
}
