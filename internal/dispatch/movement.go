package dispatch

import (
	"github.com/prudhvinik1/tablesync/internal/models"
	"github.com/prudhvinik1/tablesync/internal/protocol"
	"github.com/prudhvinik1/tablesync/internal/services"
)

// MovementDispatcher owns tokens and drag previews.
type MovementDispatcher struct {
	tokens    *services.TokenService
	selection *services.SelectionService
}

func NewMovementDispatcher(tokens *services.TokenService, selection *services.SelectionService) *MovementDispatcher {
	return &MovementDispatcher{tokens: tokens, selection: selection}
}

func (d *MovementDispatcher) Dispatch(msg protocol.Message, rc *RouteContext, senderID string) (*Result, bool) {
	switch m := msg.(type) {
	case *protocol.CreateToken:
		return d.create(m, rc, senderID), true
	case *protocol.Move:
		token, ok := d.tokens.Move(rc.State, senderID, m.ID, m.X, m.Y, rc.IsDM)
		return tokenUpdated(token, ok), true
	case *protocol.Recolor:
		token, ok := d.tokens.Recolor(rc.State, senderID, m.ID, m.Color, rc.IsDM)
		return tokenUpdated(token, ok), true
	case *protocol.UpdateTokenImage:
		token, ok := d.tokens.UpdateImage(rc.State, senderID, m.ID, m.ImageURL, rc.IsDM)
		return tokenUpdated(token, ok), true
	case *protocol.DeleteToken:
		return d.delete(m, rc, senderID), true
	case *protocol.DragPreview:
		return d.preview(m, senderID), true
	}
	return nil, false
}

func (d *MovementDispatcher) create(m *protocol.CreateToken, rc *RouteContext, senderID string) *Result {
	token, ok := d.tokens.Create(rc.State, senderID, rc.IsDM, models.Token{
		Owner:    m.Owner,
		X:        m.X,
		Y:        m.Y,
		Color:    m.Color,
		ImageURL: m.ImageURL,
	})
	return check(ok, func() *Result {
		return changed(protocol.EntityTokenCreated, token)
	})
}

func (d *MovementDispatcher) delete(m *protocol.DeleteToken, rc *RouteContext, senderID string) *Result {
	linked := false
	for _, c := range rc.State.Characters {
		if c.TokenID == m.ID {
			linked = true
		}
	}
	if !d.tokens.Delete(rc.State, senderID, m.ID, rc.IsDM) {
		return rejected(ReasonRejected)
	}
	scrubbed := d.selection.RemoveObject(rc.State, m.ID)
	return deleted(protocol.EntityTokenDeleted, m.ID, linked || scrubbed)
}

func (d *MovementDispatcher) preview(m *protocol.DragPreview, senderID string) *Result {
	return &Result{Relays: []Relay{{Frame: protocol.DragPreviewFrame{
		Type:    protocol.TypeDragPreview,
		UID:     senderID,
		Objects: m.Objects,
	}}}}
}

func tokenUpdated(token models.Token, ok bool) *Result {
	return check(ok, func() *Result {
		return changed(protocol.EntityTokenUpdated, token)
	})
}
