package dispatch

import (
	"github.com/prudhvinik1/tablesync/internal/models"
	"github.com/prudhvinik1/tablesync/internal/protocol"
	"github.com/prudhvinik1/tablesync/internal/services"
)

type PropsDispatcher struct {
	props     *services.PropService
	selection *services.SelectionService
}

func NewPropsDispatcher(props *services.PropService, selection *services.SelectionService) *PropsDispatcher {
	return &PropsDispatcher{props: props, selection: selection}
}

func (d *PropsDispatcher) Dispatch(msg protocol.Message, rc *RouteContext, senderID string) (*Result, bool) {
	switch m := msg.(type) {
	case *protocol.CreateProp:
		prop, ok := d.props.Create(rc.State, rc.IsDM, models.Prop{
			Label:    m.Label,
			ImageURL: m.ImageURL,
			Owner:    m.Owner,
			Size:     m.Size,
			X:        m.X,
			Y:        m.Y,
			ScaleX:   m.ScaleX,
			ScaleY:   m.ScaleY,
			Rotation: m.Rotation,
		})
		return check(ok, func() *Result {
			return changed(protocol.EntityPropCreated, prop)
		}), true
	case *protocol.UpdateProp:
		prop, ok := d.props.Update(rc.State, senderID, rc.IsDM, models.Prop{
			ID:       m.ID,
			Label:    m.Label,
			ImageURL: m.ImageURL,
			Owner:    m.Owner,
			Size:     m.Size,
			X:        m.X,
			Y:        m.Y,
			ScaleX:   m.ScaleX,
			ScaleY:   m.ScaleY,
			Rotation: m.Rotation,
		})
		return check(ok, func() *Result {
			return changed(protocol.EntityPropUpdated, prop)
		}), true
	case *protocol.DeleteProp:
		if !d.props.Delete(rc.State, m.ID, rc.IsDM) {
			return rejected(ReasonRejected), true
		}
		scrubbed := d.selection.RemoveObject(rc.State, m.ID)
		return deleted(protocol.EntityPropDeleted, m.ID, scrubbed), true
	}
	return nil, false
}
