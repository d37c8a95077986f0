package dispatch

import (
	"github.com/prudhvinik1/tablesync/internal/models"
	"github.com/prudhvinik1/tablesync/internal/protocol"
	"github.com/prudhvinik1/tablesync/internal/services"
)

// BoardDispatcher owns the map, grid and drawings. Map changes go out as
// snapshots so the background travels as a deduplicated asset. Removed
// drawings are released from every selection.
type BoardDispatcher struct {
	board     *services.BoardService
	drawings  *services.DrawingService
	selection *services.SelectionService
}

func NewBoardDispatcher(board *services.BoardService, drawings *services.DrawingService, selection *services.SelectionService) *BoardDispatcher {
	return &BoardDispatcher{board: board, drawings: drawings, selection: selection}
}

func (d *BoardDispatcher) Dispatch(msg protocol.Message, rc *RouteContext, senderID string) (*Result, bool) {
	switch m := msg.(type) {
	case *protocol.MapBackground:
		if !d.board.SetMapBackground(rc.State, m.Data) {
			return unchanged(), true
		}
		return changedSnapshot(), true
	case *protocol.GridSize:
		grid, ok := d.board.SetGrid(rc.State, m.Size, m.Unit)
		if !ok {
			return unchanged(), true
		}
		return changed(protocol.EntityGridUpdated, grid), true
	case *protocol.Draw:
		drawing := d.drawings.Draw(rc.State, senderID, models.Drawing{
			Points:  m.Points,
			Color:   m.Color,
			Width:   m.Width,
			Opacity: m.Opacity,
		})
		return changed(protocol.EntityDrawingCreated, drawing), true
	case *protocol.EraseDrawing:
		if !d.drawings.Erase(rc.State, senderID, m.ID, rc.IsDM) {
			return rejected(ReasonRejected), true
		}
		scrubbed := d.selection.RemoveObject(rc.State, m.ID)
		return deleted(protocol.EntityDrawingDeleted, m.ID, scrubbed), true
	case *protocol.ClearDrawings:
		erased := make([]string, 0, len(rc.State.Drawings))
		for _, drawing := range rc.State.Drawings {
			erased = append(erased, drawing.ID)
		}
		if !d.drawings.Clear(rc.State) {
			return unchanged(), true
		}
		for _, id := range erased {
			d.selection.RemoveObject(rc.State, id)
		}
		return changedSnapshot(), true
	}
	return nil, false
}
