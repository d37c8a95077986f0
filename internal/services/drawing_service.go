package services

import (
	"github.com/prudhvinik1/tablesync/internal/models"
)

type DrawingService struct {
	newID IDFunc
}

func NewDrawingService(newID IDFunc) *DrawingService {
	return &DrawingService{newID: orDefaultID(newID)}
}

func (s *DrawingService) Draw(state *models.RoomState, userID string, d models.Drawing) models.Drawing {
	d.ID = s.newID()
	d.Owner = userID
	if d.Opacity == 0 {
		d.Opacity = 1
	}
	state.Drawings = append(state.Drawings, d)
	return d
}

// Erase removes one stroke. Players may erase only their own.
func (s *DrawingService) Erase(state *models.RoomState, userID, drawingID string, isDM bool) bool {
	for i := range state.Drawings {
		if state.Drawings[i].ID != drawingID {
			continue
		}
		if state.Drawings[i].Owner != userID && !isDM {
			return false
		}
		state.Drawings = append(state.Drawings[:i], state.Drawings[i+1:]...)
		return true
	}
	return false
}

func (s *DrawingService) Clear(state *models.RoomState) bool {
	if len(state.Drawings) == 0 {
		return false
	}
	state.Drawings = []models.Drawing{}
	return true
}
