package services

import (
	"strings"

	"github.com/prudhvinik1/tablesync/internal/models"
)

type BoardService struct{}

func NewBoardService() *BoardService {
	return &BoardService{}
}

// SetMapBackground replaces the background reference; an empty value clears it.
func (s *BoardService) SetMapBackground(state *models.RoomState, data string) bool {
	if state.MapBackground == data {
		return false
	}
	state.MapBackground = data
	return true
}

// SetGrid updates the grid size, keeping the old unit when none is given.
func (s *BoardService) SetGrid(state *models.RoomState, size float64, unit string) (models.Grid, bool) {
	if size <= 0 {
		return state.Grid, false
	}
	next := models.Grid{Size: size, Unit: strings.TrimSpace(unit)}
	if next.Unit == "" {
		next.Unit = state.Grid.Unit
	}
	if next == state.Grid {
		return state.Grid, false
	}
	state.Grid = next
	return next, true
}
