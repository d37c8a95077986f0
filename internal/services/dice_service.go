package services

import (
	"time"

	"github.com/prudhvinik1/tablesync/internal/models"
)

// DiceService records client-computed rolls in the bounded history.
type DiceService struct {
	newID IDFunc
}

func NewDiceService(newID IDFunc) *DiceService {
	return &DiceService{newID: orDefaultID(newID)}
}

func (s *DiceService) Record(state *models.RoomState, userID, formula string, total int, breakdown []int, at time.Time) models.DiceRoll {
	name := userID
	if p, ok := state.Player(userID); ok && p.Name != "" {
		name = p.Name
	}
	roll := models.DiceRoll{
		ID:        s.newID(),
		UID:       userID,
		Name:      name,
		Formula:   formula,
		Total:     total,
		Breakdown: breakdown,
		Timestamp: at.UnixMilli(),
	}
	state.AppendDiceRoll(roll)
	return roll
}

func (s *DiceService) ClearHistory(state *models.RoomState) bool {
	if len(state.DiceRolls) == 0 {
		return false
	}
	state.DiceRolls = []models.DiceRoll{}
	return true
}
