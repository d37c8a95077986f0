package services

import (
	"strings"

	"github.com/prudhvinik1/tablesync/internal/models"
)

// PlayerService tracks who is in a room and how they are named.
type PlayerService struct{}

func NewPlayerService() *PlayerService {
	return &PlayerService{}
}

// Join marks userID connected and upserts their player record. A blank name
// keeps the stored one, falling back to the uid.
func (s *PlayerService) Join(state *models.RoomState, userID, name string) models.Player {
	state.AddUser(userID)
	name = strings.TrimSpace(name)
	if p, ok := state.Player(userID); ok {
		if name != "" {
			p.Name = name
		}
		return *p
	}
	if name == "" {
		name = userID
	}
	p := models.Player{UID: userID, Name: name}
	state.Players = append(state.Players, p)
	return p
}

// Leave drops userID from the connected list and removes their pointer. The
// player record stays so names and DM flags survive reconnects.
func (s *PlayerService) Leave(state *models.RoomState, userID string) bool {
	removed := state.RemoveUser(userID)
	if state.RemovePointer(userID) {
		removed = true
	}
	return removed
}

func (s *PlayerService) Rename(state *models.RoomState, userID, name string) (models.Player, bool) {
	name = strings.TrimSpace(name)
	p, ok := state.Player(userID)
	if !ok || name == "" || p.Name == name {
		return models.Player{}, false
	}
	p.Name = name
	return *p, true
}

func (s *PlayerService) SetDM(state *models.RoomState, userID string, isDM bool) (models.Player, bool) {
	p, ok := state.Player(userID)
	if !ok || p.IsDM == isDM {
		return models.Player{}, false
	}
	p.IsDM = isDM
	return *p, true
}
