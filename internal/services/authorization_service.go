package services

import (
	"github.com/prudhvinik1/tablesync/internal/models"
	"github.com/prudhvinik1/tablesync/internal/protocol"
)

// dmOnlyTypes are rejected by the router before any handler runs. Handlers
// enforce further DM-only rules of their own; this set is not exhaustive.
var dmOnlyTypes = map[protocol.MessageType]struct{}{
	protocol.TypeMapBackground:      {},
	protocol.TypeGridSize:           {},
	protocol.TypeClearDrawings:      {},
	protocol.TypeStartCombat:        {},
	protocol.TypeEndCombat:          {},
	protocol.TypeClearAllInitiative: {},
	protocol.TypeClearRollHistory:   {},
}

type AuthorizationService struct{}

func NewAuthorizationService() *AuthorizationService {
	return &AuthorizationService{}
}

// IsDM reports the player's DM flag; unknown players are not DMs.
func (s *AuthorizationService) IsDM(state *models.RoomState, userID string) bool {
	if state == nil {
		return false
	}
	player, ok := state.Player(userID)
	return ok && player.IsDM
}

func (s *AuthorizationService) RequiresDMPrivileges(t protocol.MessageType) bool {
	_, ok := dmOnlyTypes[t]
	return ok
}

func (s *AuthorizationService) IsAuthorized(state *models.RoomState, userID string, t protocol.MessageType) bool {
	if !s.RequiresDMPrivileges(t) {
		return true
	}
	return s.IsDM(state, userID)
}
