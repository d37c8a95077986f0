package services

import (
	"github.com/prudhvinik1/tablesync/internal/models"
)

// TokenService mutates board tokens. Every mutation reports false when the
// token is missing or the caller may not touch it; the two are not told apart.
type TokenService struct {
	newID IDFunc
}

func NewTokenService(newID IDFunc) *TokenService {
	return &TokenService{newID: orDefaultID(newID)}
}

// Create adds a token. An empty owner defaults to the creator; only a DM may
// create tokens for someone else.
func (s *TokenService) Create(state *models.RoomState, userID string, isDM bool, token models.Token) (models.Token, bool) {
	if token.Owner == "" {
		token.Owner = userID
	}
	if token.Owner != userID && !isDM {
		return models.Token{}, false
	}
	token.ID = s.newID()
	state.Tokens = append(state.Tokens, token)
	return token, true
}

// CanControl reports whether userID may move or restyle token.
func (s *TokenService) CanControl(token *models.Token, userID string, isDM bool) bool {
	switch token.Owner {
	case "", models.OwnerAnyone, userID:
		return true
	}
	return isDM
}

func (s *TokenService) Move(state *models.RoomState, userID, tokenID string, x, y float64, isDM bool) (models.Token, bool) {
	return s.update(state, userID, tokenID, isDM, func(t *models.Token) {
		t.X = x
		t.Y = y
	})
}

func (s *TokenService) Recolor(state *models.RoomState, userID, tokenID, color string, isDM bool) (models.Token, bool) {
	return s.update(state, userID, tokenID, isDM, func(t *models.Token) {
		t.Color = color
	})
}

func (s *TokenService) UpdateImage(state *models.RoomState, userID, tokenID, imageURL string, isDM bool) (models.Token, bool) {
	return s.update(state, userID, tokenID, isDM, func(t *models.Token) {
		t.ImageURL = imageURL
	})
}

// Delete removes a token. Players may delete only their own tokens.
func (s *TokenService) Delete(state *models.RoomState, userID, tokenID string, isDM bool) bool {
	for i := range state.Tokens {
		if state.Tokens[i].ID != tokenID {
			continue
		}
		if state.Tokens[i].Owner != userID && !isDM {
			return false
		}
		state.Tokens = append(state.Tokens[:i], state.Tokens[i+1:]...)
		for j := range state.Characters {
			if state.Characters[j].TokenID == tokenID {
				state.Characters[j].TokenID = ""
			}
		}
		return true
	}
	return false
}

func (s *TokenService) update(state *models.RoomState, userID, tokenID string, isDM bool, apply func(*models.Token)) (models.Token, bool) {
	token, ok := state.Token(tokenID)
	if !ok || !s.CanControl(token, userID, isDM) {
		return models.Token{}, false
	}
	apply(token)
	return *token, true
}
