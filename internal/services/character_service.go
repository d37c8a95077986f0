package services

import (
	"github.com/prudhvinik1/tablesync/internal/models"
)

type CharacterService struct {
	newID IDFunc
}

func NewCharacterService(newID IDFunc) *CharacterService {
	return &CharacterService{newID: orDefaultID(newID)}
}

// Create adds a character owned by userID. A linked token must exist.
func (s *CharacterService) Create(state *models.RoomState, userID string, c models.Character) (models.Character, bool) {
	if c.TokenID != "" {
		if _, ok := state.Token(c.TokenID); !ok {
			return models.Character{}, false
		}
	}
	c.ID = s.newID()
	c.Owner = userID
	c.Initiative = nil
	c.Modifier = 0
	c.HP = clampHP(c.HP, c.MaxHP)
	state.Characters = append(state.Characters, c)
	return c, true
}

// Delete removes a character and its place in the initiative order.
func (s *CharacterService) Delete(state *models.RoomState, userID, characterID string, isDM bool) bool {
	for i := range state.Characters {
		c := state.Characters[i]
		if c.ID != characterID {
			continue
		}
		if c.Owner != userID && !isDM {
			return false
		}
		state.Characters = append(state.Characters[:i], state.Characters[i+1:]...)
		dropFromInitiative(state, characterID)
		return true
	}
	return false
}

func (s *CharacterService) UpdateHP(state *models.RoomState, userID, characterID string, hp, maxHP int, isDM bool) (models.Character, bool) {
	c, ok := state.Character(characterID)
	if !ok || (c.Owner != userID && !isDM) {
		return models.Character{}, false
	}
	c.MaxHP = maxHP
	c.HP = clampHP(hp, maxHP)
	return *c, true
}

// clampHP keeps hp within [0, maxHP]; a zero maxHP leaves the upper bound open.
func clampHP(hp, maxHP int) int {
	if hp < 0 {
		return 0
	}
	if maxHP > 0 && hp > maxHP {
		return maxHP
	}
	return hp
}
