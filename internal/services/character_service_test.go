package services

import (
	"testing"

	"github.com/prudhvinik1/tablesync/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharacterService_Create(t *testing.T) {
	svc := NewCharacterService(sequentialIDs("char"))
	state := models.NewRoomState()
	state.Tokens = []models.Token{{ID: "t1"}}

	c, ok := svc.Create(state, "p1", models.Character{Name: "Vex", HP: 40, MaxHP: 30, TokenID: "t1", Owner: "someone-else"})
	require.True(t, ok)
	assert.Equal(t, "char-1", c.ID)
	assert.Equal(t, "p1", c.Owner)
	assert.Equal(t, 30, c.HP, "hp is clamped to max")

	_, ok = svc.Create(state, "p1", models.Character{Name: "Ghost", TokenID: "missing"})
	assert.False(t, ok)
	assert.Len(t, state.Characters, 1)
}

func TestCharacterService_UpdateHP(t *testing.T) {
	svc := NewCharacterService(nil)
	state := models.NewRoomState()
	state.Characters = []models.Character{{ID: "c1", Owner: "p1", HP: 10, MaxHP: 20}}

	tests := []struct {
		name   string
		userID string
		isDM   bool
		hp     int
		maxHP  int
		want   int
		ok     bool
	}{
		{"owner heals", "p1", false, 15, 20, 15, true},
		{"over max", "p1", false, 99, 20, 20, true},
		{"below zero", "p1", false, -5, 20, 0, true},
		{"no max", "p1", false, 99, 0, 99, true},
		{"stranger", "p2", false, 1, 20, 0, false},
		{"dm", "dm", true, 3, 20, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := svc.UpdateHP(state, tt.userID, "c1", tt.hp, tt.maxHP, tt.isDM)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, c.HP)
			}
		})
	}
}
