package services

import (
	"testing"

	"github.com/prudhvinik1/tablesync/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_Create(t *testing.T) {
	svc := NewTokenService(sequentialIDs("tok"))
	state := models.NewRoomState()

	own, ok := svc.Create(state, "p1", false, models.Token{X: 1, Y: 2, Color: "red"})
	require.True(t, ok)
	assert.Equal(t, "tok-1", own.ID)
	assert.Equal(t, "p1", own.Owner, "owner defaults to creator")

	_, ok = svc.Create(state, "p1", false, models.Token{Owner: "p2"})
	assert.False(t, ok, "players cannot create tokens for others")

	shared, ok := svc.Create(state, "dm", true, models.Token{Owner: models.OwnerAnyone})
	require.True(t, ok)
	assert.Equal(t, models.OwnerAnyone, shared.Owner)
	assert.Len(t, state.Tokens, 2)
}

// TestTokenService_Move tests the ownership rules for moving tokens
func TestTokenService_Move(t *testing.T) {
	// ARRANGE
	svc := NewTokenService(nil)
	state := models.NewRoomState()
	state.Tokens = []models.Token{
		{ID: "mine", Owner: "p1"},
		{ID: "theirs", Owner: "p2"},
		{ID: "anyone", Owner: models.OwnerAnyone},
		{ID: "unowned"},
	}

	tests := []struct {
		name    string
		userID  string
		tokenID string
		isDM    bool
		want    bool
	}{
		{"own token", "p1", "mine", false, true},
		{"other player's token", "p1", "theirs", false, false},
		{"wildcard owner", "p1", "anyone", false, true},
		{"unowned token", "p1", "unowned", false, true},
		{"dm moves anything", "dm", "theirs", true, true},
		{"missing token", "p1", "nope", false, false},
		{"missing token as dm", "dm", "nope", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// ACT
			moved, ok := svc.Move(state, tt.userID, tt.tokenID, 10, 20, tt.isDM)

			// ASSERT
			assert.Equal(t, tt.want, ok)
			if ok {
				assert.Equal(t, 10.0, moved.X)
				assert.Equal(t, 20.0, moved.Y)
				stored, _ := state.Token(tt.tokenID)
				assert.Equal(t, moved, *stored)
			}
		})
	}
}

func TestTokenService_RecolorAndImage(t *testing.T) {
	svc := NewTokenService(nil)
	state := models.NewRoomState()
	state.Tokens = []models.Token{{ID: "t1", Owner: "p1", Color: "red"}}

	token, ok := svc.Recolor(state, "p1", "t1", "blue", false)
	require.True(t, ok)
	assert.Equal(t, "blue", token.Color)

	_, ok = svc.UpdateImage(state, "p2", "t1", "https://img/1.png", false)
	assert.False(t, ok)

	token, ok = svc.UpdateImage(state, "p1", "t1", "https://img/1.png", false)
	require.True(t, ok)
	assert.Equal(t, "https://img/1.png", token.ImageURL)
}

// TestTokenService_Delete tests that only the owner or DM may delete, and character links are cleared
func TestTokenService_Delete(t *testing.T) {
	// ARRANGE
	svc := NewTokenService(nil)
	state := models.NewRoomState()
	state.Tokens = []models.Token{{ID: "t1", Owner: "p1"}, {ID: "t2", Owner: models.OwnerAnyone}}
	state.Characters = []models.Character{{ID: "c1", Owner: "p1", TokenID: "t1"}}

	// ACT & ASSERT
	assert.False(t, svc.Delete(state, "p2", "t1", false), "not the owner")
	assert.False(t, svc.Delete(state, "p2", "t2", false), "wildcard tokens are DM-deletable only")
	assert.True(t, svc.Delete(state, "p1", "t1", false))
	assert.False(t, svc.Delete(state, "p1", "t1", false), "already gone")
	assert.True(t, svc.Delete(state, "dm", "t2", true))

	assert.Empty(t, state.Tokens)
	assert.Empty(t, state.Characters[0].TokenID)
}
