package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomState_MarshalRoundTrip(t *testing.T) {
	// ARRANGE: a state with every observable field populated
	initiative := 14
	state := NewRoomState()
	state.Users = []string{"u1", "u2"}
	state.Players = []Player{{UID: "u1", Name: "Ada", IsDM: true}, {UID: "u2", Name: "Bo"}}
	state.Tokens = []Token{{ID: "t1", Owner: "u2", X: 3, Y: 4, Color: "#ff0000", ImageURL: "https://img/t1.png"}}
	state.Props = []Prop{{ID: "p1", Label: "Chest", ImageURL: "chest.png", Owner: OwnerAnyone, Size: "2x2", X: 1, Y: 1, ScaleX: 1, ScaleY: 1, Rotation: 90}}
	state.Characters = []Character{{ID: "c1", Name: "Bo", Owner: "u2", HP: 7, MaxHP: 10, Initiative: &initiative, Modifier: 2}}
	state.Drawings = []Drawing{{ID: "d1", Owner: "u1", Points: []Point{{X: 0, Y: 0}, {X: 5, Y: 5}}, Color: "#000", Width: 2, Opacity: 0.5}}
	state.MapBackground = "data:image/png;base64,AAAA"
	state.SetPointer("u1", 10, 20, time.UnixMilli(1700000000000))
	state.Grid = Grid{Size: 70, Unit: "m"}
	state.AppendDiceRoll(DiceRoll{ID: "r1", UID: "u2", Name: "Bo", Formula: "1d20", Total: 17, Breakdown: []int{17}, Timestamp: 1})
	state.StateVersion = 42
	state.SelectionState["u1"] = SingleSelection("t1")
	state.SelectionState["u2"] = MultipleSelection([]string{"p1", "d1"})
	state.CombatActive = true
	state.InitiativeOrder = []string{"c1"}
	state.CurrentTurnCharacterID = "c1"

	// ACT
	data, err := Marshal(state)
	require.NoError(t, err)
	decoded, err := Unmarshal(data)

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, state, decoded)
}

func TestRoomState_UnmarshalEmptyRecord(t *testing.T) {
	decoded, err := Unmarshal([]byte(`{}`))

	require.NoError(t, err)
	assert.Equal(t, NewRoomState(), decoded)
}

func TestRoomState_UnmarshalCorrupt(t *testing.T) {
	_, err := Unmarshal([]byte(`{"tokens": 12`))

	assert.Error(t, err)
}

func TestRoomState_DiceHistoryEvictsOldest(t *testing.T) {
	state := NewRoomState()

	for i := 0; i < DiceHistoryCapacity+5; i++ {
		state.AppendDiceRoll(DiceRoll{ID: fmt.Sprintf("r%d", i)})
	}

	require.Len(t, state.DiceRolls, DiceHistoryCapacity)
	assert.Equal(t, "r5", state.DiceRolls[0].ID, "oldest five rolls should be evicted")
	assert.Equal(t, fmt.Sprintf("r%d", DiceHistoryCapacity+4), state.DiceRolls[DiceHistoryCapacity-1].ID)
}

func TestRoomState_Users(t *testing.T) {
	state := NewRoomState()

	assert.True(t, state.AddUser("u1"))
	assert.False(t, state.AddUser("u1"), "adding twice should be a no-op")
	assert.True(t, state.RemoveUser("u1"))
	assert.False(t, state.RemoveUser("u1"))
	assert.Empty(t, state.Users)
}

func TestSelectionFromIDs(t *testing.T) {
	_, ok := SelectionFromIDs(nil)
	assert.False(t, ok)

	sel, ok := SelectionFromIDs([]string{"a"})
	require.True(t, ok)
	assert.Equal(t, SingleSelection("a"), sel)

	sel, ok = SelectionFromIDs([]string{"a", "b"})
	require.True(t, ok)
	assert.Equal(t, SelectionMultiple, sel.Mode)
	assert.True(t, sel.Contains("b"))
}
