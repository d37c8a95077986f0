package models

// DiceHistoryCapacity bounds the roll history; the oldest roll is evicted first.
const DiceHistoryCapacity = 100

// DiceRoll records a roll computed by the client.
type DiceRoll struct {
	ID        string `json:"id"`
	UID       string `json:"uid"`
	Name      string `json:"name"`
	Formula   string `json:"formula"`
	Total     int    `json:"total"`
	Breakdown []int  `json:"breakdown,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// AppendDiceRoll records roll and evicts from the front past capacity.
func (s *RoomState) AppendDiceRoll(roll DiceRoll) {
	s.DiceRolls = append(s.DiceRolls, roll)
	if over := len(s.DiceRolls) - DiceHistoryCapacity; over > 0 {
		trimmed := make([]DiceRoll, DiceHistoryCapacity)
		copy(trimmed, s.DiceRolls[over:])
		s.DiceRolls = trimmed
	}
}
