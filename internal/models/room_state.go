package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// OwnerAnyone marks a token any connected user may control.
const OwnerAnyone = "*"

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Player struct {
	UID  string `json:"uid"`
	Name string `json:"name"`
	IsDM bool   `json:"isDM,omitempty"`
}

// Token is a movable board piece. An empty Owner means unowned.
type Token struct {
	ID       string  `json:"id"`
	Owner    string  `json:"owner,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Color    string  `json:"color"`
	ImageURL string  `json:"imageUrl,omitempty"`
}

type Prop struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	ImageURL string  `json:"imageUrl"`
	Owner    string  `json:"owner,omitempty"`
	Size     string  `json:"size"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
	Rotation float64 `json:"rotation"`
}

type Character struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Owner       string `json:"owner,omitempty"`
	HP          int    `json:"hp"`
	MaxHP       int    `json:"maxHp"`
	TokenID     string `json:"tokenId,omitempty"`
	PortraitURL string `json:"portraitUrl,omitempty"`
	Initiative  *int   `json:"initiative,omitempty"`
	Modifier    int    `json:"initiativeModifier,omitempty"`
}

// Drawing is one freehand stroke.
type Drawing struct {
	ID      string  `json:"id"`
	Owner   string  `json:"owner"`
	Points  []Point `json:"points"`
	Color   string  `json:"color"`
	Width   float64 `json:"width"`
	Opacity float64 `json:"opacity"`
}

type Pointer struct {
	UID       string  `json:"uid"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Timestamp int64   `json:"timestamp"`
}

type Grid struct {
	Size float64 `json:"size"`
	Unit string  `json:"unit"`
}

// RoomState is the authoritative entity graph of one room. It is mutated in
// place by the dispatch loop only.
type RoomState struct {
	Users          []string             `json:"users"`
	Players        []Player             `json:"players"`
	Tokens         []Token              `json:"tokens"`
	Props          []Prop               `json:"props"`
	Characters     []Character          `json:"characters"`
	Drawings       []Drawing            `json:"drawings,omitempty"`
	MapBackground  string               `json:"mapBackground,omitempty"`
	Pointers       []Pointer            `json:"pointers"`
	Grid           Grid                 `json:"grid"`
	DiceRolls      []DiceRoll           `json:"diceRollHistory"`
	StateVersion   uint64               `json:"stateVersion"`
	SelectionState map[string]Selection `json:"selectionState"`

	CombatActive           bool     `json:"combatActive"`
	InitiativeOrder        []string `json:"initiativeOrder"`
	CurrentTurnCharacterID string   `json:"currentTurnCharacterId,omitempty"`
}

const (
	DefaultGridSize = 50
	DefaultGridUnit = "ft"
)

func NewRoomState() *RoomState {
	return &RoomState{
		Users:           []string{},
		Players:         []Player{},
		Tokens:          []Token{},
		Props:           []Prop{},
		Characters:      []Character{},
		Drawings:        []Drawing{},
		Pointers:        []Pointer{},
		Grid:            Grid{Size: DefaultGridSize, Unit: DefaultGridUnit},
		DiceRolls:       []DiceRoll{},
		SelectionState:  make(map[string]Selection),
		InitiativeOrder: []string{},
	}
}

// Marshal serializes the full state for persistence.
func Marshal(state *RoomState) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal room state: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a persisted state. Collections absent from the record
// come back empty rather than nil.
func Unmarshal(data []byte) (*RoomState, error) {
	state := NewRoomState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room state: %w", err)
	}
	state.normalize()
	return state, nil
}

func (s *RoomState) normalize() {
	if s.Users == nil {
		s.Users = []string{}
	}
	if s.Players == nil {
		s.Players = []Player{}
	}
	if s.Tokens == nil {
		s.Tokens = []Token{}
	}
	if s.Props == nil {
		s.Props = []Prop{}
	}
	if s.Characters == nil {
		s.Characters = []Character{}
	}
	if s.Drawings == nil {
		s.Drawings = []Drawing{}
	}
	if s.Pointers == nil {
		s.Pointers = []Pointer{}
	}
	if s.DiceRolls == nil {
		s.DiceRolls = []DiceRoll{}
	}
	if s.SelectionState == nil {
		s.SelectionState = make(map[string]Selection)
	}
	if s.InitiativeOrder == nil {
		s.InitiativeOrder = []string{}
	}
}

func (s *RoomState) Player(uid string) (*Player, bool) {
	for i := range s.Players {
		if s.Players[i].UID == uid {
			return &s.Players[i], true
		}
	}
	return nil, false
}

func (s *RoomState) Token(id string) (*Token, bool) {
	for i := range s.Tokens {
		if s.Tokens[i].ID == id {
			return &s.Tokens[i], true
		}
	}
	return nil, false
}

func (s *RoomState) Prop(id string) (*Prop, bool) {
	for i := range s.Props {
		if s.Props[i].ID == id {
			return &s.Props[i], true
		}
	}
	return nil, false
}

func (s *RoomState) Character(id string) (*Character, bool) {
	for i := range s.Characters {
		if s.Characters[i].ID == id {
			return &s.Characters[i], true
		}
	}
	return nil, false
}

func (s *RoomState) HasUser(uid string) bool {
	for _, u := range s.Users {
		if u == uid {
			return true
		}
	}
	return false
}

// AddUser appends uid to the connected list. Returns false if already present.
func (s *RoomState) AddUser(uid string) bool {
	if s.HasUser(uid) {
		return false
	}
	s.Users = append(s.Users, uid)
	return true
}

func (s *RoomState) RemoveUser(uid string) bool {
	for i, u := range s.Users {
		if u == uid {
			s.Users = append(s.Users[:i], s.Users[i+1:]...)
			return true
		}
	}
	return false
}

// SetPointer replaces uid's pointer.
func (s *RoomState) SetPointer(uid string, x, y float64, at time.Time) Pointer {
	p := Pointer{UID: uid, X: x, Y: y, Timestamp: at.UnixMilli()}
	for i := range s.Pointers {
		if s.Pointers[i].UID == uid {
			s.Pointers[i] = p
			return p
		}
	}
	s.Pointers = append(s.Pointers, p)
	return p
}

func (s *RoomState) RemovePointer(uid string) bool {
	for i := range s.Pointers {
		if s.Pointers[i].UID == uid {
			s.Pointers = append(s.Pointers[:i], s.Pointers[i+1:]...)
			return true
		}
	}
	return false
}
