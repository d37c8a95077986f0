package protocol

import (
	"encoding/json"

	"github.com/prudhvinik1/tablesync/internal/models"
)

// Envelope is the header every frame shares.
type Envelope struct {
	Type      MessageType `json:"type"`
	CommandID string      `json:"commandId,omitempty"`
}

func (e *Envelope) Header() *Envelope { return e }

func (*Envelope) inbound() {}

// Message is the closed set of inbound frames. Every implementation embeds
// Envelope and is listed in the decode table.
type Message interface {
	Header() *Envelope
	inbound()
}

type Authenticate struct {
	Envelope
	RoomID string `json:"roomId" validate:"required,max=64"`
	UID    string `json:"uid" validate:"required_without=Token,max=64"`
	Name   string `json:"name" validate:"max=64"`
	Secret string `json:"secret,omitempty"`
	Token  string `json:"token,omitempty"`
}

type Heartbeat struct {
	Envelope
}

type RTCSignal struct {
	Envelope
	Target string          `json:"target" validate:"required"`
	Signal json.RawMessage `json:"signal" validate:"required"`
}

type RequestResync struct {
	Envelope
	KnownVersion uint64 `json:"knownVersion,omitempty"`
}

type Rename struct {
	Envelope
	Name string `json:"name" validate:"required,max=64"`
}

type ElevateToDM struct {
	Envelope
	DMPassword string `json:"dmPassword" validate:"required"`
}

type RevokeDM struct {
	Envelope
}

type Pointer struct {
	Envelope
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type DiceRoll struct {
	Envelope
	Formula   string `json:"formula" validate:"required,max=128"`
	Total     int    `json:"total"`
	Breakdown []int  `json:"breakdown,omitempty" validate:"max=100"`
}

type ClearRollHistory struct {
	Envelope
}

type CreateToken struct {
	Envelope
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Color    string  `json:"color"`
	ImageURL string  `json:"imageUrl,omitempty"`
	Owner    string  `json:"owner,omitempty"`
}

type Move struct {
	Envelope
	ID string  `json:"id" validate:"required"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type Recolor struct {
	Envelope
	ID    string `json:"id" validate:"required"`
	Color string `json:"color" validate:"required,max=32"`
}

type UpdateTokenImage struct {
	Envelope
	ID       string `json:"id" validate:"required"`
	ImageURL string `json:"imageUrl"`
}

type DeleteToken struct {
	Envelope
	ID string `json:"id" validate:"required"`
}

type DragObject struct {
	ID string  `json:"id" validate:"required"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type DragPreview struct {
	Envelope
	Objects []DragObject `json:"objects" validate:"required,min=1,max=100,dive"`
}

type CreateProp struct {
	Envelope
	Label    string  `json:"label" validate:"max=128"`
	ImageURL string  `json:"imageUrl"`
	Owner    string  `json:"owner,omitempty"`
	Size     string  `json:"size"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
	Rotation float64 `json:"rotation"`
}

type UpdateProp struct {
	Envelope
	ID       string  `json:"id" validate:"required"`
	Label    string  `json:"label" validate:"max=128"`
	ImageURL string  `json:"imageUrl"`
	Owner    string  `json:"owner,omitempty"`
	Size     string  `json:"size"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
	Rotation float64 `json:"rotation"`
}

type DeleteProp struct {
	Envelope
	ID string `json:"id" validate:"required"`
}

type CreateCharacter struct {
	Envelope
	Name        string `json:"name" validate:"required,max=64"`
	HP          int    `json:"hp"`
	MaxHP       int    `json:"maxHp" validate:"gte=0"`
	TokenID     string `json:"tokenId,omitempty"`
	PortraitURL string `json:"portraitUrl,omitempty"`
}

type DeleteCharacter struct {
	Envelope
	ID string `json:"id" validate:"required"`
}

type UpdateCharacterHP struct {
	Envelope
	ID    string `json:"id" validate:"required"`
	HP    int    `json:"hp"`
	MaxHP int    `json:"maxHp" validate:"gte=0"`
}

type SetInitiative struct {
	Envelope
	CharacterID string `json:"characterId" validate:"required"`
	Initiative  int    `json:"initiative"`
	Modifier    int    `json:"modifier"`
}

type StartCombat struct {
	Envelope
}

type EndCombat struct {
	Envelope
}

type NextTurn struct {
	Envelope
}

type PreviousTurn struct {
	Envelope
}

type ClearAllInitiative struct {
	Envelope
}

type SelectObject struct {
	Envelope
	ObjectID string `json:"objectId" validate:"required"`
}

type SelectionOp string

const (
	SelectReplace  SelectionOp = "replace"
	SelectAppend   SelectionOp = "append"
	SelectSubtract SelectionOp = "subtract"
)

type SelectMultiple struct {
	Envelope
	ObjectIDs []string    `json:"objectIds" validate:"max=500"`
	Mode      SelectionOp `json:"mode" validate:"omitempty,oneof=replace append subtract"`
}

type DeselectObject struct {
	Envelope
}

type MapBackground struct {
	Envelope
	Data string `json:"data"`
}

type GridSize struct {
	Envelope
	Size float64 `json:"size" validate:"gt=0"`
	Unit string  `json:"unit,omitempty" validate:"max=16"`
}

type Draw struct {
	Envelope
	Points  []models.Point `json:"points" validate:"required,min=1,max=10000"`
	Color   string         `json:"color"`
	Width   float64        `json:"width" validate:"gte=0"`
	Opacity float64        `json:"opacity" validate:"gte=0,lte=1"`
}

type EraseDrawing struct {
	Envelope
	ID string `json:"id" validate:"required"`
}

type ClearDrawings struct {
	Envelope
}
