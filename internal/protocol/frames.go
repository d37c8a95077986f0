package protocol

import (
	"encoding/json"

	"github.com/prudhvinik1/tablesync/internal/models"
	"github.com/prudhvinik1/tablesync/internal/snapshot"
)

// SnapshotFrame is a full room state. Heavy fields are replaced by AssetRefs;
// Assets carries only the assets the receiving connection has not seen.
type SnapshotFrame struct {
	Type         MessageType       `json:"type"`
	StateVersion uint64            `json:"stateVersion"`
	State        *models.RoomState `json:"state"`
	AssetRefs    map[string]string `json:"assetRefs"`
	Assets       []snapshot.Asset  `json:"assets"`
}

type DeltaFrame struct {
	Type         MessageType `json:"type"`
	Entity       string      `json:"entity"`
	StateVersion uint64      `json:"stateVersion"`
	Data         any         `json:"data,omitempty"`
}

type AckFrame struct {
	Type      MessageType `json:"type"`
	CommandID string      `json:"commandId"`
}

type NackFrame struct {
	Type      MessageType `json:"type"`
	CommandID string      `json:"commandId"`
	Reason    string      `json:"reason"`
}

type AuthOKFrame struct {
	Type   MessageType `json:"type"`
	UID    string      `json:"uid"`
	RoomID string      `json:"roomId"`
}

type AuthFailFrame struct {
	Type   MessageType `json:"type"`
	Reason string      `json:"reason"`
}

type HeartbeatAckFrame struct {
	Type      MessageType `json:"type"`
	Timestamp int64       `json:"timestamp"`
}

type DMStatusFrame struct {
	Type MessageType `json:"type"`
	IsDM bool        `json:"isDM"`
}

type PointerPreviewFrame struct {
	Type    MessageType    `json:"type"`
	Pointer models.Pointer `json:"pointer"`
}

type DragPreviewFrame struct {
	Type    MessageType  `json:"type"`
	UID     string       `json:"uid"`
	Objects []DragObject `json:"objects"`
}

type SignalFrame struct {
	Type   MessageType     `json:"type"`
	From   string          `json:"from"`
	Signal json.RawMessage `json:"signal"`
}

// DeletedData is the payload of every *-deleted delta.
type DeletedData struct {
	ID string `json:"id"`
}

// InitiativeData is the payload of initiative-updated. Character is set when
// a single character's roll changed.
type InitiativeData struct {
	Character              *models.Character `json:"character,omitempty"`
	CombatActive           bool              `json:"combatActive"`
	InitiativeOrder        []string          `json:"initiativeOrder"`
	CurrentTurnCharacterID string            `json:"currentTurnCharacterId,omitempty"`
}

func NewAck(commandID string) AckFrame {
	return AckFrame{Type: TypeAck, CommandID: commandID}
}

func NewNack(commandID, reason string) NackFrame {
	return NackFrame{Type: TypeNack, CommandID: commandID, Reason: reason}
}

func NewDelta(entity string, data any) *DeltaFrame {
	return &DeltaFrame{Type: TypeDelta, Entity: entity, Data: data}
}
