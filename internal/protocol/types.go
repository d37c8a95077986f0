// Package protocol defines the JSON frames exchanged over a room connection.
// Every frame carries a "type" discriminant.
package protocol

type MessageType string

// Inbound (client to server).
const (
	TypeAuthenticate  MessageType = "authenticate"
	TypeHeartbeat     MessageType = "heartbeat"
	TypeRTCSignal     MessageType = "rtc-signal"
	TypeRequestResync MessageType = "request-resync"

	TypeRename           MessageType = "rename"
	TypeElevateToDM      MessageType = "elevate-to-dm"
	TypeRevokeDM         MessageType = "revoke-dm"
	TypePointer          MessageType = "pointer"
	TypeDiceRoll         MessageType = "dice-roll"
	TypeClearRollHistory MessageType = "clear-roll-history"

	TypeCreateToken      MessageType = "create-token"
	TypeMove             MessageType = "move"
	TypeRecolor          MessageType = "recolor"
	TypeUpdateTokenImage MessageType = "update-token-image"
	TypeDeleteToken      MessageType = "delete-token"
	TypeDragPreview      MessageType = "drag-preview"

	TypeCreateProp MessageType = "create-prop"
	TypeUpdateProp MessageType = "update-prop"
	TypeDeleteProp MessageType = "delete-prop"

	TypeCreateCharacter   MessageType = "create-character"
	TypeDeleteCharacter   MessageType = "delete-character"
	TypeUpdateCharacterHP MessageType = "update-character-hp"

	TypeSetInitiative      MessageType = "set-initiative"
	TypeStartCombat        MessageType = "start-combat"
	TypeEndCombat          MessageType = "end-combat"
	TypeNextTurn           MessageType = "next-turn"
	TypePreviousTurn       MessageType = "previous-turn"
	TypeClearAllInitiative MessageType = "clear-all-initiative"

	TypeSelectObject   MessageType = "select-object"
	TypeSelectMultiple MessageType = "select-multiple"
	TypeDeselectObject MessageType = "deselect-object"

	TypeMapBackground MessageType = "map-background"
	TypeGridSize      MessageType = "grid-size"
	TypeDraw          MessageType = "draw"
	TypeEraseDrawing  MessageType = "erase-drawing"
	TypeClearDrawings MessageType = "clear-drawings"
)

// Outbound (server to client). rtc-signal and drag-preview reuse the inbound tags.
const (
	TypeSnapshot       MessageType = "snapshot"
	TypeDelta          MessageType = "delta"
	TypePointerPreview MessageType = "pointer-preview"
	TypeAck            MessageType = "ack"
	TypeNack           MessageType = "nack"
	TypeAuthOK         MessageType = "auth-ok"
	TypeAuthFail       MessageType = "auth-fail"
	TypeHeartbeatAck   MessageType = "heartbeat-ack"
	TypeDMStatus       MessageType = "dm-status"
)

// Delta entity kinds.
const (
	EntityTokenCreated      = "token-created"
	EntityTokenUpdated      = "token-updated"
	EntityTokenDeleted      = "token-deleted"
	EntityPropCreated       = "prop-created"
	EntityPropUpdated       = "prop-updated"
	EntityPropDeleted       = "prop-deleted"
	EntityCharacterCreated  = "character-created"
	EntityCharacterUpdated  = "character-updated"
	EntityCharacterDeleted  = "character-deleted"
	EntityInitiativeUpdated = "initiative-updated"
	EntitySelectionUpdated  = "selection-updated"
	EntityPlayerUpdated     = "player-updated"
	EntityDiceRolled        = "dice-rolled"
	EntityDiceHistory       = "dice-history-cleared"
	EntityGridUpdated       = "grid-updated"
	EntityDrawingCreated    = "drawing-created"
	EntityDrawingDeleted    = "drawing-deleted"
)

// untracked lists the types that never carry a command id: session plumbing
// and high-frequency previews.
var untracked = map[MessageType]struct{}{
	TypeAuthenticate:  {},
	TypeHeartbeat:     {},
	TypeRTCSignal:     {},
	TypeRequestResync: {},
	TypeDragPreview:   {},
	TypePointer:       {},
}

// IsTracked reports whether t participates in ack/nack correlation.
func IsTracked(t MessageType) bool {
	_, skip := untracked[t]
	return !skip
}
