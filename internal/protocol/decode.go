package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	ErrMalformedMessage   = errors.New("malformed message")
	ErrUnknownMessageType = errors.New("unknown message type")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var inboundTypes = map[MessageType]func() Message{
	TypeAuthenticate:       func() Message { return &Authenticate{} },
	TypeHeartbeat:          func() Message { return &Heartbeat{} },
	TypeRTCSignal:          func() Message { return &RTCSignal{} },
	TypeRequestResync:      func() Message { return &RequestResync{} },
	TypeRename:             func() Message { return &Rename{} },
	TypeElevateToDM:        func() Message { return &ElevateToDM{} },
	TypeRevokeDM:           func() Message { return &RevokeDM{} },
	TypePointer:            func() Message { return &Pointer{} },
	TypeDiceRoll:           func() Message { return &DiceRoll{} },
	TypeClearRollHistory:   func() Message { return &ClearRollHistory{} },
	TypeCreateToken:        func() Message { return &CreateToken{} },
	TypeMove:               func() Message { return &Move{} },
	TypeRecolor:            func() Message { return &Recolor{} },
	TypeUpdateTokenImage:   func() Message { return &UpdateTokenImage{} },
	TypeDeleteToken:        func() Message { return &DeleteToken{} },
	TypeDragPreview:        func() Message { return &DragPreview{} },
	TypeCreateProp:         func() Message { return &CreateProp{} },
	TypeUpdateProp:         func() Message { return &UpdateProp{} },
	TypeDeleteProp:         func() Message { return &DeleteProp{} },
	TypeCreateCharacter:    func() Message { return &CreateCharacter{} },
	TypeDeleteCharacter:    func() Message { return &DeleteCharacter{} },
	TypeUpdateCharacterHP:  func() Message { return &UpdateCharacterHP{} },
	TypeSetInitiative:      func() Message { return &SetInitiative{} },
	TypeStartCombat:        func() Message { return &StartCombat{} },
	TypeEndCombat:          func() Message { return &EndCombat{} },
	TypeNextTurn:           func() Message { return &NextTurn{} },
	TypePreviousTurn:       func() Message { return &PreviousTurn{} },
	TypeClearAllInitiative: func() Message { return &ClearAllInitiative{} },
	TypeSelectObject:       func() Message { return &SelectObject{} },
	TypeSelectMultiple:     func() Message { return &SelectMultiple{} },
	TypeDeselectObject:     func() Message { return &DeselectObject{} },
	TypeMapBackground:      func() Message { return &MapBackground{} },
	TypeGridSize:           func() Message { return &GridSize{} },
	TypeDraw:               func() Message { return &Draw{} },
	TypeEraseDrawing:       func() Message { return &EraseDrawing{} },
	TypeClearDrawings:      func() Message { return &ClearDrawings{} },
}

// Decode parses one inbound frame into its typed message and validates it.
func Decode(raw []byte) (Message, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	factory, ok := inboundTypes[env.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, env.Type)
	}

	msg := factory()
	if err := json.Unmarshal(raw, msg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedMessage, env.Type, err)
	}
	if err := validate.Struct(msg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedMessage, env.Type, err)
	}
	return msg, nil
}

// Clone returns a deep copy of msg built from its wire form. Edits to the
// copy's envelope never reach the caller's value.
func Clone(msg Message) (Message, error) {
	msgType := msg.Header().Type
	factory, ok := inboundTypes[msgType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, msgType)
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedMessage, msgType, err)
	}
	out := factory()
	if err := json.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedMessage, msgType, err)
	}
	return out, nil
}

// PeekEnvelope reads only the header of a frame.
func PeekEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return env, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if env.Type == "" {
		return env, fmt.Errorf("%w: missing type", ErrMalformedMessage)
	}
	return env, nil
}

// PeekType reads only the discriminant of a frame.
func PeekType(raw []byte) (MessageType, error) {
	env, err := PeekEnvelope(raw)
	if err != nil {
		return "", err
	}
	return env.Type, nil
}

// Encode serializes an inbound message; its envelope type must be set.
func Encode(msg Message) ([]byte, error) {
	if msg.Header().Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedMessage)
	}
	return json.Marshal(msg)
}
