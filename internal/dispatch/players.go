package dispatch

import (
	"github.com/prudhvinik1/tablesync/internal/protocol"
	"github.com/prudhvinik1/tablesync/internal/services"
)

// PlayersDispatcher owns player records, DM elevation, pointers, dice and
// the signaling relay.
type PlayersDispatcher struct {
	players *services.PlayerService
	dice    *services.DiceService
	auth    *services.AuthService
}

func NewPlayersDispatcher(players *services.PlayerService, dice *services.DiceService, auth *services.AuthService) *PlayersDispatcher {
	return &PlayersDispatcher{players: players, dice: dice, auth: auth}
}

func (d *PlayersDispatcher) Dispatch(msg protocol.Message, rc *RouteContext, senderID string) (*Result, bool) {
	switch m := msg.(type) {
	case *protocol.Rename:
		player, ok := d.players.Rename(rc.State, senderID, m.Name)
		if !ok {
			return unchanged(), true
		}
		return changed(protocol.EntityPlayerUpdated, player), true
	case *protocol.ElevateToDM:
		return d.elevate(m, rc, senderID), true
	case *protocol.RevokeDM:
		res := unchanged()
		if player, ok := d.players.SetDM(rc.State, senderID, false); ok {
			res = changed(protocol.EntityPlayerUpdated, player)
		}
		res.Replies = append(res.Replies, protocol.DMStatusFrame{Type: protocol.TypeDMStatus, IsDM: false})
		return res, true
	case *protocol.Pointer:
		pointer := rc.State.SetPointer(senderID, m.X, m.Y, rc.Now)
		return &Result{Relays: []Relay{{Frame: protocol.PointerPreviewFrame{
			Type:    protocol.TypePointerPreview,
			Pointer: pointer,
		}}}}, true
	case *protocol.DiceRoll:
		roll := d.dice.Record(rc.State, senderID, m.Formula, m.Total, m.Breakdown, rc.Now)
		return changed(protocol.EntityDiceRolled, roll), true
	case *protocol.ClearRollHistory:
		if !d.dice.ClearHistory(rc.State) {
			return unchanged(), true
		}
		return changed(protocol.EntityDiceHistory, nil), true
	case *protocol.RTCSignal:
		if m.Target == senderID {
			return unchanged(), true
		}
		return &Result{Relays: []Relay{{To: m.Target, Frame: protocol.SignalFrame{
			Type:   protocol.TypeRTCSignal,
			From:   senderID,
			Signal: m.Signal,
		}}}}, true
	}
	return nil, false
}

func (d *PlayersDispatcher) elevate(m *protocol.ElevateToDM, rc *RouteContext, senderID string) *Result {
	if rc.IsDM {
		res := unchanged()
		res.Replies = []any{protocol.DMStatusFrame{Type: protocol.TypeDMStatus, IsDM: true}}
		return res
	}
	if !d.auth.VerifyDMPassword(m.DMPassword) {
		res := rejected(ReasonInvalidPassword)
		res.Replies = []any{protocol.DMStatusFrame{Type: protocol.TypeDMStatus, IsDM: false}}
		return res
	}
	player, ok := d.players.SetDM(rc.State, senderID, true)
	if !ok {
		return rejected(ReasonRejected)
	}
	res := changed(protocol.EntityPlayerUpdated, player)
	res.Replies = []any{protocol.DMStatusFrame{Type: protocol.TypeDMStatus, IsDM: true}}
	return res
}
