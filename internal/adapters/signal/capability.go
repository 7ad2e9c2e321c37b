package signal

import (
	"github.com/dkeye/Meet/internal/domain"
	"github.com/rs/zerolog/log"
)

// handleSpeak applies invite-to-speak and revoke-speak. Who may moderate is
// decided upstream; here the target only has to be in the room.
func (ctl *SignalWSController) handleSpeak(c *WsSignalConn, data []byte, canSpeak bool) {
	var p speakPayload
	if !ctl.bind(c, data, &p) {
		return
	}
	change := ctl.Orch.RevokeSpeak
	if canSpeak {
		change = ctl.Orch.InviteToSpeak
	}
	if err := change(domain.RoomID(p.RoomID), domain.ConnID(p.UserID)); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("target", p.UserID).Msg("speak change ignored")
	}
}

func (ctl *SignalWSController) handleToggleMute(c *WsSignalConn, data []byte) {
	var p mutePayload
	if !ctl.bind(c, data, &p) {
		return
	}
	roomID, ok := ctl.roomFor(c, p.RoomID)
	if !ok {
		return
	}
	if err := ctl.Orch.ToggleMute(roomID, c.id, p.IsMuted); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("toggle-mute ignored")
	}
}

func (ctl *SignalWSController) handleStartScreenShare(c *WsSignalConn, data []byte) {
	var p optionalRoomPayload
	if !ctl.bind(c, data, &p) {
		return
	}
	roomID, ok := ctl.roomFor(c, p.RoomID)
	if !ok {
		return
	}
	prev, err := ctl.Orch.StartScreenShare(roomID, c.id)
	if err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("start-screen-share ignored")
		return
	}
	if prev != "" && prev != c.id {
		log.Info().Str("module", "signal").Str("room", string(roomID)).Str("displaced", string(prev)).Msg("screen share taken over")
	}
}

func (ctl *SignalWSController) handleStopScreenShare(c *WsSignalConn, data []byte) {
	var p optionalRoomPayload
	if !ctl.bind(c, data, &p) {
		return
	}
	roomID, ok := ctl.roomFor(c, p.RoomID)
	if !ok {
		return
	}
	ctl.Orch.StopScreenShare(roomID, c.id)
}
