package signal

import (
	"errors"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/dkeye/Meet/internal/metrics"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleCreateMeeting(c *WsSignalConn, data []byte) {
	var p createMeetingPayload
	if !ctl.bind(c, data, &p) {
		return
	}
	if !ctl.limiter.Allow(c.id) {
		log.Warn().Str("module", "signal").Str("conn", string(c.id)).Msg("create-meeting rate limited")
		ctl.Orch.Metrics.Inc(metrics.RateLimited)
		ctl.sendError(c, core.CodeRateLimited, "too many meetings created, slow down")
		return
	}

	name := p.RoomName
	if name == "" {
		name = p.RoomID
	}
	err := ctl.Orch.CreateMeeting(c.id, domain.RoomID(p.RoomID), domain.RoomName(name), c.username(p.Creator))
	if err != nil && !errors.Is(err, core.ErrConflict) {
		log.Error().Err(err).Str("module", "signal").Msg("create-meeting")
	}
}

func (ctl *SignalWSController) handleCloseMeeting(c *WsSignalConn, data []byte) {
	var p roomPayload
	if !ctl.bind(c, data, &p) {
		return
	}
	if err := ctl.Orch.CloseMeeting(domain.RoomID(p.RoomID)); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("close-meeting ignored")
	}
}

func (ctl *SignalWSController) handleJoinRoom(c *WsSignalConn, data []byte) {
	var p joinRoomPayload
	if !ctl.bind(c, data, &p) {
		return
	}
	roomID := domain.RoomID(p.RoomID)
	if err := ctl.Orch.JoinRoom(c.id, roomID, c.username(p.Username), p.CanSpeak); err != nil {
		log.Info().Err(err).Str("module", "signal").Str("conn", string(c.id)).Str("room", p.RoomID).Msg("join-room failed")
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(c.id)).Str("room", p.RoomID).Msg("joined room")
}

func (ctl *SignalWSController) handleLeaveRoom(c *WsSignalConn, data []byte) {
	var p optionalRoomPayload
	if !ctl.bind(c, data, &p) {
		return
	}
	ctl.Orch.LeaveRoom(c.id, domain.RoomID(p.RoomID))
}

// roomFor resolves the room an in-room request targets. An explicit roomId
// must match the caller's bound room.
func (ctl *SignalWSController) roomFor(c *WsSignalConn, roomID string) (domain.RoomID, bool) {
	bound, ok := ctl.Orch.Registry.RoomOf(c.id)
	if !ok {
		return "", false
	}
	if roomID != "" && domain.RoomID(roomID) != bound {
		return "", false
	}
	return bound, true
}
