package signal

import (
	"context"
	"time"

	"github.com/dkeye/Meet/internal/core"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		// Unblocks readPump.
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("conn", string(c.id)).Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Str("conn", string(c.id)).Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(ctl.opts.WriteWait)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("writePump ping")
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(ctx context.Context, c *WsSignalConn) {
	defer log.Debug().Str("module", "signal").Str("conn", string(c.id)).Msg("readPump closing")

	if ctl.opts.ReadLimit > 0 {
		c.conn.SetReadLimit(ctl.opts.ReadLimit)
	}
	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	})

	for {
		if ctx.Err() != nil {
			return
		}
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("readPump read error")
			}
			return
		}
		ctl.handleSignal(c, data)
	}
}

func (ctl *SignalWSController) handleSignal(c *WsSignalConn, data []byte) {
	var env envelope
	if err := decode(data, &env); err != nil || env.Type == "" {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("bad json")
		ctl.sendError(c, core.CodeBadPayload, "malformed message")
		return
	}

	switch env.Type {
	case core.EventGetActiveMeetings:
		ctl.Orch.ActiveMeetings(c.id)
	case core.EventCreateMeeting:
		ctl.handleCreateMeeting(c, data)
	case core.EventCloseMeeting:
		ctl.handleCloseMeeting(c, data)
	case core.EventJoinRoom:
		ctl.handleJoinRoom(c, data)
	case core.EventLeaveRoom:
		ctl.handleLeaveRoom(c, data)
	case string(core.SignalOffer), string(core.SignalAnswer), string(core.SignalICECandidate):
		ctl.handleNegotiation(c, core.SignalKind(env.Type), data)
	case core.EventInviteToSpeak:
		ctl.handleSpeak(c, data, true)
	case core.EventRevokeSpeak:
		ctl.handleSpeak(c, data, false)
	case core.EventToggleMute:
		ctl.handleToggleMute(c, data)
	case core.EventStartScreenShare:
		ctl.handleStartScreenShare(c, data)
	case core.EventStopScreenShare:
		ctl.handleStopScreenShare(c, data)
	case core.EventPing:
		ctl.handlePing(c)
	case core.EventWhoAmI:
		ctl.handleWhoAmI(c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
		ctl.sendError(c, core.CodeBadPayload, "unknown message type")
	}
}

// sendJSON replies on the caller's own connection. Backpressure here is
// the caller's problem, so the frame is simply dropped.
func (ctl *SignalWSController) sendJSON(c *WsSignalConn, v any) {
	frame, err := core.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	if err := c.TrySend(frame); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("reply dropped")
	}
}

func (ctl *SignalWSController) sendError(c *WsSignalConn, code, msg string) {
	ctl.sendJSON(c, core.NewErrorEvent(code, msg))
}
