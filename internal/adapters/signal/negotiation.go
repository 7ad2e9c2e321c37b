package signal

import (
	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/rs/zerolog/log"
)

// handleNegotiation relays offer, answer and ice-candidate to one peer.
// The server never inspects the body.
func (ctl *SignalWSController) handleNegotiation(c *WsSignalConn, kind core.SignalKind, data []byte) {
	var p negotiationPayload
	if !ctl.bind(c, data, &p) {
		return
	}
	if err := ctl.Orch.RelaySignal(kind, c.id, domain.ConnID(p.To), p.body(kind)); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("kind", string(kind)).Msg("relay rejected")
	}
}
