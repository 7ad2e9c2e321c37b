package app

import (
	"fmt"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/dkeye/Meet/internal/metrics"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// Relay forwards negotiation messages between two connections.
// It never inspects the payload.
type Relay struct {
	Registry *Registry
	Metrics  *metrics.Metrics
}

func NewRelay(reg *Registry, m *metrics.Metrics) *Relay {
	return &Relay{Registry: reg, Metrics: m}
}

// Relay delivers {kind, from, payload} to the target connection.
// A missing target or a failed send is a silent drop: the target may have
// disconnected while the sender was still negotiating.
func (r *Relay) Relay(kind core.SignalKind, from, to domain.ConnID, payload json.RawMessage) error {
	if !kind.Valid() {
		return fmt.Errorf("%q: %w", kind, core.ErrUnknownKind)
	}
	logger := log.With().
		Str("module", "app.relay").
		Str("kind", string(kind)).
		Str("from", string(from)).
		Str("to", string(to)).
		Logger()

	target, err := r.Registry.RouteTarget(to)
	if err != nil {
		logger.Debug().Err(err).Msg("relay target gone, dropping")
		r.Metrics.Inc(metrics.SignalsDropped)
		return nil
	}

	frame, err := core.Encode(core.Signal{Type: kind, From: from, Payload: payload})
	if err != nil {
		logger.Debug().Err(err).Msg("relay encode failed, dropping")
		r.Metrics.Inc(metrics.SignalsDropped)
		return nil
	}
	if err := target.TrySend(frame); err != nil {
		logger.Debug().Err(err).Msg("relay send failed, dropping")
		r.Metrics.Inc(metrics.SignalsDropped)
		return nil
	}
	r.Metrics.Inc(metrics.SignalsRelayed)
	return nil
}
