package orch

import (
	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/goccy/go-json"
)

// RelaySignal forwards negotiation messages. It does not take the event lock:
// relaying touches no room state.
func (o *Orchestrator) RelaySignal(kind core.SignalKind, from, to domain.ConnID, payload json.RawMessage) error {
	return o.Relay.Relay(kind, from, to, payload)
}
