package orch

import (
	"context"
	"sync"

	"github.com/dkeye/Meet/internal/app"
	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/dkeye/Meet/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Orchestrator drives room lifecycle and capability transitions.
// Every transition runs under mu so that each inbound event is applied as one
// atomic unit and produces a deterministic set of outbound events.
type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.RoomStore
	Relay    *app.Relay
	Policy   app.Policy
	Metrics  *metrics.Metrics

	mu sync.Mutex
}

func New(reg *app.Registry, rooms core.RoomStore, policy app.Policy, m *metrics.Metrics) *Orchestrator {
	if policy == nil {
		policy = app.DropPolicy{}
	}
	return &Orchestrator{
		Registry: reg,
		Rooms:    rooms,
		Relay:    app.NewRelay(reg, m),
		Policy:   policy,
		Metrics:  m,
	}
}

// Connect registers a freshly upgraded transport.
func (o *Orchestrator) Connect(id domain.ConnID, conn core.SignalConnection, cancel context.CancelFunc) {
	o.Registry.Register(id, conn, cancel)
	o.Metrics.Inc(metrics.ConnectionsOpened)
}

// Disconnect reconciles a closed transport. It shares the leave path, so a
// leave followed by a disconnect only unregisters.
func (o *Orchestrator) Disconnect(id domain.ConnID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	rooms, err := o.Registry.Unregister(id)
	if err != nil {
		log.Debug().Err(err).Str("module", "orch").Msg("disconnect of unknown connection")
		return
	}
	o.Metrics.Inc(metrics.ConnectionsClosed)
	for _, roomID := range rooms {
		o.leaveLocked(id, roomID)
	}
}

// Send delivers one event to one connection.
func (o *Orchestrator) Send(id domain.ConnID, v any) {
	frame, err := core.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode event")
		return
	}
	conn, err := o.Registry.RouteTarget(id)
	if err != nil {
		return
	}
	o.deliver(id, conn, frame)
}

func (o *Orchestrator) sendToParticipants(ps []domain.Participant, v any) {
	if len(ps) == 0 {
		return
	}
	frame, err := core.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode event")
		return
	}
	for _, p := range ps {
		conn, err := o.Registry.RouteTarget(p.ID)
		if err != nil {
			continue
		}
		o.deliver(p.ID, conn, frame)
	}
}

// broadcastAll reaches every connected client, joined or not.
func (o *Orchestrator) broadcastAll(v any) {
	frame, err := core.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode event")
		return
	}
	for _, snap := range o.Registry.Connections() {
		o.deliver(snap.ID, snap.Conn, frame)
	}
}

func (o *Orchestrator) deliver(id domain.ConnID, conn core.SignalConnection, frame core.Frame) {
	err := conn.TrySend(frame)
	if err == nil {
		return
	}
	o.Metrics.Inc(metrics.FramesDropped)
	log.Debug().Err(err).Str("module", "orch").Str("conn", string(id)).Msg("frame dropped")
	if o.Policy != nil && o.Policy.OnBackPressure(id) == app.KickMember {
		o.Registry.Cancel(id)
	}
}
