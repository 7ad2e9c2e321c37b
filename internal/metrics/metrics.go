package metrics

import (
	"maps"
	"sync"
)

// Event counter names.
const (
	ConnectionsOpened   = "connections_opened"
	ConnectionsClosed   = "connections_closed"
	MeetingsCreated     = "meetings_created"
	MeetingsClosed      = "meetings_closed"
	ParticipantsJoined  = "participants_joined"
	ParticipantsLeft    = "participants_left"
	SignalsRelayed      = "signals_relayed"
	SignalsDropped      = "signals_dropped"
	FramesDropped       = "frames_dropped"
	ScreenSharesStarted = "screen_shares_started"
	RateLimited         = "rate_limited"
)

// Metrics is a minimal, concurrency-safe counter registry.
type Metrics struct {
	mu sync.Mutex
	m  map[string]uint64
}

func New() *Metrics {
	return &Metrics{
		m: make(map[string]uint64),
	}
}

// Inc is a no-op on a nil receiver so components can run without metrics.
func (m *Metrics) Inc(name string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.m[name]++
	m.mu.Unlock()
}

func (m *Metrics) Get(name string) uint64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.m[name]
}

func (m *Metrics) Snapshot() map[string]uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.m)
}
