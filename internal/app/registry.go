package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/rs/zerolog/log"
)

type connEntry struct {
	RoomID domain.RoomID
	Conn   core.SignalConnection
	Cancel context.CancelFunc
}

// Registry tracks every live signaling connection and the room it is bound to.
// It holds back-references only; participant state lives in the room store.
type Registry struct {
	mu    sync.RWMutex
	conns map[domain.ConnID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[domain.ConnID]*connEntry),
	}
}

func (r *Registry) Register(id domain.ConnID, conn core.SignalConnection, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[id] = &connEntry{Conn: conn, Cancel: cancel}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("registered connection")
}

// Unregister forgets the connection and returns the rooms it was bound to.
func (r *Registry) Unregister(id domain.ConnID) ([]domain.RoomID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return nil, fmt.Errorf("connection %s: %w", id, core.ErrNotFound)
	}
	delete(r.conns, id)
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("unregistered connection")
	if e.RoomID == "" {
		return nil, nil
	}
	return []domain.RoomID{e.RoomID}, nil
}

func (r *Registry) Bind(id domain.ConnID, roomID domain.RoomID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return fmt.Errorf("connection %s: %w", id, core.ErrNotFound)
	}
	e.RoomID = roomID
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Str("room", string(roomID)).Msg("bound to room")
	return nil
}

// Unbind clears the room binding and returns what it was.
// A connection without a binding yields nil, which makes repeated leaves no-ops.
func (r *Registry) Unbind(id domain.ConnID) []domain.RoomID {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok || e.RoomID == "" {
		return nil
	}
	roomID := e.RoomID
	e.RoomID = ""
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Str("room", string(roomID)).Msg("unbound from room")
	return []domain.RoomID{roomID}
}

// UnbindRoom clears every binding to roomID.
func (r *Registry) UnbindRoom(roomID domain.RoomID) []domain.ConnID {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ConnID
	for id, e := range r.conns {
		if e.RoomID == roomID {
			e.RoomID = ""
			out = append(out, id)
		}
	}
	return out
}

func (r *Registry) RoomOf(id domain.ConnID) (domain.RoomID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok || e.RoomID == "" {
		return "", false
	}
	return e.RoomID, true
}

func (r *Registry) RouteTarget(id domain.ConnID) (core.SignalConnection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok {
		return nil, fmt.Errorf("connection %s: %w", id, core.ErrNotFound)
	}
	return e.Conn, nil
}

// ConnSnapshot is one entry of Connections.
type ConnSnapshot struct {
	ID   domain.ConnID
	Conn core.SignalConnection
}

// Connections returns a snapshot of every live connection.
func (r *Registry) Connections() []ConnSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ConnSnapshot, 0, len(r.conns))
	for id, e := range r.conns {
		out = append(out, ConnSnapshot{ID: id, Conn: e.Conn})
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Cancel stops the connection's pumps; the adapter then reports the disconnect.
func (r *Registry) Cancel(id domain.ConnID) bool {
	r.mu.RLock()
	e, ok := r.conns[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("canceled connection")
	return true
}
