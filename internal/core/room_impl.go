package core

import (
	"fmt"
	"slices"
	"sync"

	"github.com/dkeye/Meet/internal/domain"
	"github.com/rs/zerolog/log"
)

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned resources.
type roomImpl struct {
	room *domain.Room

	mu          sync.RWMutex
	byID        map[domain.ConnID]*domain.Participant
	order       []domain.ConnID
	screenOwner domain.ConnID
}

func NewRoomService(room *domain.Room) RoomService {
	return &roomImpl{
		room: room,
		byID: make(map[domain.ConnID]*domain.Participant),
	}
}

func (r *roomImpl) Room() *domain.Room { return r.room }

func (r *roomImpl) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func (r *roomImpl) Member(id domain.ConnID) (domain.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return domain.Participant{}, false
	}
	return *p, true
}

func (r *roomImpl) AddMember(p domain.Participant) []domain.Participant {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.IsScreenSharing = r.screenOwner == p.ID
	if _, ok := r.byID[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	r.byID[p.ID] = &p
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("conn", string(p.ID)).Msg("member added")
	return r.snapshotLocked()
}

func (r *roomImpl) RemoveMember(id domain.ConnID) ([]domain.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return r.snapshotLocked(), false
	}
	delete(r.byID, id)
	r.order = slices.DeleteFunc(r.order, func(c domain.ConnID) bool { return c == id })
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("conn", string(id)).Msg("member removed")
	return r.snapshotLocked(), true
}

func (r *roomImpl) SetCanSpeak(id domain.ConnID, canSpeak bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("participant %s: %w", id, ErrNotFound)
	}
	p.CanSpeak = canSpeak
	return nil
}

func (r *roomImpl) SetMuted(id domain.ConnID, isMuted bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("participant %s: %w", id, ErrNotFound)
	}
	p.IsMuted = isMuted
	return nil
}

// ClaimScreenShare makes id the owner unconditionally. The newest claim wins.
func (r *roomImpl) ClaimScreenShare(id domain.ConnID) (domain.ConnID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return "", fmt.Errorf("participant %s: %w", id, ErrNotFound)
	}
	prev := r.screenOwner
	if old, ok := r.byID[prev]; ok {
		old.IsScreenSharing = false
	}
	r.screenOwner = id
	p.IsScreenSharing = true
	log.Debug().Str("module", "core.room").Str("room", string(r.room.ID)).Str("owner", string(id)).Str("previous", string(prev)).Msg("screen share claimed")
	return prev, nil
}

// ReleaseScreenShare clears ownership only if id is the current owner.
func (r *roomImpl) ReleaseScreenShare(id domain.ConnID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id == "" || r.screenOwner != id {
		return false
	}
	r.screenOwner = ""
	if p, ok := r.byID[id]; ok {
		p.IsScreenSharing = false
	}
	return true
}

func (r *roomImpl) ScreenSharingOwner() (domain.ConnID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.screenOwner, r.screenOwner != ""
}

func (r *roomImpl) MembersSnapshot() []domain.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

func (r *roomImpl) snapshotLocked() []domain.Participant {
	out := make([]domain.Participant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.byID[id])
	}
	return out
}
