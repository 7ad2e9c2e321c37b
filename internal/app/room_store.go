package app

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/rs/zerolog/log"
)

// RoomStoreImpl owns every room. Directory operations are serialized by mu;
// per-room operations by each room's own lock.
type RoomStoreImpl struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]core.RoomService
	order []domain.RoomID

	now func() time.Time
}

func NewRoomStore() core.RoomStore {
	return &RoomStoreImpl{
		rooms: make(map[domain.RoomID]core.RoomService),
		now:   time.Now,
	}
}

func (s *RoomStoreImpl) CreateRoom(id domain.RoomID, name domain.RoomName, creator string) (domain.DirectoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[id]; ok {
		return domain.DirectoryEntry{}, fmt.Errorf("room %s: %w", id, core.ErrConflict)
	}
	room := &domain.Room{
		ID:        id,
		Name:      name,
		Creator:   domain.NormalizeUsername(creator),
		CreatedAt: s.now().UTC(),
	}
	s.rooms[id] = core.NewRoomService(room)
	s.order = append(s.order, id)
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Str("name", string(name)).Msg("room created")
	return room.Entry(0), nil
}

func (s *RoomStoreImpl) DeleteRoom(id domain.RoomID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[id]; !ok {
		return false
	}
	delete(s.rooms, id)
	s.order = slices.DeleteFunc(s.order, func(r domain.RoomID) bool { return r == id })
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room deleted")
	return true
}

func (s *RoomStoreImpl) GetRoom(id domain.RoomID) (core.RoomService, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	return room, ok
}

func (s *RoomStoreImpl) ListActiveRooms() []domain.DirectoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.DirectoryEntry, 0, len(s.order))
	for _, id := range s.order {
		r := s.rooms[id]
		out = append(out, r.Room().Entry(r.MemberCount()))
	}
	return out
}

func (s *RoomStoreImpl) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

func (s *RoomStoreImpl) room(id domain.RoomID) (core.RoomService, error) {
	room, ok := s.GetRoom(id)
	if !ok {
		return nil, fmt.Errorf("room %s: %w", id, core.ErrNotFound)
	}
	return room, nil
}

func (s *RoomStoreImpl) AddParticipant(id domain.RoomID, conn domain.ConnID, username string, canSpeak bool) ([]domain.Participant, error) {
	room, err := s.room(id)
	if err != nil {
		return nil, err
	}
	return room.AddMember(*domain.NewParticipant(conn, username, canSpeak)), nil
}

func (s *RoomStoreImpl) RemoveParticipant(id domain.RoomID, conn domain.ConnID) ([]domain.Participant, bool, error) {
	room, err := s.room(id)
	if err != nil {
		return nil, false, err
	}
	remaining, removed := room.RemoveMember(conn)
	if !removed {
		return remaining, len(remaining) == 0, fmt.Errorf("participant %s in room %s: %w", conn, id, core.ErrNotFound)
	}
	return remaining, len(remaining) == 0, nil
}

func (s *RoomStoreImpl) Participants(id domain.RoomID) ([]domain.Participant, error) {
	room, err := s.room(id)
	if err != nil {
		return nil, err
	}
	return room.MembersSnapshot(), nil
}

func (s *RoomStoreImpl) SetCapability(id domain.RoomID, conn domain.ConnID, canSpeak bool) error {
	room, err := s.room(id)
	if err != nil {
		return err
	}
	return room.SetCanSpeak(conn, canSpeak)
}

func (s *RoomStoreImpl) SetMuted(id domain.RoomID, conn domain.ConnID, isMuted bool) error {
	room, err := s.room(id)
	if err != nil {
		return err
	}
	return room.SetMuted(conn, isMuted)
}

func (s *RoomStoreImpl) ClaimScreenShare(id domain.RoomID, conn domain.ConnID) (domain.ConnID, error) {
	room, err := s.room(id)
	if err != nil {
		return "", err
	}
	return room.ClaimScreenShare(conn)
}

func (s *RoomStoreImpl) ReleaseScreenShare(id domain.RoomID, conn domain.ConnID) bool {
	room, err := s.room(id)
	if err != nil {
		return false
	}
	return room.ReleaseScreenShare(conn)
}
