package core

import (
	"github.com/dkeye/Meet/internal/domain"
)

// RoomService is the core-facing API of a room.
// It owns the membership set but never touches transport resources.
// Every method is safe for concurrent use; mutations on one room are serialized.
type RoomService interface {
	Room() *domain.Room
	MemberCount() int
	MembersSnapshot() []domain.Participant
	Member(id domain.ConnID) (domain.Participant, bool)

	// AddMember inserts p or updates it in place, keeping join order.
	AddMember(p domain.Participant) []domain.Participant
	// RemoveMember reports whether id was present. Screen-share ownership is
	// left untouched; callers release it explicitly.
	RemoveMember(id domain.ConnID) (remaining []domain.Participant, removed bool)

	SetCanSpeak(id domain.ConnID, canSpeak bool) error
	SetMuted(id domain.ConnID, isMuted bool) error

	ClaimScreenShare(id domain.ConnID) (previous domain.ConnID, err error)
	ReleaseScreenShare(id domain.ConnID) bool
	ScreenSharingOwner() (domain.ConnID, bool)
}

// RoomStore is the in-memory directory of active rooms.
type RoomStore interface {
	CreateRoom(id domain.RoomID, name domain.RoomName, creator string) (domain.DirectoryEntry, error)
	DeleteRoom(id domain.RoomID) bool
	GetRoom(id domain.RoomID) (RoomService, bool)
	ListActiveRooms() []domain.DirectoryEntry
	Count() int

	AddParticipant(id domain.RoomID, conn domain.ConnID, username string, canSpeak bool) ([]domain.Participant, error)
	RemoveParticipant(id domain.RoomID, conn domain.ConnID) (remaining []domain.Participant, empty bool, err error)
	Participants(id domain.RoomID) ([]domain.Participant, error)

	SetCapability(id domain.RoomID, conn domain.ConnID, canSpeak bool) error
	SetMuted(id domain.RoomID, conn domain.ConnID, isMuted bool) error
	ClaimScreenShare(id domain.RoomID, conn domain.ConnID) (previous domain.ConnID, err error)
	ReleaseScreenShare(id domain.RoomID, conn domain.ConnID) bool
}
