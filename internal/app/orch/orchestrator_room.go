package orch

import (
	"errors"
	"fmt"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/dkeye/Meet/internal/metrics"
	"github.com/rs/zerolog/log"
)

// ActiveMeetings replies to id with the public directory.
func (o *Orchestrator) ActiveMeetings(id domain.ConnID) {
	o.Send(id, core.ActiveMeetings{
		Type:     core.EventActiveMeetings,
		Meetings: o.Rooms.ListActiveRooms(),
	})
}

// CreateMeeting lists a new room and advertises it to every client.
// A duplicate id is reported to the creator only.
func (o *Orchestrator) CreateMeeting(from domain.ConnID, roomID domain.RoomID, name domain.RoomName, creator string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	entry, err := o.Rooms.CreateRoom(roomID, name, creator)
	if err != nil {
		if errors.Is(err, core.ErrConflict) {
			o.Send(from, core.NewErrorEvent(core.CodeConflict, "meeting already exists"))
		}
		return err
	}
	o.Metrics.Inc(metrics.MeetingsCreated)
	o.broadcastAll(core.MeetingCreated{Type: core.EventMeetingCreated, Meeting: entry})
	return nil
}

// CloseMeeting deletes the room whatever its membership and unbinds its members.
func (o *Orchestrator) CloseMeeting(roomID domain.RoomID) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.Rooms.DeleteRoom(roomID) {
		return fmt.Errorf("room %s: %w", roomID, core.ErrNotFound)
	}
	unbound := o.Registry.UnbindRoom(roomID)
	log.Info().Str("module", "orch").Str("room", string(roomID)).Int("unbound", len(unbound)).Msg("meeting closed")
	o.Metrics.Inc(metrics.MeetingsClosed)
	o.broadcastAll(core.MeetingClosed{Type: core.EventMeetingClosed, RoomID: roomID})
	return nil
}

// JoinRoom adds id to roomID. The joiner first gets the pre-join snapshot
// (room-users) so it can initiate negotiation toward existing speakers, then
// everyone in the room, joiner included, gets user-joined.
func (o *Orchestrator) JoinRoom(id domain.ConnID, roomID domain.RoomID, username string, canSpeak bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	// A missing target must leave the current binding untouched.
	if _, ok := o.Rooms.GetRoom(roomID); !ok {
		o.Send(id, core.NewErrorEvent(core.CodeNotFound, "meeting does not exist"))
		return fmt.Errorf("room %s: %w", roomID, core.ErrNotFound)
	}

	if cur, ok := o.Registry.RoomOf(id); ok && cur != roomID {
		for _, prev := range o.Registry.Unbind(id) {
			o.leaveLocked(id, prev)
		}
		log.Info().Str("module", "orch").Str("conn", string(id)).Str("from_room", string(cur)).Msg("left previous room")
	}

	before, err := o.Rooms.Participants(roomID)
	if err != nil {
		o.Send(id, core.NewErrorEvent(core.CodeNotFound, "meeting does not exist"))
		return err
	}
	after, err := o.Rooms.AddParticipant(roomID, id, username, canSpeak)
	if err != nil {
		o.Send(id, core.NewErrorEvent(core.CodeNotFound, "meeting does not exist"))
		return err
	}
	if err := o.Registry.Bind(id, roomID); err != nil {
		// Transport is already gone; undo so the room does not keep a ghost.
		o.leaveLocked(id, roomID)
		return err
	}
	o.Metrics.Inc(metrics.ParticipantsJoined)

	existing := make([]domain.Participant, 0, len(before))
	for _, p := range before {
		if p.ID != id {
			existing = append(existing, p)
		}
	}
	o.Send(id, core.RoomUsers{Type: core.EventRoomUsers, Participants: existing})

	joined := core.UserJoined{Type: core.EventUserJoined, UserID: id, Participants: after}
	for _, p := range after {
		if p.ID == id {
			joined.Username = p.Username
			joined.CanSpeak = p.CanSpeak
		}
	}
	o.sendToParticipants(after, joined)
	return nil
}

// LeaveRoom is the explicit counterpart of Disconnect. roomID may be empty;
// when set it must match the bound room, otherwise the request is stale.
func (o *Orchestrator) LeaveRoom(id domain.ConnID, roomID domain.RoomID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if cur, ok := o.Registry.RoomOf(id); !ok || (roomID != "" && cur != roomID) {
		return
	}
	for _, bound := range o.Registry.Unbind(id) {
		o.leaveLocked(id, bound)
	}
}

func (o *Orchestrator) leaveLocked(id domain.ConnID, roomID domain.RoomID) {
	remaining, empty, err := o.Rooms.RemoveParticipant(roomID, id)
	if err != nil {
		log.Debug().Err(err).Str("module", "orch").Msg("leave: nothing to remove")
		return
	}
	o.Metrics.Inc(metrics.ParticipantsLeft)

	if o.Rooms.ReleaseScreenShare(roomID, id) {
		o.sendToParticipants(remaining, core.ScreenShare{Type: core.EventScreenShareStopped, UserID: id})
	}
	o.sendToParticipants(remaining, core.UserLeft{Type: core.EventUserLeft, UserID: id, Participants: remaining})

	if empty && o.Rooms.DeleteRoom(roomID) {
		log.Info().Str("module", "orch").Str("room", string(roomID)).Msg("last participant left, room deleted")
		o.Metrics.Inc(metrics.MeetingsClosed)
		o.broadcastAll(core.MeetingClosed{Type: core.EventMeetingClosed, RoomID: roomID})
	}
}

// Participants is a read-only snapshot for the HTTP surface.
func (o *Orchestrator) Participants(roomID domain.RoomID) ([]domain.Participant, error) {
	return o.Rooms.Participants(roomID)
}
