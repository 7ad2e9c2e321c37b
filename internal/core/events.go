package core

import (
	gojson "github.com/goccy/go-json"

	"github.com/dkeye/Meet/internal/domain"
)

// Event names shared by both directions of the signaling channel.
const (
	EventGetActiveMeetings = "get-active-meetings"
	EventCreateMeeting     = "create-meeting"
	EventCloseMeeting      = "close-meeting"
	EventJoinRoom          = "join-room"
	EventLeaveRoom         = "leave-room"
	EventInviteToSpeak     = "invite-to-speak"
	EventRevokeSpeak       = "revoke-speak"
	EventToggleMute        = "toggle-mute"
	EventStartScreenShare  = "start-screen-share"
	EventStopScreenShare   = "stop-screen-share"
	EventPing              = "ping"
	EventWhoAmI            = "whoami"

	EventConnected             = "connected"
	EventActiveMeetings        = "active-meetings"
	EventMeetingCreated        = "meeting-created"
	EventMeetingClosed         = "meeting-closed"
	EventUserJoined            = "user-joined"
	EventUserLeft              = "user-left"
	EventRoomUsers             = "room-users"
	EventUserPermissionChanged = "user-permission-changed"
	EventUserMuted             = "user-muted"
	EventScreenShareStarted    = "screen-share-started"
	EventScreenShareStopped    = "screen-share-stopped"
	EventPong                  = "pong"
	EventError                 = "error"
)

// SignalKind is a peer-connection negotiation message relayed verbatim.
type SignalKind string

const (
	SignalOffer        SignalKind = "offer"
	SignalAnswer       SignalKind = "answer"
	SignalICECandidate SignalKind = "ice-candidate"
)

func (k SignalKind) Valid() bool {
	switch k {
	case SignalOffer, SignalAnswer, SignalICECandidate:
		return true
	}
	return false
}

// Error codes carried by EventError.
const (
	CodeBadPayload  = "bad_payload"
	CodeNotFound    = "not_found"
	CodeConflict    = "conflict"
	CodeRateLimited = "rate_limited"
)

type ActiveMeetings struct {
	Type     string                  `json:"type"`
	Meetings []domain.DirectoryEntry `json:"meetings"`
}

type MeetingCreated struct {
	Type    string                `json:"type"`
	Meeting domain.DirectoryEntry `json:"meeting"`
}

type MeetingClosed struct {
	Type   string        `json:"type"`
	RoomID domain.RoomID `json:"roomId"`
}

type UserJoined struct {
	Type         string               `json:"type"`
	UserID       domain.ConnID        `json:"userId"`
	Username     string               `json:"username"`
	CanSpeak     bool                 `json:"canSpeak"`
	Participants []domain.Participant `json:"participants"`
}

type UserLeft struct {
	Type         string               `json:"type"`
	UserID       domain.ConnID        `json:"userId"`
	Participants []domain.Participant `json:"participants"`
}

type RoomUsers struct {
	Type         string               `json:"type"`
	Participants []domain.Participant `json:"participants"`
}

type UserPermissionChanged struct {
	Type     string        `json:"type"`
	UserID   domain.ConnID `json:"userId"`
	CanSpeak bool          `json:"canSpeak"`
}

type UserMuted struct {
	Type    string        `json:"type"`
	UserID  domain.ConnID `json:"userId"`
	IsMuted bool          `json:"isMuted"`
}

// ScreenShare is used for both started and stopped events.
type ScreenShare struct {
	Type   string        `json:"type"`
	UserID domain.ConnID `json:"userId"`
}

// Signal is the delivered form of a relayed negotiation message.
// Payload is passed through untouched.
type Signal struct {
	Type    SignalKind      `json:"type"`
	From    domain.ConnID   `json:"from"`
	Payload gojson.RawMessage `json:"payload"`
}

type ErrorEvent struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

func NewErrorEvent(code, msg string) ErrorEvent {
	return ErrorEvent{Type: EventError, Code: code, Error: msg}
}

// Encode marshals an outbound event into a frame.
func Encode(v any) (Frame, error) {
	b, err := gojson.Marshal(v)
	if err != nil {
		return nil, err
	}
	return Frame(b), nil
}
