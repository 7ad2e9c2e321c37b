package signal

import (
	"github.com/dkeye/Meet/internal/core"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

type envelope struct {
	Type string `json:"type"`
}

type createMeetingPayload struct {
	RoomID   string `json:"roomId" validate:"required,max=64"`
	RoomName string `json:"roomName" validate:"max=128"`
	Creator  string `json:"creator" validate:"max=256"`
}

type roomPayload struct {
	RoomID string `json:"roomId" validate:"required,max=64"`
}

// optionalRoomPayload is used where the caller's bound room is implied.
type optionalRoomPayload struct {
	RoomID string `json:"roomId" validate:"max=64"`
}

type joinRoomPayload struct {
	RoomID   string `json:"roomId" validate:"required,max=64"`
	Username string `json:"username" validate:"max=256"`
	CanSpeak bool   `json:"canSpeak"`
}

type speakPayload struct {
	RoomID string `json:"roomId" validate:"required,max=64"`
	UserID string `json:"userId" validate:"required,max=64"`
}

type mutePayload struct {
	RoomID  string `json:"roomId" validate:"max=64"`
	IsMuted bool   `json:"isMuted"`
}

// negotiationPayload accepts the opaque body either as payload or under the
// kind-specific key older clients send (offer, answer, candidate).
type negotiationPayload struct {
	To        string          `json:"to" validate:"required,max=64"`
	Payload   json.RawMessage `json:"payload"`
	Offer     json.RawMessage `json:"offer"`
	Answer    json.RawMessage `json:"answer"`
	Candidate json.RawMessage `json:"candidate"`
}

func (p negotiationPayload) body(kind core.SignalKind) []byte {
	if len(p.Payload) > 0 {
		return []byte(p.Payload)
	}
	switch kind {
	case core.SignalOffer:
		return []byte(p.Offer)
	case core.SignalAnswer:
		return []byte(p.Answer)
	case core.SignalICECandidate:
		return []byte(p.Candidate)
	}
	return nil
}

func decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// bind decodes and validates data into v, replying bad_payload on failure.
func (ctl *SignalWSController) bind(c *WsSignalConn, data []byte, v any) bool {
	if err := decode(data, v); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("bad payload")
		ctl.sendError(c, core.CodeBadPayload, "malformed payload")
		return false
	}
	if err := ctl.validate.Struct(v); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("invalid payload")
		ctl.sendError(c, core.CodeBadPayload, err.Error())
		return false
	}
	return true
}
