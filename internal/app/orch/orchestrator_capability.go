package orch

import (
	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/dkeye/Meet/internal/metrics"
)

func (o *Orchestrator) InviteToSpeak(roomID domain.RoomID, target domain.ConnID) error {
	return o.setCanSpeak(roomID, target, true)
}

func (o *Orchestrator) RevokeSpeak(roomID domain.RoomID, target domain.ConnID) error {
	return o.setCanSpeak(roomID, target, false)
}

func (o *Orchestrator) setCanSpeak(roomID domain.RoomID, target domain.ConnID, canSpeak bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.Rooms.SetCapability(roomID, target, canSpeak); err != nil {
		return err
	}
	ps, _ := o.Rooms.Participants(roomID)
	o.sendToParticipants(ps, core.UserPermissionChanged{
		Type:     core.EventUserPermissionChanged,
		UserID:   target,
		CanSpeak: canSpeak,
	})
	return nil
}

func (o *Orchestrator) ToggleMute(roomID domain.RoomID, id domain.ConnID, isMuted bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.Rooms.SetMuted(roomID, id, isMuted); err != nil {
		return err
	}
	ps, _ := o.Rooms.Participants(roomID)
	o.sendToParticipants(ps, core.UserMuted{Type: core.EventUserMuted, UserID: id, IsMuted: isMuted})
	return nil
}

// StartScreenShare hands ownership to id. The displaced owner is not told
// separately; screen-share-started with the new id is authoritative.
func (o *Orchestrator) StartScreenShare(roomID domain.RoomID, id domain.ConnID) (domain.ConnID, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	prev, err := o.Rooms.ClaimScreenShare(roomID, id)
	if err != nil {
		return "", err
	}
	o.Metrics.Inc(metrics.ScreenSharesStarted)
	ps, _ := o.Rooms.Participants(roomID)
	o.sendToParticipants(ps, core.ScreenShare{Type: core.EventScreenShareStarted, UserID: id})
	return prev, nil
}

// StopScreenShare reports whether ownership changed. Stale stops are silent.
func (o *Orchestrator) StopScreenShare(roomID domain.RoomID, id domain.ConnID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.Rooms.ReleaseScreenShare(roomID, id) {
		return false
	}
	ps, _ := o.Rooms.Participants(roomID)
	o.sendToParticipants(ps, core.ScreenShare{Type: core.EventScreenShareStopped, UserID: id})
	return true
}
