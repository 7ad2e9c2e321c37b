package core

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/dkeye/Meet/internal/domain"
)

func newTestRoom() RoomService {
	return NewRoomService(&domain.Room{ID: "r1", Name: "Briefing", Creator: "alice"})
}

func ids(ps []domain.Participant) []domain.ConnID {
	out := make([]domain.ConnID, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestRoom_AddKeepsJoinOrderAndUpserts(t *testing.T) {
	r := newTestRoom()
	r.AddMember(*domain.NewParticipant("bob", "bob", false))
	r.AddMember(*domain.NewParticipant("alice", "alice", true))
	got := r.AddMember(*domain.NewParticipant("bob", "bobby", true))

	if len(got) != 2 || got[0].ID != "bob" || got[1].ID != "alice" {
		t.Fatalf("unexpected order: %v", ids(got))
	}
	if got[0].Username != "bobby" || !got[0].CanSpeak {
		t.Fatalf("expected bob to be updated in place, got %+v", got[0])
	}
}

func TestRoom_RemoveMember(t *testing.T) {
	r := newTestRoom()
	r.AddMember(*domain.NewParticipant("a", "a", true))
	r.AddMember(*domain.NewParticipant("b", "b", true))

	remaining, removed := r.RemoveMember("a")
	if !removed || len(remaining) != 1 || remaining[0].ID != "b" {
		t.Fatalf("unexpected remove result: removed=%v remaining=%v", removed, ids(remaining))
	}
	if _, removed := r.RemoveMember("a"); removed {
		t.Fatalf("second remove must report absent")
	}
}

func TestRoom_CapabilityAndMuteOnAbsentMember(t *testing.T) {
	r := newTestRoom()
	if err := r.SetCanSpeak("ghost", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := r.SetMuted("ghost", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	r.AddMember(*domain.NewParticipant("a", "a", false))
	if err := r.SetCanSpeak("a", true); err != nil {
		t.Fatalf("SetCanSpeak: %v", err)
	}
	if err := r.SetMuted("a", true); err != nil {
		t.Fatalf("SetMuted: %v", err)
	}
	p, _ := r.Member("a")
	if !p.CanSpeak || !p.IsMuted {
		t.Fatalf("flags not applied: %+v", p)
	}
}

func TestRoom_ScreenShareLastClaimWins(t *testing.T) {
	r := newTestRoom()
	r.AddMember(*domain.NewParticipant("a", "a", true))
	r.AddMember(*domain.NewParticipant("b", "b", true))

	prev, err := r.ClaimScreenShare("a")
	if err != nil || prev != "" {
		t.Fatalf("first claim: prev=%q err=%v", prev, err)
	}
	prev, err = r.ClaimScreenShare("b")
	if err != nil || prev != "a" {
		t.Fatalf("second claim: prev=%q err=%v", prev, err)
	}

	owner, ok := r.ScreenSharingOwner()
	if !ok || owner != "b" {
		t.Fatalf("owner = %q, want b", owner)
	}
	a, _ := r.Member("a")
	b, _ := r.Member("b")
	if a.IsScreenSharing || !b.IsScreenSharing {
		t.Fatalf("flags out of sync: a=%v b=%v", a.IsScreenSharing, b.IsScreenSharing)
	}

	if r.ReleaseScreenShare("a") {
		t.Fatalf("stale release from previous owner must be ignored")
	}
	if !r.ReleaseScreenShare("b") {
		t.Fatalf("owner release must succeed")
	}
	if _, ok := r.ScreenSharingOwner(); ok {
		t.Fatalf("owner must be cleared")
	}
}

func TestRoom_ClaimByNonMember(t *testing.T) {
	r := newTestRoom()
	if _, err := r.ClaimScreenShare("ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRoom_ConcurrentMuteAndRemove(t *testing.T) {
	r := newTestRoom()
	const n = 50
	for i := 0; i < n; i++ {
		id := domain.ConnID(fmt.Sprintf("c%d", i))
		r.AddMember(*domain.NewParticipant(id, string(id), true))
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		id := domain.ConnID(fmt.Sprintf("c%d", i))
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = r.SetMuted(id, true)
		}()
		go func() {
			defer wg.Done()
			r.RemoveMember(id)
		}()
	}
	wg.Wait()

	if got := r.MemberCount(); got != 0 {
		t.Fatalf("expected empty room, got %d members", got)
	}
}
