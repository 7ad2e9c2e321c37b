package signal

import (
	"testing"
	"time"
)

func TestRoomRateLimiter_SlidingWindow(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	rl := NewRoomRateLimiter(2, 10*time.Second)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two attempts must pass")
	}
	if rl.Allow("a") {
		t.Fatal("third attempt inside the window must be blocked")
	}
	if !rl.Allow("b") {
		t.Fatal("limits are per connection")
	}

	now = now.Add(11 * time.Second)
	if !rl.Allow("a") {
		t.Fatal("window should have slid")
	}
}

func TestRoomRateLimiter_ForgetAndDisabled(t *testing.T) {
	rl := NewRoomRateLimiter(1, time.Minute)
	rl.Allow("a")
	if rl.Allow("a") {
		t.Fatal("expected block")
	}
	rl.Forget("a")
	if !rl.Allow("a") {
		t.Fatal("forgotten connection starts fresh")
	}

	off := NewRoomRateLimiter(0, time.Minute)
	for i := 0; i < 100; i++ {
		if !off.Allow("x") {
			t.Fatal("zero limit disables limiting")
		}
	}
}
