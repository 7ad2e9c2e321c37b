package app

import (
	"errors"
	"testing"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/core/coretest"
	"github.com/dkeye/Meet/internal/core/mocks"
	"github.com/dkeye/Meet/internal/metrics"
	"github.com/goccy/go-json"
	"go.uber.org/mock/gomock"
)

func TestRelay_DeliversOnlyToTarget(t *testing.T) {
	reg := NewRegistry()
	a, b, c := &coretest.RecordingConn{}, &coretest.RecordingConn{}, &coretest.RecordingConn{}
	reg.Register("A", a, nil)
	reg.Register("B", b, nil)
	reg.Register("C", c, nil)
	m := metrics.New()
	relay := NewRelay(reg, m)

	payload := json.RawMessage(`{"sdp":"v=0 opaque","type":"offer"}`)
	if err := relay.Relay(core.SignalOffer, "A", "B", payload); err != nil {
		t.Fatalf("Relay: %v", err)
	}

	if len(a.Frames()) != 0 || len(c.Frames()) != 0 {
		t.Fatalf("message leaked to non-target connections")
	}
	var got core.Signal
	if !b.Last("offer", &got) {
		t.Fatalf("target did not receive offer: %v", b.Types())
	}
	if got.From != "A" || string(got.Payload) != string(payload) {
		t.Fatalf("delivered %+v", got)
	}
	if m.Get(metrics.SignalsRelayed) != 1 {
		t.Fatalf("relay not counted")
	}
}

func TestRelay_MissingTargetIsSilent(t *testing.T) {
	reg := NewRegistry()
	a := &coretest.RecordingConn{}
	reg.Register("A", a, nil)
	m := metrics.New()
	relay := NewRelay(reg, m)

	if err := relay.Relay(core.SignalAnswer, "A", "gone", json.RawMessage(`{}`)); err != nil {
		t.Fatalf("missing target must not surface an error, got %v", err)
	}
	if len(a.Frames()) != 0 {
		t.Fatalf("sender must not receive anything")
	}
	if m.Get(metrics.SignalsDropped) != 1 {
		t.Fatalf("drop not counted")
	}
}

func TestRelay_UnknownKind(t *testing.T) {
	relay := NewRelay(NewRegistry(), nil)
	if err := relay.Relay("bogus", "A", "B", nil); !errors.Is(err, core.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestRelay_SendFailureIsDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	target := mocks.NewMockSignalConnection(ctrl)
	target.EXPECT().TrySend(gomock.Any()).Return(core.ErrBackpressure).Times(1)

	reg := NewRegistry()
	reg.Register("B", target, nil)
	m := metrics.New()

	if err := NewRelay(reg, m).Relay(core.SignalICECandidate, "A", "B", json.RawMessage(`{"candidate":"x"}`)); err != nil {
		t.Fatalf("send failure must not surface, got %v", err)
	}
	if m.Get(metrics.SignalsDropped) != 1 {
		t.Fatalf("drop not counted")
	}
}
