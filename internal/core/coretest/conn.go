// Package coretest provides an in-memory SignalConnection for tests.
package coretest

import (
	"encoding/json"
	"sync"

	"github.com/dkeye/Meet/internal/core"
)

// RecordingConn keeps every frame sent to it.
type RecordingConn struct {
	mu     sync.Mutex
	frames []core.Frame
	closed bool

	// Full makes TrySend report backpressure.
	Full bool
}

func (c *RecordingConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return core.ErrClosed
	}
	if c.Full {
		return core.ErrBackpressure
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *RecordingConn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *RecordingConn) Frames() []core.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.Frame(nil), c.frames...)
}

// Types lists the "type" field of every frame in order.
func (c *RecordingConn) Types() []string {
	frames := c.Frames()
	out := make([]string, 0, len(frames))
	for _, f := range frames {
		var env struct {
			Type string `json:"type"`
		}
		_ = json.Unmarshal(f, &env)
		out = append(out, env.Type)
	}
	return out
}

// Last decodes the most recent frame of the given type into v.
func (c *RecordingConn) Last(typ string, v any) bool {
	frames := c.Frames()
	for i := len(frames) - 1; i >= 0; i-- {
		var env struct {
			Type string `json:"type"`
		}
		if json.Unmarshal(frames[i], &env) != nil || env.Type != typ {
			continue
		}
		return json.Unmarshal(frames[i], v) == nil
	}
	return false
}

func (c *RecordingConn) Reset() {
	c.mu.Lock()
	c.frames = nil
	c.mu.Unlock()
}
