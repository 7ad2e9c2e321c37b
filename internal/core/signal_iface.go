package core

//go:generate mockgen -source=signal_iface.go -destination=mocks/mock_signal.go -package=mocks

// Frame is a raw encoded signaling message.
type Frame []byte

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend enqueues without blocking. A full buffer yields ErrBackpressure.
	TrySend(Frame) error
	Close()
}
