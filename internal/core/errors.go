package core

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrBackpressure = errors.New("backpressure")
	ErrClosed       = errors.New("connection closed")
	ErrUnknownKind  = errors.New("unknown signal kind")
)
