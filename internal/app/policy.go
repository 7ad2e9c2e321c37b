package app

import (
	"fmt"

	"github.com/dkeye/Meet/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
)

// Policy decides what happens to a connection whose send buffer is full.
type Policy interface {
	OnBackPressure(id domain.ConnID) BackpressureAction
}

// DropPolicy drops the frame and keeps the connection.
type DropPolicy struct{}

func (DropPolicy) OnBackPressure(domain.ConnID) BackpressureAction { return NoAction }

// KickPolicy disconnects slow consumers.
type KickPolicy struct{}

func (KickPolicy) OnBackPressure(domain.ConnID) BackpressureAction { return KickMember }

func PolicyByName(name string) (Policy, error) {
	switch name {
	case "", "drop":
		return DropPolicy{}, nil
	case "kick":
		return KickPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown backpressure policy %q", name)
	}
}
