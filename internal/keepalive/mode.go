// Package keepalive runs the idle guard: it alternates between injecting
// synthetic clicks (Active) and watching for the user to go away (Idle).
package keepalive

import "errors"

var (
	// ErrAlreadyRunning is returned by Engine.Start when called twice.
	ErrAlreadyRunning = errors.New("engine already running")

	// ErrInvalidConfig wraps every PathConfig validation failure.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrStopped is returned when an engine is used after Stop.
	ErrStopped = errors.New("engine stopped")
)

// Mode is the engine's running state.
type Mode int

const (
	// ModeIdle means no synthetic input; the idle check decides when to resume.
	ModeIdle Mode = iota
	// ModeActive means a synthetic click is injected on every tick.
	ModeActive
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "Idle"
	case ModeActive:
		return "Active"
	default:
		return "Unknown"
	}
}
