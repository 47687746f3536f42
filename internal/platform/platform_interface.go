package platform

import (
	"context"
	"errors"
	"time"
)

// ErrUnsupportedPlatform is returned by New on operating systems without an adapter.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// HookFunc receives the instant a low-level input event was observed.
// It may be called from any goroutine.
type HookFunc func(at time.Time)

// Unregister releases a hook. It must be called exactly once.
type Unregister func() error

// Hooks registers for OS-level input notifications.
type Hooks interface {
	RegisterPointerMotionHook(fn HookFunc) (Unregister, error)
	RegisterKeyDownHook(fn HookFunc) (Unregister, error)
}

// Injector moves the pointer and clicks. Both calls are fire-and-forget: a nil
// error means the request was handed to the OS, not that it took effect.
type Injector interface {
	SetCursorPosition(x, y int) error
	InjectClick() error
}

// Window controls foreground state on behalf of the engine.
type Window interface {
	BringSelfToForeground() error
	MinimizeAllWindows() error
	// RequestScreenWake is best effort and reports no success signal.
	RequestScreenWake() error
}

// Notifier delivers decoded power, session and focus notifications until ctx
// is cancelled.
type Notifier interface {
	Watch(ctx context.Context, emit func(SystemEvent)) error
}

// Platform bundles the collaborators for the running operating system.
type Platform struct {
	Name      string
	Hooks     Hooks
	Injector  Injector
	Window    Window
	Notifiers []Notifier
}
