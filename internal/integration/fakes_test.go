package integration

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stigoleg/silent-sentinel/internal/keepalive"
	"github.com/stigoleg/silent-sentinel/internal/platform"
)

const (
	pollInterval = 5 * time.Millisecond
	waitFor      = 3 * time.Second
)

// desktop records what the engine asked the OS to do.
type desktop struct {
	mu     sync.Mutex
	points int
	clicks int
	calls  []string
}

func (d *desktop) SetCursorPosition(x, y int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.points++
	return nil
}

func (d *desktop) InjectClick() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clicks++
	return nil
}

func (d *desktop) record(call string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, call)
	return nil
}

func (d *desktop) BringSelfToForeground() error { return d.record("foreground") }
func (d *desktop) MinimizeAllWindows() error    { return d.record("minimize") }
func (d *desktop) RequestScreenWake() error     { return d.record("wake") }

func (d *desktop) Clicks() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clicks
}

// Forget discards recorded window calls. Ticks refocus the terminal, so tests
// forget calls made while Active before looking for recovery.
func (d *desktop) Forget() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = nil
}

func (d *desktop) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

// session simulates the OS idle counter and lock state sampled by the
// polling adapters.
type session struct {
	idle   atomic.Int64
	locked atomic.Bool
	broken atomic.Bool
}

func (s *session) SetIdle(d time.Duration) { s.idle.Store(int64(d)) }

func (s *session) IdleTime() (time.Duration, error) {
	if s.broken.Load() {
		return 0, errors.New("no display")
	}
	return time.Duration(s.idle.Load()), nil
}

func (s *session) Locked() (bool, error) {
	return s.locked.Load(), nil
}

// newPlatform wires the real polling adapters to a simulated session.
func newPlatform(d *desktop, s *session) *platform.Platform {
	return &platform.Platform{
		Name:     "simulated",
		Hooks:    platform.NewIdleHooks(s.IdleTime, pollInterval),
		Injector: d,
		Window:   d,
		Notifiers: []platform.Notifier{
			platform.NewLockPoller("simulated", s.Locked, pollInterval),
		},
	}
}

func fastConfig() keepalive.PathConfig {
	cfg := keepalive.DefaultPathConfig()
	cfg.TickInterval = 10 * time.Millisecond
	cfg.IdleCheckInterval = 10 * time.Millisecond
	cfg.IdleThreshold = 150 * time.Millisecond
	cfg.SelfFocusGrace = 0
	cfg.InjectionEcho = 0
	return cfg
}

func watchModes(e *keepalive.Engine) <-chan keepalive.Mode {
	modes := make(chan keepalive.Mode, 64)
	e.OnModeChanged(func(m keepalive.Mode) {
		select {
		case modes <- m:
		default:
		}
	})
	return modes
}

func expectMode(t *testing.T, modes <-chan keepalive.Mode, want keepalive.Mode) {
	t.Helper()
	select {
	case got := <-modes:
		if got != want {
			t.Fatalf("mode changed to %v, want %v", got, want)
		}
	case <-time.After(waitFor):
		t.Fatalf("no change to %v within %v", want, waitFor)
	}
}

func expectNoModeChange(t *testing.T, modes <-chan keepalive.Mode, during time.Duration) {
	t.Helper()
	select {
	case got := <-modes:
		t.Fatalf("unexpected change to %v", got)
	case <-time.After(during):
	}
}
