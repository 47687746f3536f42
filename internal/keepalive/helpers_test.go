package keepalive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/stigoleg/silent-sentinel/internal/activity"
)

var t0 = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fakeScheduler struct {
	running map[TimerKind]bool
	starts  int
	stops   int
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{running: make(map[TimerKind]bool)}
}

func (s *fakeScheduler) Start(kind TimerKind) {
	s.running[kind] = true
	s.starts++
}

func (s *fakeScheduler) Stop(kind TimerKind) {
	s.running[kind] = false
	s.stops++
}

// MockDesktop is a mock implementation of platform.Injector and platform.Window.
// One mock records both so call order across them can be asserted.
type MockDesktop struct {
	mock.Mock
}

func (m *MockDesktop) SetCursorPosition(x, y int) error {
	args := m.Called(x, y)
	return args.Error(0)
}

func (m *MockDesktop) InjectClick() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDesktop) BringSelfToForeground() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDesktop) MinimizeAllWindows() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDesktop) RequestScreenWake() error {
	args := m.Called()
	return args.Error(0)
}

// allowAll accepts every call. Expectations registered earlier take precedence.
func (m *MockDesktop) allowAll() {
	m.On("SetCursorPosition", mock.Anything, mock.Anything).Return(nil)
	m.On("InjectClick").Return(nil)
	m.On("BringSelfToForeground").Return(nil)
	m.On("MinimizeAllWindows").Return(nil)
	m.On("RequestScreenWake").Return(nil)
}

func (m *MockDesktop) methods() []string {
	names := make([]string, 0, len(m.Calls))
	for _, c := range m.Calls {
		names = append(names, c.Method)
	}
	return names
}

func (m *MockDesktop) reset() {
	m.Calls = nil
}

type harness struct {
	cfg   PathConfig
	clock *fakeClock
	sched *fakeScheduler
	desk  *MockDesktop
	probe *activity.Probe
	gen   *Generator
	ctrl  *Controller
	modes []Mode
}

// newHarness builds a controller on a fake clock and scheduler. configure,
// when given, runs before the mock accepts all remaining calls.
func newHarness(t *testing.T, configure func(d *MockDesktop)) *harness {
	t.Helper()

	h := &harness{
		cfg:   DefaultPathConfig(),
		clock: &fakeClock{t: t0},
		sched: newFakeScheduler(),
		desk:  &MockDesktop{},
	}
	if configure != nil {
		configure(h.desk)
	}
	h.desk.allowAll()

	h.probe = activity.NewProbe(h.clock.Now(), h.cfg.InjectionEcho)
	h.gen = NewGenerator(h.cfg, h.probe, h.desk, h.desk, h.clock.Now)
	h.ctrl = NewController(h.cfg, h.sched, h.gen, h.probe, h.desk, h.clock.Now)
	h.ctrl.OnModeChanged(func(m Mode) { h.modes = append(h.modes, m) })
	return h
}

// assertTimersCoupled checks that the tick timer runs exactly in ModeActive
// and the idle check exactly in an unlocked, awake ModeIdle.
func (h *harness) assertTimersCoupled(t *testing.T) {
	t.Helper()

	wantTick := h.ctrl.Mode() == ModeActive
	wantIdle := h.ctrl.Mode() == ModeIdle && !h.ctrl.Locked() && !h.ctrl.Suspended()

	assert.Equal(t, wantTick, h.ctrl.TickRunning(), "tick timer in %s", h.ctrl.Mode())
	assert.Equal(t, wantIdle, h.ctrl.IdleCheckRunning(), "idle check in %s (locked=%v suspended=%v)", h.ctrl.Mode(), h.ctrl.Locked(), h.ctrl.Suspended())
	assert.Equal(t, wantTick, h.sched.running[TickTimer])
	assert.Equal(t, wantIdle, h.sched.running[IdleCheckTimer])
}
