package keepalive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stigoleg/silent-sentinel/internal/platform"
)

func event(kind platform.SystemEventKind) platform.SystemEvent {
	return platform.SystemEvent{Kind: kind, At: t0}
}

func TestStartupEntersActive(t *testing.T) {
	h := newHarness(t, nil)

	assert.Equal(t, ModeIdle, h.ctrl.Mode())
	h.ctrl.Start()

	assert.Equal(t, ModeActive, h.ctrl.Mode())
	assert.Equal(t, []Mode{ModeActive}, h.modes)
	h.assertTimersCoupled(t)

	h.desk.AssertCalled(t, "SetCursorPosition", 1300, 250)
	h.desk.AssertNumberOfCalls(t, "InjectClick", 1)
	assert.Equal(t, 36, h.gen.Angle())

	h.ctrl.Start()
	assert.Equal(t, []Mode{ModeActive}, h.modes, "a second Start does not re-enter ModeActive")
}

func TestTicksWalkTheCircle(t *testing.T) {
	h := newHarness(t, nil)
	h.ctrl.Start()
	h.desk.reset()

	h.clock.Advance(h.cfg.TickInterval)
	h.ctrl.Tick()
	h.desk.AssertCalled(t, "SetCursorPosition", 1281, 309)

	for i := 0; i < 8; i++ {
		h.clock.Advance(h.cfg.TickInterval)
		h.ctrl.Tick()
	}
	assert.Equal(t, 0, h.gen.Angle(), "ten injections complete one revolution")
	assert.Equal(t, ModeActive, h.ctrl.Mode())
}

func TestTickIgnoredWhileIdle(t *testing.T) {
	h := newHarness(t, nil)

	h.ctrl.Tick()
	h.desk.AssertNotCalled(t, "InjectClick")
	assert.Equal(t, 0, h.gen.Angle())
}

func TestTogglePairRestoresState(t *testing.T) {
	tests := []struct {
		name  string
		setup func(h *harness)
	}{
		{name: "from idle", setup: func(h *harness) { h.ctrl.Start(); h.ctrl.Toggle() }},
		{name: "from active", setup: func(h *harness) { h.ctrl.Start() }},
		{name: "from locked idle", setup: func(h *harness) { h.ctrl.HandleSystemEvent(event(platform.SessionLock)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, nil)
			tt.setup(h)

			mode := h.ctrl.Mode()
			tick, idle := h.ctrl.TickRunning(), h.ctrl.IdleCheckRunning()

			h.ctrl.Toggle()
			assert.NotEqual(t, mode, h.ctrl.Mode())
			h.assertTimersCoupled(t)

			h.ctrl.Toggle()
			assert.Equal(t, mode, h.ctrl.Mode())
			assert.Equal(t, tick, h.ctrl.TickRunning())
			assert.Equal(t, idle, h.ctrl.IdleCheckRunning())
		})
	}
}

func TestTimersFollowModeThroughEverySequence(t *testing.T) {
	h := newHarness(t, nil)

	steps := []func(){
		h.ctrl.Start,
		func() { h.ctrl.HandleSystemEvent(event(platform.AppActivated)) },
		func() { h.ctrl.HandleSystemEvent(event(platform.SessionLock)) },
		h.ctrl.Toggle,
		h.ctrl.Toggle,
		func() { h.ctrl.HandleSystemEvent(event(platform.SessionUnlock)) },
		func() { h.ctrl.HandleSystemEvent(event(platform.PowerSuspend)) },
		func() { h.ctrl.HandleSystemEvent(event(platform.SessionLogoff)) },
		func() { h.ctrl.HandleSystemEvent(event(platform.PowerResume)) },
		func() { h.ctrl.HandleSystemEvent(event(platform.SessionLogon)) },
		h.ctrl.Toggle,
		func() { h.clock.Advance(time.Hour); h.ctrl.HandleSystemEvent(event(platform.AppDeactivated)) },
		func() { h.clock.Advance(time.Hour); h.ctrl.IdleCheck() },
		h.ctrl.Shutdown,
	}

	for i, step := range steps {
		step()
		if i == len(steps)-1 {
			assert.False(t, h.ctrl.TickRunning())
			assert.False(t, h.ctrl.IdleCheckRunning())
			break
		}
		h.assertTimersCoupled(t)
	}
}

func TestSessionLockSuppressesIdleCheck(t *testing.T) {
	h := newHarness(t, nil)
	h.ctrl.Start()

	h.clock.Advance(time.Minute)
	h.ctrl.HandleSystemEvent(event(platform.SessionLock))

	assert.Equal(t, ModeIdle, h.ctrl.Mode())
	assert.False(t, h.ctrl.TickRunning())
	assert.False(t, h.ctrl.IdleCheckRunning(), "no idle check while locked")

	h.clock.Advance(time.Hour)
	h.ctrl.IdleCheck()
	assert.Equal(t, ModeIdle, h.ctrl.Mode(), "a stale idle check while locked does nothing")

	unlockAt := h.clock.Now()
	h.ctrl.HandleSystemEvent(event(platform.SessionUnlock))
	assert.Equal(t, unlockAt, h.probe.LastGenuineActivity())
	assert.True(t, h.ctrl.IdleCheckRunning())

	h.clock.Advance(time.Minute)
	h.ctrl.IdleCheck()
	assert.Equal(t, ModeIdle, h.ctrl.Mode(), "one minute after unlock is not idle")
}

func TestIdleRecoveryThreshold(t *testing.T) {
	h := newHarness(t, nil)
	h.ctrl.Start()
	h.ctrl.Toggle()
	require.Equal(t, ModeIdle, h.ctrl.Mode())

	last := h.clock.Now()
	require.True(t, h.probe.OnKeyDown(last))
	h.desk.reset()

	h.clock.t = last.Add(239 * time.Second)
	h.ctrl.IdleCheck()
	assert.Equal(t, ModeIdle, h.ctrl.Mode())
	assert.Empty(t, h.desk.methods(), "no window action before the threshold")

	h.clock.t = last.Add(241 * time.Second)
	h.ctrl.IdleCheck()
	assert.Equal(t, ModeActive, h.ctrl.Mode())
	h.assertTimersCoupled(t)

	assert.Equal(t, []string{
		"MinimizeAllWindows",
		"RequestScreenWake",
		"BringSelfToForeground",
		"SetCursorPosition",
		"InjectClick",
		"BringSelfToForeground",
	}, h.desk.methods())
}

func TestIdleRecoveryFiresAtExactThreshold(t *testing.T) {
	h := newHarness(t, nil)
	h.ctrl.Start()
	h.ctrl.Toggle()
	h.probe.Reset(h.clock.Now())

	h.clock.Advance(h.cfg.IdleThreshold - time.Nanosecond)
	h.ctrl.IdleCheck()
	assert.Equal(t, ModeIdle, h.ctrl.Mode())

	h.clock.Advance(time.Nanosecond)
	h.ctrl.IdleCheck()
	assert.Equal(t, ModeActive, h.ctrl.Mode())
}

func TestScreenWakeRunsSuppressed(t *testing.T) {
	var suppressed bool
	var h *harness
	h = newHarness(t, func(d *MockDesktop) {
		d.On("RequestScreenWake").Return(nil).Run(func(mock.Arguments) {
			suppressed = h.probe.Suppressed()
		})
	})
	h.ctrl.Start()
	h.ctrl.Toggle()

	h.clock.Advance(time.Hour)
	h.ctrl.IdleCheck()

	assert.True(t, suppressed)
	assert.False(t, h.probe.Suppressed())
}

func TestDegradedProbeNeverRecovers(t *testing.T) {
	h := newHarness(t, nil)
	h.probe.SetAvailable(false)
	h.ctrl.Start()
	h.ctrl.Toggle()
	h.desk.reset()

	for i := 0; i < 10; i++ {
		h.clock.Advance(time.Hour)
		h.ctrl.IdleCheck()
	}

	assert.Equal(t, ModeIdle, h.ctrl.Mode())
	h.desk.AssertNotCalled(t, "MinimizeAllWindows")
}

func TestFailedWindowActionsStillResume(t *testing.T) {
	h := newHarness(t, func(d *MockDesktop) {
		d.On("MinimizeAllWindows").Return(assert.AnError)
		d.On("RequestScreenWake").Return(assert.AnError)
	})
	h.ctrl.Start()
	h.ctrl.Toggle()

	h.clock.Advance(time.Hour)
	h.ctrl.IdleCheck()
	assert.Equal(t, ModeActive, h.ctrl.Mode())
}

func TestPowerSuspendAndResume(t *testing.T) {
	h := newHarness(t, nil)
	h.ctrl.Start()

	h.clock.Advance(time.Minute)
	suspendAt := h.clock.Now()
	h.ctrl.HandleSystemEvent(event(platform.PowerSuspend))

	assert.Equal(t, ModeIdle, h.ctrl.Mode())
	assert.True(t, h.ctrl.Suspended())
	assert.Equal(t, suspendAt, h.probe.LastGenuineActivity())
	h.assertTimersCoupled(t)
	assert.False(t, h.ctrl.IdleCheckRunning())

	h.clock.Advance(8 * time.Hour)
	resumeAt := h.clock.Now()
	h.ctrl.HandleSystemEvent(event(platform.PowerResume))

	assert.False(t, h.ctrl.Suspended())
	assert.Equal(t, resumeAt, h.probe.LastGenuineActivity(), "the night asleep is not idle time")
	assert.True(t, h.ctrl.IdleCheckRunning())

	h.clock.Advance(time.Minute)
	h.ctrl.IdleCheck()
	assert.Equal(t, ModeIdle, h.ctrl.Mode())
}

func TestResumeWhileLockedKeepsIdleCheckOff(t *testing.T) {
	h := newHarness(t, nil)
	h.ctrl.HandleSystemEvent(event(platform.SessionLock))
	h.ctrl.HandleSystemEvent(event(platform.PowerSuspend))
	h.ctrl.HandleSystemEvent(event(platform.PowerResume))

	assert.False(t, h.ctrl.IdleCheckRunning())

	h.ctrl.HandleSystemEvent(event(platform.SessionUnlock))
	assert.True(t, h.ctrl.IdleCheckRunning())
}

func TestAppDeactivated(t *testing.T) {
	t.Run("ignored right after our own click", func(t *testing.T) {
		h := newHarness(t, nil)
		h.ctrl.Start()

		h.clock.Advance(h.cfg.SelfFocusGrace / 2)
		h.ctrl.HandleSystemEvent(event(platform.AppDeactivated))
		assert.Equal(t, ModeActive, h.ctrl.Mode())
	})

	t.Run("pauses when the user switches away", func(t *testing.T) {
		h := newHarness(t, nil)
		h.ctrl.Start()

		h.clock.Advance(h.cfg.SelfFocusGrace + time.Second)
		h.ctrl.HandleSystemEvent(event(platform.AppDeactivated))
		assert.Equal(t, ModeIdle, h.ctrl.Mode())
		h.assertTimersCoupled(t)
	})

	t.Run("ignored while idle", func(t *testing.T) {
		h := newHarness(t, nil)
		h.ctrl.HandleSystemEvent(event(platform.AppDeactivated))
		assert.Equal(t, ModeIdle, h.ctrl.Mode())
		assert.Empty(t, h.modes)
	})

	t.Run("activation changes nothing", func(t *testing.T) {
		h := newHarness(t, nil)
		h.ctrl.Start()
		h.ctrl.HandleSystemEvent(event(platform.AppActivated))
		assert.Equal(t, ModeActive, h.ctrl.Mode())
	})
}

func TestSyntheticMotionDuringTickIsNotActivity(t *testing.T) {
	var h *harness
	h = newHarness(t, func(d *MockDesktop) {
		d.On("SetCursorPosition", mock.Anything, mock.Anything).Return(nil).Run(func(mock.Arguments) {
			h.ctrl.PointerMotion(h.clock.Now())
		})
		d.On("InjectClick").Return(nil).Run(func(mock.Arguments) {
			h.ctrl.KeyDown(h.clock.Now())
		})
	})

	h.clock.Advance(time.Minute)
	h.ctrl.Start()
	h.clock.Advance(h.cfg.TickInterval)
	h.ctrl.Tick()

	assert.Equal(t, t0, h.probe.LastGenuineActivity(), "input seen during injection is synthetic")
}

func TestGenuineActivityPostponesRecovery(t *testing.T) {
	h := newHarness(t, nil)
	h.ctrl.Start()
	h.ctrl.Toggle()

	for i := 0; i < 10; i++ {
		h.clock.Advance(h.cfg.IdleCheckInterval)
		h.ctrl.PointerMotion(h.clock.Now().Add(-time.Second))
		h.ctrl.IdleCheck()
	}
	assert.Equal(t, ModeIdle, h.ctrl.Mode())
}
