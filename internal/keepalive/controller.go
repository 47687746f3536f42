package keepalive

import (
	"log"
	"time"

	"github.com/stigoleg/silent-sentinel/internal/activity"
	"github.com/stigoleg/silent-sentinel/internal/platform"
)

// TimerKind names one of the two periodic timers the controller drives.
type TimerKind int

const (
	TickTimer TimerKind = iota
	IdleCheckTimer
)

func (k TimerKind) String() string {
	if k == TickTimer {
		return "tick"
	}
	return "idle-check"
}

// Scheduler starts and stops the periodic timers. A stopped timer must not
// deliver a firing that was pending when it was stopped.
type Scheduler interface {
	Start(kind TimerKind)
	Stop(kind TimerKind)
}

// Controller is the running-state machine. It has no goroutines of its own:
// the engine worker calls every method, and timer firings come back in as
// Tick and IdleCheck.
type Controller struct {
	mode      Mode
	locked    bool
	suspended bool
	running   [2]bool

	sched    Scheduler
	gen      *Generator
	recovery *RecoveryPolicy
	probe    *activity.Probe
	window   platform.Window
	now      func() time.Time
	grace    time.Duration

	observers []func(Mode)
}

// NewController creates a controller in ModeIdle with both timers stopped.
func NewController(cfg PathConfig, sched Scheduler, gen *Generator, probe *activity.Probe, window platform.Window, now func() time.Time) *Controller {
	if now == nil {
		now = time.Now
	}
	return &Controller{
		mode:     ModeIdle,
		sched:    sched,
		gen:      gen,
		recovery: NewRecoveryPolicy(cfg.IdleThreshold, probe),
		probe:    probe,
		window:   window,
		now:      now,
		grace:    cfg.SelfFocusGrace,
	}
}

// OnModeChanged registers an observer called after every mode change.
func (c *Controller) OnModeChanged(fn func(Mode)) {
	c.observers = append(c.observers, fn)
}

// Start performs the startup transition into ModeActive.
func (c *Controller) Start() {
	if c.mode == ModeIdle {
		log.Printf("controller: starting")
		c.activate()
	}
}

// Toggle flips between ModeIdle and ModeActive.
func (c *Controller) Toggle() {
	if c.mode == ModeActive {
		c.deactivate()
		return
	}
	c.activate()
}

// Tick handles a tick-timer firing.
func (c *Controller) Tick() {
	if c.mode != ModeActive {
		return
	}
	_ = c.gen.Tick()
}

// IdleCheck handles an idle-check firing.
func (c *Controller) IdleCheck() {
	if c.mode != ModeIdle || c.locked || c.suspended {
		return
	}
	if c.recovery.ShouldRecover(c.now()) {
		c.recover()
	}
}

// PointerMotion forwards pointer activity to the probe.
func (c *Controller) PointerMotion(at time.Time) {
	c.probe.OnPointerMotion(at)
}

// KeyDown forwards a key press to the probe.
func (c *Controller) KeyDown(at time.Time) {
	c.probe.OnKeyDown(at)
}

// HandleSystemEvent applies a power, session or focus notification.
func (c *Controller) HandleSystemEvent(ev platform.SystemEvent) {
	switch ev.Kind {
	case platform.PowerSuspend:
		log.Printf("controller: system suspending")
		c.suspended = true
		c.probe.Reset(c.now())
		c.enterIdleQuietly()
		c.stopTimer(IdleCheckTimer)

	case platform.PowerResume:
		log.Printf("controller: system resumed")
		c.suspended = false
		c.probe.Reset(c.now())
		c.syncIdleCheck()

	case platform.SessionLock, platform.SessionLogoff:
		log.Printf("controller: %s", ev.Kind)
		c.locked = true
		c.enterIdleQuietly()
		c.stopTimer(IdleCheckTimer)

	case platform.SessionUnlock, platform.SessionLogon:
		log.Printf("controller: %s", ev.Kind)
		c.locked = false
		c.probe.Reset(c.now())
		c.syncIdleCheck()

	case platform.AppDeactivated:
		if c.mode != ModeActive {
			return
		}
		if c.selfInduced() {
			return
		}
		log.Printf("controller: focus moved to another application; pausing")
		c.deactivate()

	case platform.AppActivated:
	}
}

// Shutdown stops both timers.
func (c *Controller) Shutdown() {
	c.stopTimer(TickTimer)
	c.stopTimer(IdleCheckTimer)
}

// Mode returns the current running state.
func (c *Controller) Mode() Mode { return c.mode }

// Locked reports whether the session is locked or logged off.
func (c *Controller) Locked() bool { return c.locked }

// Suspended reports whether a suspend was seen without a matching resume.
func (c *Controller) Suspended() bool { return c.suspended }

// TickRunning reports whether the tick timer is running.
func (c *Controller) TickRunning() bool { return c.running[TickTimer] }

// IdleCheckRunning reports whether the idle-check timer is running.
func (c *Controller) IdleCheckRunning() bool { return c.running[IdleCheckTimer] }

// Generator returns the generator driven by the tick timer.
func (c *Controller) Generator() *Generator { return c.gen }

func (c *Controller) activate() {
	c.mode = ModeActive
	c.stopTimer(IdleCheckTimer)
	c.startTimer(TickTimer)
	log.Printf("controller: active")
	c.notify()
	_ = c.gen.Tick()
}

func (c *Controller) deactivate() {
	c.mode = ModeIdle
	c.stopTimer(TickTimer)
	c.syncIdleCheck()
	log.Printf("controller: idle")
	c.notify()
}

// enterIdleQuietly leaves ModeActive without starting the idle check.
func (c *Controller) enterIdleQuietly() {
	if c.mode != ModeActive {
		return
	}
	c.mode = ModeIdle
	c.stopTimer(TickTimer)
	log.Printf("controller: idle")
	c.notify()
}

// syncIdleCheck runs the idle check exactly when it is allowed to.
func (c *Controller) syncIdleCheck() {
	if c.mode == ModeIdle && !c.locked && !c.suspended {
		c.startTimer(IdleCheckTimer)
		return
	}
	c.stopTimer(IdleCheckTimer)
}

func (c *Controller) recover() {
	log.Printf("controller: no genuine input for %v; resuming", c.recovery.Threshold())

	if err := c.window.MinimizeAllWindows(); err != nil {
		log.Printf("controller: minimize all windows: %v", err)
	}
	if err := c.probe.Suppress(c.now, c.window.RequestScreenWake); err != nil {
		log.Printf("controller: screen wake: %v", err)
	}
	if err := c.window.BringSelfToForeground(); err != nil {
		log.Printf("controller: bring to foreground: %v", err)
	}
	c.Toggle()
}

// selfInduced reports whether a focus loss was most likely caused by our own click.
func (c *Controller) selfInduced() bool {
	if c.probe.Suppressed() {
		return true
	}
	last := c.gen.LastInjection()
	if last.IsZero() {
		return false
	}
	return c.now().Sub(last) <= c.grace
}

func (c *Controller) startTimer(kind TimerKind) {
	if c.running[kind] {
		return
	}
	c.running[kind] = true
	c.sched.Start(kind)
}

func (c *Controller) stopTimer(kind TimerKind) {
	if !c.running[kind] {
		return
	}
	c.running[kind] = false
	c.sched.Stop(kind)
}

func (c *Controller) notify() {
	for _, fn := range c.observers {
		fn(c.mode)
	}
}
