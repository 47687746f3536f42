package keepalive

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/stigoleg/silent-sentinel/internal/activity"
	"github.com/stigoleg/silent-sentinel/internal/platform"
)

// commandQueueSize bounds pending engine commands. Hook events are dropped
// rather than block an OS hook thread when the queue is full.
const commandQueueSize = 64

// Status is a snapshot of the engine for display.
type Status struct {
	Mode              Mode
	Angle             int
	SinceActivity     time.Duration
	Locked            bool
	Suspended         bool
	Degraded          bool
	Health            InjectionHealth
	InjectionFailures int64
	Platform          string
}

// Engine owns the controller and runs it on a single worker goroutine. Every
// input (toggle, hook event, system notification, query) is a command on one
// queue, so the controller never sees concurrent calls.
type Engine struct {
	cfg   PathConfig
	plat  *platform.Platform
	probe *activity.Probe
	ctrl  *Controller
	sched *tickerScheduler

	cmds    chan func()
	cleanup *CleanupManager

	mu      sync.Mutex
	started bool
	stopped bool
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	wg      sync.WaitGroup

	stopOnce sync.Once
	stopErr  error
}

// New wires an engine for the given platform. It does not start anything.
func New(cfg PathConfig, plat *platform.Platform) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if plat == nil || plat.Injector == nil || plat.Window == nil {
		return nil, errors.New("engine: platform must provide an injector and window control")
	}

	probe := activity.NewProbe(time.Now(), cfg.InjectionEcho)
	sched := newTickerScheduler(cfg)
	gen := NewGenerator(cfg, probe, plat.Injector, plat.Window, time.Now)

	return &Engine{
		cfg:     cfg,
		plat:    plat,
		probe:   probe,
		ctrl:    NewController(cfg, sched, gen, probe, plat.Window, time.Now),
		sched:   sched,
		cmds:    make(chan func(), commandQueueSize),
		cleanup: NewCleanupManager(DefaultCleanupTimeout),
		done:    make(chan struct{}),
	}, nil
}

// OnModeChanged registers an observer. Observers run on the engine worker and
// must not call back into the engine synchronously. Register before Start.
func (e *Engine) OnModeChanged(fn func(Mode)) {
	e.ctrl.OnModeChanged(fn)
}

// Start registers activity hooks, starts system notifiers and the worker, and
// enters ModeActive. A hook registration failure does not stop the engine; it
// runs degraded without idle recovery.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped {
		return ErrStopped
	}
	if e.started {
		return ErrAlreadyRunning
	}
	e.started = true
	e.ctx, e.cancel = context.WithCancel(ctx)

	e.registerHooks()

	go e.run()

	for _, n := range e.plat.Notifiers {
		e.wg.Add(1)
		go func(n platform.Notifier) {
			defer e.wg.Done()
			if err := n.Watch(e.ctx, e.Post); err != nil {
				log.Printf("engine: notifier stopped: %v", err)
			}
		}(n)
	}

	log.Printf("engine: started on %s (tick %v, idle check %v, threshold %v)",
		e.plat.Name, e.cfg.TickInterval, e.cfg.IdleCheckInterval, e.cfg.IdleThreshold)
	e.enqueue(e.ctrl.Start)
	return nil
}

func (e *Engine) registerHooks() {
	var errs []error
	if e.plat.Hooks == nil {
		errs = append(errs, errors.New("no activity hooks on this platform"))
	} else {
		if unregister, err := e.plat.Hooks.RegisterPointerMotionHook(e.onPointerMotion); err != nil {
			errs = append(errs, fmt.Errorf("pointer hook: %w", err))
		} else {
			e.cleanup.RegisterFunc("pointer motion hook", unregister)
		}
		if unregister, err := e.plat.Hooks.RegisterKeyDownHook(e.onKeyDown); err != nil {
			errs = append(errs, fmt.Errorf("keyboard hook: %w", err))
		} else {
			e.cleanup.RegisterFunc("key down hook", unregister)
		}
	}

	if err := errors.Join(errs...); err != nil {
		e.probe.SetAvailable(false)
		log.Printf("engine: running degraded, idle recovery disabled: %v", err)
	}
}

// onPointerMotion runs on the hook's goroutine. The injection check happens
// here, at delivery time, before the event is queued.
func (e *Engine) onPointerMotion(at time.Time) {
	if e.probe.AttributedToInjection(at) {
		return
	}
	e.tryEnqueue(func() { e.ctrl.PointerMotion(at) })
}

func (e *Engine) onKeyDown(at time.Time) {
	if e.probe.Suppressed() {
		return
	}
	e.tryEnqueue(func() { e.ctrl.KeyDown(at) })
}

func (e *Engine) run() {
	defer close(e.done)
	defer e.sched.stopAll()

	for {
		select {
		case <-e.ctx.Done():
			e.ctrl.Shutdown()
			return
		case fn := <-e.cmds:
			fn()
		case <-e.sched.tickC:
			e.ctrl.Tick()
		case <-e.sched.idleC:
			e.ctrl.IdleCheck()
		}
	}
}

// enqueue blocks until the worker accepts fn or the engine stops.
func (e *Engine) enqueue(fn func()) bool {
	select {
	case e.cmds <- fn:
		return true
	case <-e.done:
		return false
	}
}

func (e *Engine) tryEnqueue(fn func()) {
	select {
	case e.cmds <- fn:
	default:
	}
}

// call runs fn on the worker and waits for it.
func (e *Engine) call(fn func()) bool {
	if !e.isStarted() {
		return false
	}
	finished := make(chan struct{})
	if !e.enqueue(func() { fn(); close(finished) }) {
		return false
	}
	select {
	case <-finished:
		return true
	case <-e.done:
		return false
	}
}

func (e *Engine) isStarted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.started
}

// Toggle flips the running state.
func (e *Engine) Toggle() {
	if e.isStarted() {
		e.enqueue(e.ctrl.Toggle)
	}
}

// Post delivers a system notification.
func (e *Engine) Post(ev platform.SystemEvent) {
	if e.isStarted() {
		e.enqueue(func() { e.ctrl.HandleSystemEvent(ev) })
	}
}

// IsActive reports whether the engine is in ModeActive.
func (e *Engine) IsActive() bool {
	var active bool
	e.call(func() { active = e.ctrl.Mode() == ModeActive })
	return active
}

// Status returns a snapshot taken on the worker.
func (e *Engine) Status() Status {
	st := Status{Platform: e.plat.Name}
	e.call(func() {
		gen := e.ctrl.Generator()
		st.Mode = e.ctrl.Mode()
		st.Angle = gen.Angle()
		st.SinceActivity = e.probe.TimeSinceLastGenuineActivity(time.Now())
		st.Locked = e.ctrl.Locked()
		st.Suspended = e.ctrl.Suspended()
		st.Degraded = !e.probe.Available()
		st.Health = gen.Health()
		st.InjectionFailures = gen.Failures()
	})
	return st
}

// Stop stops the worker and notifiers and unregisters hooks. It is safe to
// call more than once and before Start.
func (e *Engine) Stop() error {
	e.stopOnce.Do(func() {
		e.mu.Lock()
		e.stopped = true
		started := e.started
		e.mu.Unlock()

		if !started {
			return
		}

		e.cancel()
		<-e.done
		e.wg.Wait()
		e.stopErr = e.cleanup.Execute()
		log.Printf("engine: stopped")
	})
	return e.stopErr
}

// tickerScheduler implements Scheduler with two tickers owned by the worker.
// A stopped ticker's channel is set to nil so a select never receives from it.
type tickerScheduler struct {
	intervals [2]time.Duration
	tickers   [2]*time.Ticker

	tickC <-chan time.Time
	idleC <-chan time.Time
}

func newTickerScheduler(cfg PathConfig) *tickerScheduler {
	return &tickerScheduler{
		intervals: [2]time.Duration{TickTimer: cfg.TickInterval, IdleCheckTimer: cfg.IdleCheckInterval},
	}
}

func (s *tickerScheduler) Start(kind TimerKind) {
	if s.tickers[kind] != nil {
		return
	}
	t := time.NewTicker(s.intervals[kind])
	s.tickers[kind] = t
	s.setChan(kind, t.C)
}

func (s *tickerScheduler) Stop(kind TimerKind) {
	if t := s.tickers[kind]; t != nil {
		t.Stop()
		s.tickers[kind] = nil
	}
	s.setChan(kind, nil)
}

func (s *tickerScheduler) stopAll() {
	s.Stop(TickTimer)
	s.Stop(IdleCheckTimer)
}

func (s *tickerScheduler) setChan(kind TimerKind, c <-chan time.Time) {
	if kind == TickTimer {
		s.tickC = c
		return
	}
	s.idleC = c
}
