package platform

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// IdleSampler returns how long the system has seen no user input.
type IdleSampler func() (time.Duration, error)

// IdleHooks implements Hooks on systems without low-level input hooks by
// polling the OS idle counter. Whenever the counter is shorter than the time
// since the previous sample, input happened in between, and pointer hooks are
// called with the reconstructed instant (now - idle). The idle counter does
// not say which device produced the input, so key hooks are registered but
// only pointer hooks are called.
type IdleHooks struct {
	sample   IdleSampler
	interval time.Duration
	now      func() time.Time

	mu       sync.Mutex
	pointer  map[int]HookFunc
	keys     map[int]HookFunc
	nextID   int
	running  bool
	stopChan chan struct{}
	done     chan struct{}
}

// NewIdleHooks creates polled hooks sampling at the given interval.
func NewIdleHooks(sample IdleSampler, interval time.Duration) *IdleHooks {
	if interval <= 0 {
		interval = IdlePollInterval
	}
	return &IdleHooks{
		sample:   sample,
		interval: interval,
		now:      time.Now,
		pointer:  make(map[int]HookFunc),
		keys:     make(map[int]HookFunc),
	}
}

// RegisterPointerMotionHook implements Hooks.
func (h *IdleHooks) RegisterPointerMotionHook(fn HookFunc) (Unregister, error) {
	return h.register(h.pointer, fn)
}

// RegisterKeyDownHook implements Hooks.
func (h *IdleHooks) RegisterKeyDownHook(fn HookFunc) (Unregister, error) {
	return h.register(h.keys, fn)
}

func (h *IdleHooks) register(set map[int]HookFunc, fn HookFunc) (Unregister, error) {
	// A sampler that fails up front will not recover; report it as a
	// registration failure so the engine runs degraded.
	if _, err := h.sample(); err != nil {
		return nil, fmt.Errorf("idle time unavailable: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	set[id] = fn
	h.startLocked()

	var once sync.Once
	return func() error {
		once.Do(func() {
			h.mu.Lock()
			delete(set, id)
			var done chan struct{}
			if len(h.pointer) == 0 && len(h.keys) == 0 {
				done = h.stopLocked()
			}
			h.mu.Unlock()
			if done != nil {
				<-done
			}
		})
		return nil
	}, nil
}

func (h *IdleHooks) startLocked() {
	if h.running {
		return
	}
	h.running = true
	h.stopChan = make(chan struct{})
	h.done = make(chan struct{})
	go h.pollLoop(h.stopChan, h.done)
}

func (h *IdleHooks) stopLocked() chan struct{} {
	if !h.running {
		return nil
	}
	h.running = false
	close(h.stopChan)
	return h.done
}

func (h *IdleHooks) pollLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	last := h.now()
	failing := false
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// The counter describes the instant the sample returned, so
			// now is read afterwards; reading it first would shift the
			// reconstructed input time early by the sampler's latency.
			idle, err := h.sample()
			now := h.now()
			if err != nil {
				if !failing {
					log.Printf("idle: sampling failed: %v", err)
					failing = true
				}
				last = now
				continue
			}
			failing = false

			if at, ok := inputSince(last, now, idle); ok {
				h.deliver(at)
			}
			last = now
		}
	}
}

func (h *IdleHooks) deliver(at time.Time) {
	h.mu.Lock()
	hooks := make([]HookFunc, 0, len(h.pointer))
	for _, fn := range h.pointer {
		hooks = append(hooks, fn)
	}
	h.mu.Unlock()

	for _, fn := range hooks {
		fn(at)
	}
}

// inputSince reports whether the idle counter sampled at now shows input after
// the previous sample, and when that input happened.
func inputSince(last, now time.Time, idle time.Duration) (time.Time, bool) {
	if idle < 0 || idle >= now.Sub(last) {
		return time.Time{}, false
	}
	return now.Add(-idle), true
}
