// Package activity records genuine user input and keeps the engine's own
// synthetic input from being mistaken for it.
package activity

import (
	"log"
	"sync"
	"time"
)

// DefaultInjectionEcho is how long after an injection window closes a
// pointer event is still attributed to that injection. Polled and
// asynchronous hook sources report motion slightly after it happened.
const DefaultInjectionEcho = 250 * time.Millisecond

// Probe tracks the most recent genuine input. It owns LastGenuineActivity:
// nothing else reads or writes that timestamp except through these methods.
type Probe struct {
	mu sync.Mutex

	last time.Time

	// open suppression bracket, identified by generation
	suppressing bool
	generation  uint64

	// bounds of the most recent injection window
	injectBegin time.Time
	injectEnd   time.Time
	echo        time.Duration

	available bool
}

// NewProbe creates a probe whose LastGenuineActivity starts at now.
func NewProbe(now time.Time, echo time.Duration) *Probe {
	if echo < 0 {
		echo = 0
	}
	return &Probe{
		last:      now,
		echo:      echo,
		available: true,
	}
}

// OnPointerMotion records pointer motion observed at the given instant.
// It returns false when the event was attributed to synthetic injection.
func (p *Probe) OnPointerMotion(at time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.suppressing || p.inInjectionWindowLocked(at) {
		return false
	}
	p.recordLocked(at)
	return true
}

// OnKeyDown records a key press observed at the given instant.
// Only an open suppression bracket filters key events.
func (p *Probe) OnKeyDown(at time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.suppressing {
		return false
	}
	p.recordLocked(at)
	return true
}

// Suppressed reports whether a suppression bracket is currently open.
func (p *Probe) Suppressed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.suppressing
}

// AttributedToInjection reports whether a pointer event stamped at the given
// instant would be ignored as synthetic.
func (p *Probe) AttributedToInjection(at time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.suppressing || p.inInjectionWindowLocked(at)
}

// LastGenuineActivity returns the timestamp of the last recorded genuine input.
func (p *Probe) LastGenuineActivity() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// TimeSinceLastGenuineActivity returns the time elapsed between the last
// genuine input and now. It never returns a negative duration.
func (p *Probe) TimeSinceLastGenuineActivity(now time.Time) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	since := now.Sub(p.last)
	if since < 0 {
		return 0
	}
	return since
}

// Reset forces LastGenuineActivity to the given instant, even backwards.
// Used for session and power transitions.
func (p *Probe) Reset(at time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = at
}

// SetAvailable records whether genuine-activity hooks are registered.
func (p *Probe) SetAvailable(available bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.available = available
}

// Available reports whether genuine activity can be observed at all.
func (p *Probe) Available() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.available
}

func (p *Probe) recordLocked(at time.Time) {
	if at.After(p.last) {
		p.last = at
	}
}

func (p *Probe) inInjectionWindowLocked(at time.Time) bool {
	if p.injectBegin.IsZero() {
		return false
	}
	return !at.Before(p.injectBegin) && !at.After(p.injectEnd.Add(p.echo))
}

// Suppression is an open injection bracket. The generator must hold one
// around every pointer move and click it injects.
type Suppression struct {
	probe      *Probe
	generation uint64
	once       sync.Once
}

// BeginSuppressedInjection opens a suppression bracket. A bracket left open
// by an earlier injection is force-closed first.
func (p *Probe) BeginSuppressedInjection(now time.Time) *Suppression {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.suppressing {
		log.Printf("activity: stale suppression bracket %d still open; forcing it closed", p.generation)
		p.injectEnd = now
	}

	p.generation++
	p.suppressing = true
	p.injectBegin = now
	p.injectEnd = now

	return &Suppression{probe: p, generation: p.generation}
}

// End closes the bracket. Calling End more than once is harmless, and a
// bracket that was force-closed does not close its successor.
func (s *Suppression) End(now time.Time) {
	s.once.Do(func() {
		p := s.probe
		p.mu.Lock()
		defer p.mu.Unlock()

		if !p.suppressing || p.generation != s.generation {
			return
		}
		p.suppressing = false
		p.injectEnd = now
	})
}

// Suppress runs fn inside a suppression bracket. The bracket is closed on
// every exit path, including a panic in fn.
func (p *Probe) Suppress(now func() time.Time, fn func() error) error {
	s := p.BeginSuppressedInjection(now())
	defer func() { s.End(now()) }()
	return fn()
}
