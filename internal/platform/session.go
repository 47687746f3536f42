package platform

import (
	"context"
	"log"
	"time"
)

// LockState samples whether the interactive session is locked.
type LockState func() (bool, error)

// LockPoller turns periodic lock-state samples into SessionLock and
// SessionUnlock events. The first successful sample only establishes a baseline.
type LockPoller struct {
	name     string
	sample   LockState
	interval time.Duration
}

// NewLockPoller creates a poller that samples every interval. Adapters pass
// SessionPollInterval.
func NewLockPoller(name string, sample LockState, interval time.Duration) *LockPoller {
	return &LockPoller{name: name, sample: sample, interval: interval}
}

// Watch implements Notifier.
func (p *LockPoller) Watch(ctx context.Context, emit func(SystemEvent)) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var (
		known    bool
		locked   bool
		failures int
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			now, err := p.sample()
			if err != nil {
				failures++
				if failures == 1 {
					log.Printf("%s: lock state unavailable: %v", p.name, err)
				}
				continue
			}
			failures = 0

			if ev, ok := lockTransition(known, locked, now); ok {
				log.Printf("%s: session %s", p.name, ev)
				emit(NewSystemEvent(ev))
			}
			known, locked = true, now
		}
	}
}

func lockTransition(known, was, now bool) (SystemEventKind, bool) {
	if !known || was == now {
		return 0, false
	}
	if now {
		return SessionLock, true
	}
	return SessionUnlock, true
}
