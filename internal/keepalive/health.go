package keepalive

import "sync/atomic"

// InjectionHealth represents the runtime health of synthetic input.
type InjectionHealth int

const (
	InjectionHealthUnknown InjectionHealth = iota
	InjectionHealthOK
	InjectionHealthFailed
)

func (h InjectionHealth) String() string {
	switch h {
	case InjectionHealthOK:
		return "ok"
	case InjectionHealthFailed:
		return "failing"
	default:
		return "unknown"
	}
}

// healthTracker counts consecutive injection failures.
type healthTracker struct {
	attempts  int64
	failCount int64
	total     int64
}

func (h *healthTracker) recordSuccess() {
	atomic.AddInt64(&h.attempts, 1)
	atomic.StoreInt64(&h.failCount, 0)
}

func (h *healthTracker) recordFailure() {
	atomic.AddInt64(&h.attempts, 1)
	atomic.AddInt64(&h.failCount, 1)
	atomic.AddInt64(&h.total, 1)
}

func (h *healthTracker) health() InjectionHealth {
	if atomic.LoadInt64(&h.attempts) == 0 {
		return InjectionHealthUnknown
	}
	if atomic.LoadInt64(&h.failCount) > 0 {
		return InjectionHealthFailed
	}
	return InjectionHealthOK
}

// consecutiveFailures returns failures since the last success.
func (h *healthTracker) consecutiveFailures() int64 {
	return atomic.LoadInt64(&h.failCount)
}

func (h *healthTracker) totalFailures() int64 {
	return atomic.LoadInt64(&h.total)
}
