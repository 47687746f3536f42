package keepalive

import (
	"log"
	"time"

	"github.com/stigoleg/silent-sentinel/internal/activity"
)

// stillActiveLogEvery limits how often a declined recovery is logged.
const stillActiveLogEvery = 5 * time.Minute

// RecoveryPolicy decides, on each idle check, whether the user has been away
// long enough to resume synthetic activity.
type RecoveryPolicy struct {
	threshold time.Duration
	probe     *activity.Probe

	lastLog        time.Time
	degradedLogged bool
}

// NewRecoveryPolicy creates a policy firing once genuine inactivity reaches threshold.
func NewRecoveryPolicy(threshold time.Duration, probe *activity.Probe) *RecoveryPolicy {
	return &RecoveryPolicy{threshold: threshold, probe: probe}
}

// ShouldRecover reports whether time since the last genuine input is at least
// the threshold. It never fires while genuine input cannot be observed.
func (r *RecoveryPolicy) ShouldRecover(now time.Time) bool {
	if !r.probe.Available() {
		if !r.degradedLogged {
			log.Printf("controller: activity hooks unavailable; idle recovery disabled")
			r.degradedLogged = true
		}
		return false
	}
	r.degradedLogged = false

	since := r.probe.TimeSinceLastGenuineActivity(now)
	if since >= r.threshold {
		return true
	}

	if r.lastLog.IsZero() || now.Sub(r.lastLog) >= stillActiveLogEvery {
		log.Printf("controller: user active %v ago (threshold %v); staying idle", since.Round(time.Second), r.threshold)
		r.lastLog = now
	}
	return false
}

// Threshold returns the configured inactivity threshold.
func (r *RecoveryPolicy) Threshold() time.Duration {
	return r.threshold
}
