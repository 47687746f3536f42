package platform

import (
	"context"
	"fmt"
	"log"
	"time"
)

// clockReader returns a clock that stops while the machine is suspended and
// one that keeps counting through suspend.
type clockReader func() (awake, total time.Duration, err error)

// SleepDetector reports suspend/resume cycles by comparing a clock that
// excludes suspend with one that includes it. Both are immune to wall-clock
// steps, so NTP corrections are not mistaken for sleep. Both events are
// delivered after resume.
type SleepDetector struct {
	interval  time.Duration
	threshold time.Duration
	clocks    clockReader
	now       func() time.Time
}

func newSleepDetector(clocks clockReader, interval time.Duration) *SleepDetector {
	return &SleepDetector{
		interval:  interval,
		threshold: SuspendGapThreshold,
		clocks:    clocks,
		now:       time.Now,
	}
}

// Watch implements Notifier.
func (d *SleepDetector) Watch(ctx context.Context, emit func(SystemEvent)) error {
	lastAwake, lastTotal, err := d.clocks()
	if err != nil {
		return fmt.Errorf("sleep: read clocks: %w", err)
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	last := d.now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			awake, total, err := d.clocks()
			if err != nil {
				return fmt.Errorf("sleep: read clocks: %w", err)
			}
			now := d.now()
			gap := suspendGap(awake-lastAwake, total-lastTotal)
			if gap >= d.threshold {
				log.Printf("sleep: %v passed while suspended; reporting suspend/resume", gap)
				emit(SystemEvent{Kind: PowerSuspend, At: last})
				emit(SystemEvent{Kind: PowerResume, At: now})
			}
			lastAwake, lastTotal, last = awake, total, now
		}
	}
}

// suspendGap returns how much time passed that the awake clock did not see.
func suspendGap(awake, total time.Duration) time.Duration {
	gap := total - awake
	if gap < 0 {
		return 0
	}
	return gap
}
