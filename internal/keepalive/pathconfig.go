package keepalive

import (
	"fmt"
	"time"

	"github.com/stigoleg/silent-sentinel/internal/activity"
	"github.com/stigoleg/silent-sentinel/internal/platform/patterns"
)

// Timing defaults.
const (
	DefaultTickInterval      = 10 * time.Second
	DefaultIdleCheckInterval = 60 * time.Second
	DefaultIdleThreshold     = 4 * time.Minute
	DefaultSelfFocusGrace    = time.Second
)

// PathConfig is the immutable engine configuration. Pass it by value.
type PathConfig struct {
	Center patterns.Point
	Radius int
	// Step is the angular advance per tick, in degrees.
	Step int

	TickInterval      time.Duration
	IdleCheckInterval time.Duration
	IdleThreshold     time.Duration

	// SelfFocusGrace is how long after an injection a focus loss is blamed on
	// the injected click rather than the user.
	SelfFocusGrace time.Duration

	// InjectionEcho extends the injection window for late pointer reports.
	InjectionEcho time.Duration
}

// DefaultPathConfig returns the stock configuration.
func DefaultPathConfig() PathConfig {
	return PathConfig{
		Center:            patterns.Point{X: patterns.DefaultCenterX, Y: patterns.DefaultCenterY},
		Radius:            patterns.DefaultRadius,
		Step:              patterns.DefaultStep,
		TickInterval:      DefaultTickInterval,
		IdleCheckInterval: DefaultIdleCheckInterval,
		IdleThreshold:     DefaultIdleThreshold,
		SelfFocusGrace:    DefaultSelfFocusGrace,
		InjectionEcho:     activity.DefaultInjectionEcho,
	}
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c PathConfig) Validate() error {
	switch {
	case c.Radius <= 0:
		return fmt.Errorf("%w: radius must be positive, got %d", ErrInvalidConfig, c.Radius)
	case c.Step%360 == 0:
		return fmt.Errorf("%w: step %d does not move the cursor", ErrInvalidConfig, c.Step)
	case c.Center.X < 0 || c.Center.Y < 0:
		return fmt.Errorf("%w: center %d,%d is off screen", ErrInvalidConfig, c.Center.X, c.Center.Y)
	case c.TickInterval <= 0:
		return fmt.Errorf("%w: tick interval must be positive, got %v", ErrInvalidConfig, c.TickInterval)
	case c.IdleCheckInterval <= 0:
		return fmt.Errorf("%w: idle-check interval must be positive, got %v", ErrInvalidConfig, c.IdleCheckInterval)
	case c.IdleThreshold <= 0:
		return fmt.Errorf("%w: idle threshold must be positive, got %v", ErrInvalidConfig, c.IdleThreshold)
	case c.SelfFocusGrace < 0:
		return fmt.Errorf("%w: focus grace must not be negative, got %v", ErrInvalidConfig, c.SelfFocusGrace)
	case c.InjectionEcho < 0:
		return fmt.Errorf("%w: injection echo must not be negative, got %v", ErrInvalidConfig, c.InjectionEcho)
	}
	return nil
}
