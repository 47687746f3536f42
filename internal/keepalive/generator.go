package keepalive

import (
	"fmt"
	"log"
	"time"

	"github.com/stigoleg/silent-sentinel/internal/activity"
	"github.com/stigoleg/silent-sentinel/internal/platform"
	"github.com/stigoleg/silent-sentinel/internal/platform/patterns"
)

// Generator injects one click per tick at successive points of a circle.
// It is owned by the engine worker and is not safe for concurrent use.
type Generator struct {
	path     *patterns.CirclePath
	probe    *activity.Probe
	injector platform.Injector
	window   platform.Window
	now      func() time.Time

	health        healthTracker
	lastInjection time.Time
	lastFocusErr  string
}

// NewGenerator creates a generator starting at angle 0.
func NewGenerator(cfg PathConfig, probe *activity.Probe, injector platform.Injector, window platform.Window, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{
		path:     patterns.NewCirclePath(cfg.Center, cfg.Radius, cfg.Step),
		probe:    probe,
		injector: injector,
		window:   window,
		now:      now,
	}
}

// Tick moves the pointer to the current point and clicks, inside a single
// suppression bracket. The angle advances whether or not injection worked.
func (g *Generator) Tick() error {
	angle := g.path.Angle()
	pt := g.path.Current()

	err := g.probe.Suppress(g.now, func() error {
		if err := g.injector.SetCursorPosition(pt.X, pt.Y); err != nil {
			return fmt.Errorf("set cursor position: %w", err)
		}
		if err := g.injector.InjectClick(); err != nil {
			return fmt.Errorf("inject click: %w", err)
		}
		return nil
	})

	g.lastInjection = g.now()
	g.path.Advance()

	if err != nil {
		g.health.recordFailure()
		if n := g.health.consecutiveFailures(); n == 1 || n%10 == 0 {
			log.Printf("generator: tick at %d° (%d,%d) failed (%d in a row): %v", angle, pt.X, pt.Y, n, err)
		}
	} else {
		if g.health.consecutiveFailures() > 0 {
			log.Printf("generator: injection recovered")
		}
		g.health.recordSuccess()
	}

	g.refocus()
	return err
}

// refocus re-asserts foreground focus after the click, logging only when the
// failure reason changes.
func (g *Generator) refocus() {
	if err := g.window.BringSelfToForeground(); err != nil {
		if msg := err.Error(); msg != g.lastFocusErr {
			log.Printf("generator: could not restore foreground: %v", err)
			g.lastFocusErr = msg
		}
		return
	}
	g.lastFocusErr = ""
}

// Angle returns the angle the next tick will use.
func (g *Generator) Angle() int {
	return g.path.Angle()
}

// LastInjection returns when the most recent tick finished injecting.
func (g *Generator) LastInjection() time.Time {
	return g.lastInjection
}

// Health reports whether recent injections succeeded.
func (g *Generator) Health() InjectionHealth {
	return g.health.health()
}

// Failures returns the total number of failed ticks.
func (g *Generator) Failures() int64 {
	return g.health.totalFailures()
}
