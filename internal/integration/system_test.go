package integration

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stigoleg/silent-sentinel/internal/keepalive"
	"github.com/stigoleg/silent-sentinel/internal/platform"
)

// requireDesktop skips unless the caller opted in. These tests move the real
// pointer and click.
func requireDesktop(t *testing.T) *platform.Platform {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping system test in short mode")
	}
	if os.Getenv("SENTINEL_SYSTEM_TEST") != "1" {
		t.Skip("set SENTINEL_SYSTEM_TEST=1 to drive the real pointer")
	}

	plat, err := platform.New()
	if errors.Is(err, platform.ErrUnsupportedPlatform) {
		t.Skip(err.Error())
	}
	require.NoError(t, err, "should create the platform adapter")
	return plat
}

func TestRealPlatformWalksTheCircle(t *testing.T) {
	plat := requireDesktop(t)

	cfg := keepalive.DefaultPathConfig()
	cfg.TickInterval = 200 * time.Millisecond

	e, err := keepalive.New(cfg, plat)
	require.NoError(t, err)
	require.NoError(t, e.Start(context.Background()))
	defer e.Stop()

	assert.Eventually(t, func() bool {
		return e.Status().Angle >= 2*cfg.Step
	}, 5*time.Second, 50*time.Millisecond, "angle should advance with every tick")

	st := e.Status()
	assert.Equal(t, keepalive.ModeActive, st.Mode)
	assert.Equal(t, plat.Name, st.Platform)
	t.Logf("platform %s: injection %s, degraded %v", st.Platform, st.Health, st.Degraded)
}

func TestRealWindowActions(t *testing.T) {
	plat := requireDesktop(t)

	// Best effort on every OS; only report what failed.
	for name, action := range map[string]func() error{
		"wake":       plat.Window.RequestScreenWake,
		"foreground": plat.Window.BringSelfToForeground,
	} {
		if err := action(); err != nil {
			t.Logf("%s: %v", name, err)
		}
	}
}

func TestRealNotifiersStopWithContext(t *testing.T) {
	plat := requireDesktop(t)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	for _, n := range plat.Notifiers {
		done := make(chan error, 1)
		go func() { done <- n.Watch(ctx, func(platform.SystemEvent) {}) }()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("notifier ignored context cancellation")
		}
	}
}
