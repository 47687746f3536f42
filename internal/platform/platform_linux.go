//go:build linux

package platform

import (
	"fmt"
	"log"

	"github.com/stigoleg/silent-sentinel/internal/platform/linux"
)

// New returns the Linux platform for the detected display server.
func New() (*Platform, error) {
	caps := linux.DetectCapabilities()
	log.Printf("linux: display server %s, desktop %s", caps.DisplayServer, caps.DesktopEnvironment)
	linux.LogMissingDependencies(caps)

	injector, err := linux.NewInjector(caps)
	if err != nil {
		return nil, fmt.Errorf("linux: %w", err)
	}
	log.Printf("linux: injecting with %s", injector.Name())

	var hooks Hooks
	if src, err := linux.NewIdleSource(caps); err != nil {
		log.Printf("linux: idle detection unavailable: %v", err)
	} else {
		log.Printf("linux: idle time from %s", src.Name())
		hooks = NewIdleHooks(src.IdleTime, IdlePollInterval)
	}

	notifiers := []Notifier{NewSleepDetector()}
	if caps.LoginctlAvailable {
		notifiers = append(notifiers, NewLockPoller("linux", linux.SessionLocked, SessionPollInterval))
	}

	return &Platform{
		Name:      "linux/" + caps.DisplayServer,
		Hooks:     hooks,
		Injector:  injector,
		Window:    linux.NewWindow(caps),
		Notifiers: notifiers,
	}, nil
}
