package platform

import "github.com/lextoumbourou/idle"

// newSystemIdleHooks polls the HID idle counter.
func newSystemIdleHooks() *IdleHooks {
	return NewIdleHooks(idle.Get, IdlePollInterval)
}
