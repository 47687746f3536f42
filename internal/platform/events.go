package platform

import "time"

// SystemEventKind identifies a decoded OS notification.
type SystemEventKind int

const (
	PowerSuspend SystemEventKind = iota
	PowerResume
	SessionLock
	SessionLogoff
	SessionUnlock
	SessionLogon
	AppDeactivated
	AppActivated
)

func (k SystemEventKind) String() string {
	switch k {
	case PowerSuspend:
		return "PowerSuspend"
	case PowerResume:
		return "PowerResume"
	case SessionLock:
		return "SessionLock"
	case SessionLogoff:
		return "SessionLogoff"
	case SessionUnlock:
		return "SessionUnlock"
	case SessionLogon:
		return "SessionLogon"
	case AppDeactivated:
		return "AppDeactivated"
	case AppActivated:
		return "AppActivated"
	default:
		return "Unknown"
	}
}

// SystemEvent is a power, session or focus notification.
type SystemEvent struct {
	Kind SystemEventKind
	At   time.Time
}

// NewSystemEvent stamps an event with the current time.
func NewSystemEvent(kind SystemEventKind) SystemEvent {
	return SystemEvent{Kind: kind, At: time.Now()}
}
