package platform

// Window messages carrying power and session notifications on Windows.
const (
	wmPowerBroadcast   = 0x0218
	wmWTSSessionChange = 0x02B1

	pbtAPMSuspend         = 0x0004
	pbtAPMResumeAutomatic = 0x0012

	wtsSessionLogon  = 0x5
	wtsSessionLogoff = 0x6
	wtsSessionLock   = 0x7
	wtsSessionUnlock = 0x8
)

// decodeSessionMessage maps a power or session window message to an event.
// PBT_APMRESUMESUSPEND is ignored because PBT_APMRESUMEAUTOMATIC always
// accompanies it.
func decodeSessionMessage(msg uint32, wParam uintptr) (SystemEventKind, bool) {
	switch msg {
	case wmPowerBroadcast:
		switch wParam {
		case pbtAPMSuspend:
			return PowerSuspend, true
		case pbtAPMResumeAutomatic:
			return PowerResume, true
		}
	case wmWTSSessionChange:
		switch wParam {
		case wtsSessionLock:
			return SessionLock, true
		case wtsSessionUnlock:
			return SessionUnlock, true
		case wtsSessionLogoff:
			return SessionLogoff, true
		case wtsSessionLogon:
			return SessionLogon, true
		}
	}
	return 0, false
}
