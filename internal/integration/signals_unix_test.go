//go:build !windows

package integration

import (
	"os"
	"syscall"
)

func getUnixSignals() []os.Signal {
	return []os.Signal{
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	}
}

func getUnixSignalsWithSIGTSTP() []os.Signal {
	return append(getUnixSignals(), syscall.SIGTSTP)
}

func isSIGTSTP(sig os.Signal) bool {
	return sig == syscall.SIGTSTP
}

func sendSIGTSTP(proc *os.Process) error {
	return proc.Signal(syscall.SIGTSTP)
}
