//go:build windows

package integration

import (
	"errors"
	"os"
)

func getUnixSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}

func getUnixSignalsWithSIGTSTP() []os.Signal {
	return getUnixSignals()
}

func isSIGTSTP(os.Signal) bool {
	return false
}

func sendSIGTSTP(*os.Process) error {
	return errors.New("SIGTSTP is not available on Windows")
}
