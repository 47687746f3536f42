package platform

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	// parent handle that makes CreateWindowEx return a message-only window
	hwndMessage = ^uintptr(2)

	notifyForThisSession     = 0
	deviceNotifyWindowHandle = 0
	errorClassAlreadyExists  = 1410
)

var (
	wtsapi32 = windows.NewLazySystemDLL("wtsapi32.dll")

	procRegisterClassExW                    = user32.NewProc("RegisterClassExW")
	procUnregisterClassW                    = user32.NewProc("UnregisterClassW")
	procCreateWindowExW                     = user32.NewProc("CreateWindowExW")
	procDestroyWindow                       = user32.NewProc("DestroyWindow")
	procDefWindowProcW                      = user32.NewProc("DefWindowProcW")
	procRegisterSuspendResumeNotification   = user32.NewProc("RegisterSuspendResumeNotification")
	procUnregisterSuspendResumeNotification = user32.NewProc("UnregisterSuspendResumeNotification")
	procGetModuleHandleW                    = kernel32.NewProc("GetModuleHandleW")
	procWTSRegisterSessionNotification      = wtsapi32.NewProc("WTSRegisterSessionNotification")
	procWTSUnRegisterSessionNotification    = wtsapi32.NewProc("WTSUnRegisterSessionNotification")

	sessionWindowCallback = windows.NewCallback(sessionWindowProc)

	activeSession atomic.Pointer[sessionWatch]
)

type wndClassEx struct {
	Size       uint32
	Style      uint32
	WndProc    uintptr
	ClsExtra   int32
	WndExtra   int32
	Instance   uintptr
	Icon       uintptr
	Cursor     uintptr
	Background uintptr
	MenuName   *uint16
	ClassName  *uint16
	IconSm     uintptr
}

// SessionNotifier delivers suspend, resume, lock, unlock, logon and logoff
// through a message-only window. Lock is reported from the session manager,
// so the UAC secure desktop does not count as a lock.
type SessionNotifier struct{}

// NewSessionNotifier creates the Windows session notifier.
func NewSessionNotifier() *SessionNotifier {
	return &SessionNotifier{}
}

type sessionWatch struct {
	emit     func(SystemEvent)
	threadID atomic.Uint32
}

// Watch implements Notifier.
func (n *SessionNotifier) Watch(ctx context.Context, emit func(SystemEvent)) error {
	w := &sessionWatch{emit: emit}
	if !activeSession.CompareAndSwap(nil, w) {
		return errors.New("windows: session notifications already watched")
	}
	defer activeSession.CompareAndSwap(w, nil)

	ready := make(chan error, 1)
	done := make(chan struct{})
	go w.loop(ready, done)
	if err := <-ready; err != nil {
		<-done
		return err
	}

	select {
	case <-ctx.Done():
		if threadID := w.threadID.Load(); threadID != 0 {
			_, _, _ = procPostThreadMessageW.Call(uintptr(threadID), uintptr(wmQuit), 0, 0)
		}
		<-done
		return nil
	case <-done:
		return errors.New("windows: session message loop exited")
	}
}

func (w *sessionWatch) loop(ready chan<- error, done chan struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(done)

	w.threadID.Store(windows.GetCurrentThreadId())
	defer w.threadID.Store(0)

	instance, _, _ := procGetModuleHandleW.Call(0)
	className, err := windows.UTF16PtrFromString("SilentSentinelSession")
	if err != nil {
		ready <- err
		return
	}
	class := wndClassEx{
		WndProc:   sessionWindowCallback,
		Instance:  instance,
		ClassName: className,
	}
	class.Size = uint32(unsafe.Sizeof(class))
	if atom, _, callErr := procRegisterClassExW.Call(uintptr(unsafe.Pointer(&class))); atom == 0 && callErr != windows.Errno(errorClassAlreadyExists) {
		ready <- fmt.Errorf("RegisterClassEx: %w", callErr)
		return
	}
	defer procUnregisterClassW.Call(uintptr(unsafe.Pointer(className)), instance)

	hwnd, _, callErr := procCreateWindowExW.Call(0, uintptr(unsafe.Pointer(className)), 0, 0,
		0, 0, 0, 0, hwndMessage, 0, instance, 0)
	if hwnd == 0 {
		ready <- fmt.Errorf("CreateWindowEx: %w", callErr)
		return
	}
	defer procDestroyWindow.Call(hwnd)

	if r, _, callErr := procWTSRegisterSessionNotification.Call(hwnd, notifyForThisSession); r == 0 {
		ready <- fmt.Errorf("WTSRegisterSessionNotification: %w", callErr)
		return
	}
	defer procWTSUnRegisterSessionNotification.Call(hwnd)

	// Message-only windows miss the WM_POWERBROADCAST broadcast unless they
	// subscribe, and the subscription call only exists from Windows 8.
	if procRegisterSuspendResumeNotification.Find() == nil {
		if handle, _, callErr := procRegisterSuspendResumeNotification.Call(hwnd, deviceNotifyWindowHandle); handle != 0 {
			defer procUnregisterSuspendResumeNotification.Call(handle)
		} else {
			log.Printf("windows: suspend notifications unavailable: %v", callErr)
		}
	} else {
		log.Printf("windows: suspend notifications need Windows 8 or later")
	}

	ready <- nil

	var msg message
	for {
		ret, _, callErr := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		switch int32(ret) {
		case -1:
			log.Printf("windows: session message loop failed: %v", callErr)
			return
		case 0:
			return
		default:
			_, _, _ = procTranslateMessage.Call(uintptr(unsafe.Pointer(&msg)))
			_, _, _ = procDispatchMessageW.Call(uintptr(unsafe.Pointer(&msg)))
		}
	}
}

func sessionWindowProc(hwnd, msg, wParam, lParam uintptr) uintptr {
	if kind, ok := decodeSessionMessage(uint32(msg), wParam); ok {
		if w := activeSession.Load(); w != nil {
			w.emit(SystemEvent{Kind: kind, At: time.Now()})
		}
		if uint32(msg) == wmPowerBroadcast {
			return 1
		}
		return 0
	}
	ret, _, _ := procDefWindowProcW.Call(hwnd, msg, wParam, lParam)
	return ret
}
