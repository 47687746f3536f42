//go:build windows

package platform

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	whKeyboardLL = 13
	whMouseLL    = 14

	wmQuit       = 0x0012
	wmCommand    = 0x0111
	wmKeyDown    = 0x0100
	wmSysKeyDown = 0x0104
	wmMouseFirst = 0x0200
	wmMouseLast  = 0x020E

	llmhfInjected = 0x00000001
	llkhfInjected = 0x00000010

	inputMouse          = 0
	mouseeventfMove     = 0x0001
	mouseeventfLeftDown = 0x0002
	mouseeventfLeftUp   = 0x0004

	// Shell_TrayWnd command behind "Minimize all windows".
	trayMinimizeAll = 419

	esSystemRequired  = 0x00000001
	esDisplayRequired = 0x00000002
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetMessageW         = user32.NewProc("GetMessageW")
	procTranslateMessage    = user32.NewProc("TranslateMessage")
	procDispatchMessageW    = user32.NewProc("DispatchMessageW")
	procPostThreadMessageW  = user32.NewProc("PostThreadMessageW")
	procSendInput           = user32.NewProc("SendInput")
	procSetCursorPos        = user32.NewProc("SetCursorPos")
	procFindWindowW         = user32.NewProc("FindWindowW")
	procPostMessageW        = user32.NewProc("PostMessageW")
	procSetForegroundWindow = user32.NewProc("SetForegroundWindow")

	procGetConsoleWindow        = kernel32.NewProc("GetConsoleWindow")
	procSetThreadExecutionState = kernel32.NewProc("SetThreadExecutionState")

	mouseHookCallback    = windows.NewCallback(mouseLLCallback)
	keyboardHookCallback = windows.NewCallback(keyboardLLCallback)

	activeHooks atomic.Pointer[windowsHooks]
)

type point struct {
	X int32
	Y int32
}

type mouseLLHookStruct struct {
	Pt          point
	MouseData   uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type keyboardLLHookStruct struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type message struct {
	Hwnd     uintptr
	Message  uint32
	WParam   uintptr
	LParam   uintptr
	Time     uint32
	Pt       point
	LPrivate uint32
}

type mouseInput struct {
	Dx          int32
	Dy          int32
	MouseData   uint32
	DwFlags     uint32
	Time        uint32
	DwExtraInfo uintptr
}

type input struct {
	Type uint32
	Mi   mouseInput
}

func sendMouseInput(flags ...uint32) error {
	inputs := make([]input, 0, len(flags))
	for _, f := range flags {
		inputs = append(inputs, input{Type: inputMouse, Mi: mouseInput{DwFlags: f}})
	}

	sent, _, callErr := procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if sent != uintptr(len(inputs)) {
		if callErr != nil && callErr != syscall.Errno(0) {
			return fmt.Errorf("SendInput: %w", callErr)
		}
		return fmt.Errorf("SendInput sent %d of %d inputs", sent, len(inputs))
	}
	return nil
}

// windowsHooks runs both low-level hooks on one locked OS thread with its own
// message loop. The thread starts with the first registration and exits when
// the last hook is unregistered.
type windowsHooks struct {
	// lifecycle serialises starting and stopping the hook thread; mu guards
	// the callback sets and is the only lock taken on the hook thread.
	lifecycle sync.Mutex

	mu      sync.Mutex
	pointer map[int]HookFunc
	keys    map[int]HookFunc
	nextID  int

	threadID atomic.Uint32
	loopDone chan struct{}
}

func newWindowsHooks() *windowsHooks {
	return &windowsHooks{
		pointer: make(map[int]HookFunc),
		keys:    make(map[int]HookFunc),
	}
}

func (h *windowsHooks) RegisterPointerMotionHook(fn HookFunc) (Unregister, error) {
	return h.register(h.pointer, fn)
}

func (h *windowsHooks) RegisterKeyDownHook(fn HookFunc) (Unregister, error) {
	return h.register(h.keys, fn)
}

func (h *windowsHooks) register(set map[int]HookFunc, fn HookFunc) (Unregister, error) {
	h.lifecycle.Lock()
	defer h.lifecycle.Unlock()

	if h.loopDone == nil {
		if err := h.startLocked(); err != nil {
			return nil, err
		}
	}

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	set[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() error {
		once.Do(func() {
			h.lifecycle.Lock()
			defer h.lifecycle.Unlock()

			h.mu.Lock()
			delete(set, id)
			empty := len(h.pointer) == 0 && len(h.keys) == 0
			h.mu.Unlock()

			if empty {
				h.stopLocked()
			}
		})
		return nil
	}, nil
}

func (h *windowsHooks) startLocked() error {
	if !activeHooks.CompareAndSwap(nil, h) {
		return errors.New("windows: input hooks already installed by another instance")
	}

	h.loopDone = make(chan struct{})
	ready := make(chan error, 1)
	go h.hookLoop(ready, h.loopDone)

	if err := <-ready; err != nil {
		<-h.loopDone
		h.loopDone = nil
		activeHooks.CompareAndSwap(h, nil)
		return err
	}
	return nil
}

func (h *windowsHooks) stopLocked() {
	if h.loopDone == nil {
		return
	}
	if threadID := h.threadID.Load(); threadID != 0 {
		_, _, _ = procPostThreadMessageW.Call(uintptr(threadID), uintptr(wmQuit), 0, 0)
	}
	<-h.loopDone
	h.loopDone = nil
	activeHooks.CompareAndSwap(h, nil)
}

func (h *windowsHooks) hookLoop(ready chan<- error, done chan struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(done)

	h.threadID.Store(windows.GetCurrentThreadId())
	defer h.threadID.Store(0)

	mouseHook, _, mouseErr := procSetWindowsHookExW.Call(uintptr(whMouseLL), mouseHookCallback, 0, 0)
	if mouseHook == 0 {
		ready <- fmt.Errorf("failed to install mouse hook: %w", mouseErr)
		return
	}
	defer func() {
		_, _, _ = procUnhookWindowsHookEx.Call(mouseHook)
	}()

	keyboardHook, _, keyboardErr := procSetWindowsHookExW.Call(uintptr(whKeyboardLL), keyboardHookCallback, 0, 0)
	if keyboardHook == 0 {
		ready <- fmt.Errorf("failed to install keyboard hook: %w", keyboardErr)
		return
	}
	defer func() {
		_, _, _ = procUnhookWindowsHookEx.Call(keyboardHook)
	}()

	ready <- nil

	var msg message
	for {
		ret, _, callErr := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		switch int32(ret) {
		case -1:
			log.Printf("windows: message loop failed: %v", callErr)
			return
		case 0:
			return
		default:
			_, _, _ = procTranslateMessage.Call(uintptr(unsafe.Pointer(&msg)))
			_, _, _ = procDispatchMessageW.Call(uintptr(unsafe.Pointer(&msg)))
		}
	}
}

func (h *windowsHooks) deliver(set map[int]HookFunc, at time.Time) {
	h.mu.Lock()
	hooks := make([]HookFunc, 0, len(set))
	for _, fn := range set {
		hooks = append(hooks, fn)
	}
	h.mu.Unlock()

	for _, fn := range hooks {
		fn(at)
	}
}

func mouseLLCallback(code int, wParam uintptr, lParam uintptr) uintptr {
	if code >= 0 && lParam != 0 {
		if h := activeHooks.Load(); h != nil {
			event := (*mouseLLHookStruct)(unsafe.Pointer(lParam))
			msg := uint32(wParam)
			if event.Flags&llmhfInjected == 0 && msg >= wmMouseFirst && msg <= wmMouseLast {
				h.deliver(h.pointer, time.Now())
			}
		}
	}
	ret, _, _ := procCallNextHookEx.Call(0, uintptr(code), wParam, lParam)
	return ret
}

func keyboardLLCallback(code int, wParam uintptr, lParam uintptr) uintptr {
	if code >= 0 && lParam != 0 {
		if h := activeHooks.Load(); h != nil {
			event := (*keyboardLLHookStruct)(unsafe.Pointer(lParam))
			msg := uint32(wParam)
			if event.Flags&llkhfInjected == 0 && (msg == wmKeyDown || msg == wmSysKeyDown) {
				h.deliver(h.keys, time.Now())
			}
		}
	}
	ret, _, _ := procCallNextHookEx.Call(0, uintptr(code), wParam, lParam)
	return ret
}

type windowsInjector struct{}

func (windowsInjector) SetCursorPosition(x, y int) error {
	if r, _, err := procSetCursorPos.Call(uintptr(int32(x)), uintptr(int32(y))); r == 0 {
		return fmt.Errorf("SetCursorPos(%d, %d): %w", x, y, err)
	}
	return nil
}

func (windowsInjector) InjectClick() error {
	return sendMouseInput(mouseeventfLeftDown, mouseeventfLeftUp)
}

type windowsWindow struct{}

func (windowsWindow) BringSelfToForeground() error {
	hwnd, _, _ := procGetConsoleWindow.Call()
	if hwnd == 0 {
		return errors.New("no console window attached")
	}
	if r, _, err := procSetForegroundWindow.Call(hwnd); r == 0 {
		return fmt.Errorf("SetForegroundWindow: %w", err)
	}
	return nil
}

func (windowsWindow) MinimizeAllWindows() error {
	class, err := windows.UTF16PtrFromString("Shell_TrayWnd")
	if err != nil {
		return err
	}
	tray, _, callErr := procFindWindowW.Call(uintptr(unsafe.Pointer(class)), 0)
	if tray == 0 {
		return fmt.Errorf("FindWindow(Shell_TrayWnd): %w", callErr)
	}
	if r, _, err := procPostMessageW.Call(tray, wmCommand, trayMinimizeAll, 0); r == 0 {
		return fmt.Errorf("PostMessage(MIN_ALL): %w", err)
	}
	return nil
}

// RequestScreenWake resets the display idle timer once and nudges the pointer
// by zero pixels so the session registers input.
func (windowsWindow) RequestScreenWake() error {
	if r, _, err := procSetThreadExecutionState.Call(uintptr(esSystemRequired | esDisplayRequired)); r == 0 {
		return fmt.Errorf("SetThreadExecutionState: %w", err)
	}
	return sendMouseInput(mouseeventfMove)
}

// New returns the Windows platform.
func New() (*Platform, error) {
	return &Platform{
		Name:      "windows",
		Hooks:     newWindowsHooks(),
		Injector:  windowsInjector{},
		Window:    windowsWindow{},
		Notifiers: []Notifier{NewSessionNotifier()},
	}, nil
}
