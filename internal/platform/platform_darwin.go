//go:build darwin

package platform

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
	"sync/atomic"
	"time"
)

const permissionWarnEvery = 60 * time.Second

// runBestEffort executes a command and logs any error.
func runBestEffort(name string, args ...string) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		log.Printf("darwin: best effort command %s failed: %v (output: %q)", name, err, string(out))
	}
}

func runJXAScript(script string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "osascript", "-l", "JavaScript", "-e", script)
	out, err := cmd.CombinedOutput()

	if ctx.Err() == context.DeadlineExceeded {
		return out, fmt.Errorf("osascript timed out after %s", commandTimeout)
	}

	return out, err
}

type darwinInjector struct {
	lastPermWarnNS int64
}

const moveScript = `
ObjC.import('CoreGraphics');
var ev = $.CGEventCreateMouseEvent(null, $.kCGEventMouseMoved, {x: %d, y: %d}, $.kCGMouseButtonLeft);
$.CGEventPost($.kCGHIDEventTap, ev);
console.log("ok");
`

const clickScript = `
ObjC.import('CoreGraphics');
var p = $.CGEventGetLocation($.CGEventCreate(null));
var down = $.CGEventCreateMouseEvent(null, $.kCGEventLeftMouseDown, p, $.kCGMouseButtonLeft);
var up = $.CGEventCreateMouseEvent(null, $.kCGEventLeftMouseUp, p, $.kCGMouseButtonLeft);
$.CGEventPost($.kCGHIDEventTap, down);
$.CGEventPost($.kCGHIDEventTap, up);
console.log("ok");
`

func (d *darwinInjector) SetCursorPosition(x, y int) error {
	out, err := runJXAScript(fmt.Sprintf(moveScript, x, y))
	if err != nil {
		err = fmt.Errorf("pointer move failed: %w (output: %q)", err, string(out))
		d.warnAccessibilityOnce(err)
		return err
	}
	return nil
}

func (d *darwinInjector) InjectClick() error {
	out, err := runJXAScript(clickScript)
	if err != nil {
		err = fmt.Errorf("click failed: %w (output: %q)", err, string(out))
		d.warnAccessibilityOnce(err)
		return err
	}
	return nil
}

func (d *darwinInjector) warnAccessibilityOnce(err error) {
	nowNS := time.Now().UnixNano()
	last := atomic.LoadInt64(&d.lastPermWarnNS)
	if last != 0 && time.Duration(nowNS-last) < permissionWarnEvery {
		return
	}
	atomic.StoreInt64(&d.lastPermWarnNS, nowNS)

	log.Printf(
		"darwin: synthetic input blocked or failed (%v). Enable Accessibility for the terminal running sentinel in System Settings, Privacy and Security, Accessibility.",
		err,
	)
}

type darwinWindow struct{}

// terminalApp maps TERM_PROGRAM to the application name AppleScript activates.
func terminalApp() string {
	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app":
		return "iTerm"
	case "Apple_Terminal", "":
		return "Terminal"
	case "WezTerm":
		return "WezTerm"
	default:
		return strings.TrimSuffix(os.Getenv("TERM_PROGRAM"), ".app")
	}
}

func (darwinWindow) BringSelfToForeground() error {
	script := fmt.Sprintf("Application(%q).activate();", terminalApp())
	if out, err := runJXAScript(script); err != nil {
		return fmt.Errorf("activate %s: %w (output: %q)", terminalApp(), err, string(out))
	}
	return nil
}

func (darwinWindow) MinimizeAllWindows() error {
	script := `
var se = Application("System Events");
var procs = se.applicationProcesses.whose({visible: true, backgroundOnly: false});
for (var i = 0; i < procs.length; i++) {
	if (procs[i].name() !== "Finder") { procs[i].visible = false; }
}
`
	if out, err := runJXAScript(script); err != nil {
		return fmt.Errorf("hide applications: %w (output: %q)", err, string(out))
	}
	return nil
}

// RequestScreenWake asserts user activity for one second, which wakes the display.
func (darwinWindow) RequestScreenWake() error {
	if !hasCommand("caffeinate") {
		return fmt.Errorf("caffeinate not found")
	}
	runBestEffort("caffeinate", "-u", "-t", "1")
	return nil
}

// screenLocked reads CGSSessionScreenIsLocked from the console user registry entry.
func screenLocked() (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "ioreg", "-n", "Root", "-d1").Output()
	if err != nil {
		return false, fmt.Errorf("ioreg: %w", err)
	}
	return strings.Contains(string(out), `"CGSSessionScreenIsLocked"=Yes`), nil
}

// New returns the macOS platform.
func New() (*Platform, error) {
	if !hasCommand("osascript") {
		return nil, fmt.Errorf("osascript not found: %w", ErrUnsupportedPlatform)
	}
	return &Platform{
		Name:     "darwin",
		Hooks:    newSystemIdleHooks(),
		Injector: &darwinInjector{},
		Window:   darwinWindow{},
		Notifiers: []Notifier{
			NewSleepDetector(),
			NewLockPoller("darwin", screenLocked, SessionPollInterval),
		},
	}, nil
}
