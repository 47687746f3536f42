//go:build linux

package linux

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// ErrNoInjector is returned when neither xdotool nor ydotool can be used.
var ErrNoInjector = errors.New("no pointer injection tool available (install xdotool on X11 or ydotool on Wayland)")

// errNotOnWayland is returned by window operations that only exist under X11.
var errNotOnWayland = errors.New("window control is not available on Wayland")

// Injector positions the pointer and clicks through a command-line tool.
type Injector struct {
	tool string
}

// NewInjector picks the injection tool for the current display server.
// ydotool is preferred on Wayland, xdotool everywhere else.
func NewInjector(caps Capabilities) (*Injector, error) {
	switch {
	case caps.DisplayServer == DisplayServerWayland && caps.YdotoolAvailable:
		return &Injector{tool: "ydotool"}, nil
	case caps.DisplayServer != DisplayServerWayland && caps.XdotoolAvailable:
		return &Injector{tool: "xdotool"}, nil
	case caps.YdotoolAvailable:
		return &Injector{tool: "ydotool"}, nil
	default:
		return nil, ErrNoInjector
	}
}

// Name returns the tool used for injection.
func (i *Injector) Name() string {
	return i.tool
}

// SetCursorPosition moves the pointer to absolute screen coordinates.
func (i *Injector) SetCursorPosition(x, y int) error {
	out, err := runVerbose(i.tool, moveArgs(i.tool, x, y)...)
	if err != nil {
		return fmt.Errorf("%s mousemove: %w (output: %q)", i.tool, err, out)
	}
	return nil
}

// InjectClick presses and releases the left button at the current position.
func (i *Injector) InjectClick() error {
	out, err := runVerbose(i.tool, clickArgs(i.tool)...)
	if err != nil {
		return fmt.Errorf("%s click: %w (output: %q)", i.tool, err, out)
	}
	return nil
}

func moveArgs(tool string, x, y int) []string {
	if tool == "ydotool" {
		return []string{"mousemove", "--absolute", "-x", strconv.Itoa(x), "-y", strconv.Itoa(y)}
	}
	return []string{"mousemove", "--sync", strconv.Itoa(x), strconv.Itoa(y)}
}

func clickArgs(tool string) []string {
	if tool == "ydotool" {
		// 0xC0: left button down then up
		return []string{"click", "0xC0"}
	}
	return []string{"click", "1"}
}

// Window implements foreground control and screen wake for X11 sessions, and
// screen wake alone on Wayland.
type Window struct {
	caps Capabilities
}

// NewWindow creates window control for the detected session.
func NewWindow(caps Capabilities) *Window {
	return &Window{caps: caps}
}

// BringSelfToForeground activates the terminal window hosting the process.
// Terminal emulators on X11 export it as WINDOWID.
func (w *Window) BringSelfToForeground() error {
	if w.caps.DisplayServer == DisplayServerWayland {
		return errNotOnWayland
	}
	id := os.Getenv("WINDOWID")
	if id == "" {
		return errors.New("WINDOWID is not set; cannot locate the terminal window")
	}
	if !w.caps.XdotoolAvailable {
		return errors.New("xdotool not found")
	}
	if out, err := runVerbose("xdotool", "windowactivate", id); err != nil {
		return fmt.Errorf("xdotool windowactivate: %w (output: %q)", err, out)
	}
	return nil
}

// MinimizeAllWindows shows the desktop.
func (w *Window) MinimizeAllWindows() error {
	if w.caps.DisplayServer == DisplayServerWayland {
		return errNotOnWayland
	}
	switch {
	case w.caps.WmctrlAvailable:
		if out, err := runVerbose("wmctrl", "-k", "on"); err != nil {
			return fmt.Errorf("wmctrl -k on: %w (output: %q)", err, out)
		}
	case w.caps.XdotoolAvailable:
		if out, err := runVerbose("xdotool", "key", "super+d"); err != nil {
			return fmt.Errorf("xdotool key super+d: %w (output: %q)", err, out)
		}
	default:
		return errors.New("neither wmctrl nor xdotool found")
	}
	return nil
}

// RequestScreenWake asks the screensaver to treat the session as active.
func (w *Window) RequestScreenWake() error {
	SimulateSystemActivity(w.caps)
	return nil
}

// SimulateSystemActivity uses DBus to simulate user activity.
func SimulateSystemActivity(caps Capabilities) {
	if caps.DbusSendAvailable {
		runBestEffort("dbus-send", "--session", "--dest=org.freedesktop.ScreenSaver", "/org/freedesktop/ScreenSaver", "org.freedesktop.ScreenSaver.SimulateUserActivity")
		if caps.DesktopEnvironment == DesktopGNOME || caps.DesktopEnvironment == DesktopCosmic {
			runBestEffort("dbus-send", "--session", "--dest=org.gnome.ScreenSaver", "/org/gnome/ScreenSaver", "org.gnome.ScreenSaver.SimulateUserActivity")
		}
	}
	if caps.DisplayServer == DisplayServerX11 && caps.XsetAvailable {
		runBestEffort("xset", "s", "reset")
		runBestEffort("xset", "dpms", "force", "on")
	}
}
