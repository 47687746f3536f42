//go:build linux

package linux

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/screensaver"
	"github.com/BurntSushi/xgb/xproto"
)

// ErrNoIdleSource is returned when the session exposes no idle counter.
var ErrNoIdleSource = errors.New("no idle time source (need an X11 display, xprintidle, or GNOME's IdleMonitor)")

// Idle time sources, in order of preference.
const (
	idleX11Screensaver = "x11-screensaver"
	idleXprintidle     = "xprintidle"
	idleMutter         = "mutter"
)

// IdleSource reports how long the session has gone without user input.
type IdleSource struct {
	name  string
	query func() (time.Duration, error)
}

// Name returns the backend in use.
func (s *IdleSource) Name() string {
	return s.name
}

// IdleTime returns the time since the last user input.
func (s *IdleSource) IdleTime() (time.Duration, error) {
	return s.query()
}

// NewIdleSource opens the first idle counter that answers a query.
func NewIdleSource(caps Capabilities) (*IdleSource, error) {
	var errs []error
	for _, name := range idleCandidates(caps) {
		query, err := openIdle(name)
		if err == nil {
			_, err = query()
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		return &IdleSource{name: name, query: query}, nil
	}
	return nil, errors.Join(append([]error{ErrNoIdleSource}, errs...)...)
}

// idleCandidates orders the backends for a session. On Wayland the X11
// counter only sees XWayland clients, so it is never used there.
func idleCandidates(caps Capabilities) []string {
	var out []string
	if caps.DisplayServer != DisplayServerWayland {
		if caps.X11DisplaySet {
			out = append(out, idleX11Screensaver)
		}
		if caps.XprintidleAvailable {
			out = append(out, idleXprintidle)
		}
	}
	if caps.DbusSendAvailable && caps.DesktopEnvironment == DesktopGNOME {
		out = append(out, idleMutter)
	}
	return out
}

func openIdle(name string) (func() (time.Duration, error), error) {
	switch name {
	case idleX11Screensaver:
		x, err := dialX11Idle()
		if err != nil {
			return nil, err
		}
		return x.idle, nil
	case idleXprintidle:
		return func() (time.Duration, error) {
			out, err := runVerbose("xprintidle")
			if err != nil {
				return 0, fmt.Errorf("xprintidle: %w", err)
			}
			return parseMillis(out)
		}, nil
	case idleMutter:
		return func() (time.Duration, error) {
			out, err := runVerbose("dbus-send", "--session", "--print-reply",
				"--dest=org.gnome.Mutter.IdleMonitor",
				"/org/gnome/Mutter/IdleMonitor/Core",
				"org.gnome.Mutter.IdleMonitor.GetIdletime")
			if err != nil {
				return 0, fmt.Errorf("GetIdletime: %w", err)
			}
			return parseMutterIdletime(out)
		}, nil
	default:
		return nil, fmt.Errorf("unknown idle source %q", name)
	}
}

// x11Idle queries the MIT-SCREEN-SAVER extension over a long-lived connection.
type x11Idle struct {
	conn *xgb.Conn
	root xproto.Drawable
}

func dialX11Idle() (*x11Idle, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	if err := screensaver.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("screensaver extension: %w", err)
	}
	root := xproto.Setup(conn).DefaultScreen(conn).Root
	return &x11Idle{conn: conn, root: xproto.Drawable(root)}, nil
}

func (x *x11Idle) idle() (time.Duration, error) {
	info, err := screensaver.QueryInfo(x.conn, x.root).Reply()
	if err != nil {
		return 0, err
	}
	return time.Duration(info.MsSinceUserInput) * time.Millisecond, nil
}

func parseMillis(out string) (time.Duration, error) {
	ms, err := strconv.ParseInt(strings.TrimSpace(out), 10, 64)
	if err != nil || ms < 0 {
		return 0, fmt.Errorf("unexpected idle time %q", out)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// parseMutterIdletime extracts the value from dbus-send's "uint64 <ms>" reply line.
func parseMutterIdletime(out string) (time.Duration, error) {
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 && fields[0] == "uint64" {
			return parseMillis(fields[1])
		}
	}
	return 0, fmt.Errorf("no idle time in reply %q", out)
}
