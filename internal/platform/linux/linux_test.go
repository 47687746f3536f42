//go:build linux

package linux

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInjectorChoosesTool(t *testing.T) {
	tests := []struct {
		name    string
		caps    Capabilities
		want    string
		wantErr bool
	}{
		{name: "x11 with xdotool", caps: Capabilities{DisplayServer: DisplayServerX11, XdotoolAvailable: true, YdotoolAvailable: true}, want: "xdotool"},
		{name: "wayland with ydotool", caps: Capabilities{DisplayServer: DisplayServerWayland, XdotoolAvailable: true, YdotoolAvailable: true}, want: "ydotool"},
		{name: "x11 with only ydotool", caps: Capabilities{DisplayServer: DisplayServerX11, YdotoolAvailable: true}, want: "ydotool"},
		{name: "wayland with only xdotool", caps: Capabilities{DisplayServer: DisplayServerWayland, XdotoolAvailable: true}, wantErr: true},
		{name: "nothing installed", caps: Capabilities{DisplayServer: DisplayServerUnknown}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inj, err := NewInjector(tt.caps)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoInjector)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, inj.Name())
		})
	}
}

func TestInjectionArgs(t *testing.T) {
	assert.Equal(t, []string{"mousemove", "--sync", "1300", "250"}, moveArgs("xdotool", 1300, 250))
	assert.Equal(t, []string{"mousemove", "--absolute", "-x", "1300", "-y", "250"}, moveArgs("ydotool", 1300, 250))
	assert.Equal(t, []string{"click", "1"}, clickArgs("xdotool"))
	assert.Equal(t, []string{"click", "0xC0"}, clickArgs("ydotool"))
}

func TestParseLockedHint(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{in: "yes", want: true},
		{in: "no\n", want: false},
		{in: "true", want: true},
		{in: "", wantErr: true},
		{in: "maybe", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseLockedHint(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestWindowOnWayland(t *testing.T) {
	w := NewWindow(Capabilities{DisplayServer: DisplayServerWayland})
	assert.ErrorIs(t, w.MinimizeAllWindows(), errNotOnWayland)
	assert.ErrorIs(t, w.BringSelfToForeground(), errNotOnWayland)
}

func TestCheckMissingDependencies(t *testing.T) {
	distro := DistroInfo{Name: "debian", PkgManager: "apt"}

	missing := CheckMissingDependencies(Capabilities{DisplayServer: DisplayServerX11}, distro)
	require.NotEmpty(t, missing)
	assert.Equal(t, "xdotool", missing[0].Name)
	assert.True(t, missing[0].Required)
	assert.Equal(t, "sudo apt update && sudo apt install xdotool", missing[0].InstallCmd)

	full := Capabilities{
		DisplayServer:     DisplayServerX11,
		XdotoolAvailable:  true,
		LoginctlAvailable: true,
		DbusSendAvailable: true,
		X11DisplaySet:     true,
	}
	assert.Empty(t, CheckMissingDependencies(full, distro))

	full.X11DisplaySet = false
	missing = CheckMissingDependencies(full, distro)
	require.Len(t, missing, 1)
	assert.Equal(t, "xprintidle", missing[0].Name)
	assert.False(t, missing[0].Required)
	assert.Empty(t, FormatDependencyMessages(nil))
}

func TestGenerateInstallCommand(t *testing.T) {
	cmd, _ := GenerateInstallCommand("loginctl", DistroInfo{PkgManager: "pacman"})
	assert.Equal(t, "sudo pacman -S systemd", cmd)

	_, note := GenerateInstallCommand("ydotool", DistroInfo{PkgManager: "dnf"})
	assert.Contains(t, note, "ydotoold")
}

func TestDetectDisplayServer(t *testing.T) {
	t.Setenv("WAYLAND_DISPLAY", "")
	t.Setenv("XDG_SESSION_TYPE", "")
	t.Setenv("DISPLAY", ":0")
	assert.Equal(t, DisplayServerX11, DetectDisplayServer())

	t.Setenv("WAYLAND_DISPLAY", "wayland-0")
	assert.Equal(t, DisplayServerWayland, DetectDisplayServer())
}

func TestIdleCandidates(t *testing.T) {
	tests := []struct {
		name string
		caps Capabilities
		want []string
	}{
		{
			name: "x11 with display and xprintidle",
			caps: Capabilities{DisplayServer: DisplayServerX11, X11DisplaySet: true, XprintidleAvailable: true},
			want: []string{idleX11Screensaver, idleXprintidle},
		},
		{
			name: "x11 gnome falls back to mutter",
			caps: Capabilities{DisplayServer: DisplayServerX11, X11DisplaySet: true, DbusSendAvailable: true, DesktopEnvironment: DesktopGNOME},
			want: []string{idleX11Screensaver, idleMutter},
		},
		{
			name: "wayland ignores the x11 counter",
			caps: Capabilities{DisplayServer: DisplayServerWayland, X11DisplaySet: true, XprintidleAvailable: true, DbusSendAvailable: true, DesktopEnvironment: DesktopGNOME},
			want: []string{idleMutter},
		},
		{
			name: "wayland kde has no source",
			caps: Capabilities{DisplayServer: DisplayServerWayland, DbusSendAvailable: true, DesktopEnvironment: DesktopKDE},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, idleCandidates(tt.caps))
		})
	}
}

func TestNewIdleSourceWithoutCandidates(t *testing.T) {
	_, err := NewIdleSource(Capabilities{DisplayServer: DisplayServerWayland})
	assert.ErrorIs(t, err, ErrNoIdleSource)
}

func TestParseMillis(t *testing.T) {
	d, err := parseMillis("1500\n")
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d)

	_, err = parseMillis("")
	assert.Error(t, err)
	_, err = parseMillis("-3")
	assert.Error(t, err)
}

func TestParseMutterIdletime(t *testing.T) {
	reply := "method return time=1700000000.1 sender=:1.10 -> destination=:1.99 serial=42 reply_serial=2\n   uint64 61234\n"
	d, err := parseMutterIdletime(reply)
	require.NoError(t, err)
	assert.Equal(t, 61234*time.Millisecond, d)

	_, err = parseMutterIdletime("Error org.freedesktop.DBus.Error.ServiceUnknown")
	assert.Error(t, err)
}
