//go:build linux

// Package linux drives pointer injection, window control and session queries
// through the desktop helper tools available on Linux.
package linux

import (
	"bufio"
	"os"
	"strings"
)

// Display server types.
const (
	DisplayServerWayland = "wayland"
	DisplayServerX11     = "x11"
	DisplayServerUnknown = "unknown"
)

// Desktop environment types.
const (
	DesktopCosmic  = "cosmic"
	DesktopGNOME   = "gnome"
	DesktopKDE     = "kde"
	DesktopXFCE    = "xfce"
	DesktopMATE    = "mate"
	DesktopUnknown = "unknown"
)

// Capabilities tracks the helper tools and session information the adapter relies on.
type Capabilities struct {
	XdotoolAvailable    bool
	YdotoolAvailable    bool
	WmctrlAvailable     bool
	XsetAvailable       bool
	DbusSendAvailable   bool
	LoginctlAvailable   bool
	XprintidleAvailable bool
	X11DisplaySet       bool
	DisplayServer       string
	DesktopEnvironment  string
}

// DetectCapabilities detects available tools and system configuration.
func DetectCapabilities() Capabilities {
	return Capabilities{
		XdotoolAvailable:    hasCommand("xdotool"),
		YdotoolAvailable:    hasCommand("ydotool"),
		WmctrlAvailable:     hasCommand("wmctrl"),
		XsetAvailable:       hasCommand("xset"),
		DbusSendAvailable:   hasCommand("dbus-send"),
		LoginctlAvailable:   hasCommand("loginctl"),
		XprintidleAvailable: hasCommand("xprintidle"),
		X11DisplaySet:       os.Getenv("DISPLAY") != "",
		DisplayServer:       DetectDisplayServer(),
		DesktopEnvironment:  DetectDesktopEnvironment(),
	}
}

// CanInject reports whether some tool can position the pointer and click.
func (c Capabilities) CanInject() bool {
	if c.DisplayServer == DisplayServerWayland {
		return c.YdotoolAvailable
	}
	return c.XdotoolAvailable || c.YdotoolAvailable
}

// DetectDesktopEnvironment detects the current desktop environment.
func DetectDesktopEnvironment() string {
	xdgDesktop := strings.ToLower(os.Getenv("XDG_CURRENT_DESKTOP"))
	desktopSession := strings.ToLower(os.Getenv("DESKTOP_SESSION"))

	// Check for Cosmic (Pop OS)
	if strings.Contains(xdgDesktop, DesktopCosmic) || strings.Contains(xdgDesktop, "pop") ||
		strings.Contains(desktopSession, DesktopCosmic) || strings.Contains(desktopSession, "pop") {
		return DesktopCosmic
	}

	// Check for GNOME
	if strings.Contains(xdgDesktop, DesktopGNOME) || strings.Contains(desktopSession, DesktopGNOME) {
		return DesktopGNOME
	}

	// Check for KDE
	if strings.Contains(xdgDesktop, DesktopKDE) || strings.Contains(desktopSession, DesktopKDE) ||
		strings.Contains(xdgDesktop, "plasma") {
		return DesktopKDE
	}

	// Check for XFCE
	if strings.Contains(xdgDesktop, DesktopXFCE) || strings.Contains(desktopSession, DesktopXFCE) {
		return DesktopXFCE
	}

	// Check for MATE
	if strings.Contains(xdgDesktop, DesktopMATE) || strings.Contains(desktopSession, DesktopMATE) {
		return DesktopMATE
	}

	return DesktopUnknown
}

// DetectDisplayServer detects whether running on Wayland or X11.
func DetectDisplayServer() string {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return DisplayServerWayland
	}
	if os.Getenv("XDG_SESSION_TYPE") == DisplayServerWayland {
		return DisplayServerWayland
	}
	if os.Getenv("DISPLAY") != "" {
		return DisplayServerX11
	}
	if os.Getenv("XDG_SESSION_TYPE") == DisplayServerX11 {
		return DisplayServerX11
	}
	return DisplayServerUnknown
}

// DistroInfo contains information about the detected Linux distribution.
type DistroInfo struct {
	Name       string
	PkgManager string
}

// DetectDistribution detects the Linux distribution and package manager.
func DetectDistribution() DistroInfo {
	file, err := os.Open("/etc/os-release")
	if err != nil {
		return DistroInfo{Name: "unknown", PkgManager: detectPackageManager()}
	}
	defer file.Close()

	var id, idLike string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "ID=") {
			id = strings.Trim(strings.TrimPrefix(line, "ID="), "\"")
		}
		if strings.HasPrefix(line, "ID_LIKE=") {
			idLike = strings.Trim(strings.TrimPrefix(line, "ID_LIKE="), "\"")
		}
	}

	distro := strings.ToLower(id)
	if distro == "" {
		distro = "unknown"
	}

	pkgManager := detectPackageManagerForDistro(distro, idLike)
	return DistroInfo{Name: distro, PkgManager: pkgManager}
}

func detectPackageManagerForDistro(distro, idLike string) string {
	switch {
	case distro == "debian" || distro == "ubuntu" || distro == "pop" ||
		strings.Contains(idLike, "debian") || strings.Contains(idLike, "ubuntu"):
		return "apt"
	case distro == "fedora" || distro == "rhel" || distro == "centos" ||
		strings.Contains(idLike, "fedora") || strings.Contains(idLike, "rhel"):
		if hasCommand("dnf") {
			return "dnf"
		}
		return "yum"
	case distro == "arch" || distro == "manjaro" || strings.Contains(idLike, "arch"):
		return "pacman"
	case distro == "opensuse" || distro == "opensuse-leap" || distro == "opensuse-tumbleweed" ||
		strings.Contains(idLike, "suse"):
		return "zypper"
	case distro == "alpine":
		return "apk"
	default:
		return detectPackageManager()
	}
}

func detectPackageManager() string {
	managers := []string{"apt", "dnf", "yum", "pacman", "zypper", "apk"}
	for _, m := range managers {
		if hasCommand(m) {
			return m
		}
	}
	return "unknown"
}
