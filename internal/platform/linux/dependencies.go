//go:build linux

package linux

import (
	"fmt"
	"log"
	"strings"
)

// DependencyInfo contains information about a missing dependency and how to install it.
type DependencyInfo struct {
	Name       string
	WhyNeeded  string
	InstallCmd string
	Note       string
	Required   bool
}

// GenerateInstallCommand generates a distro-specific installation command for the given tool.
func GenerateInstallCommand(tool string, distro DistroInfo) (cmd string, note string) {
	if tool == "" {
		return "", "Tool name is required"
	}

	pkgName := packageName(tool)
	switch distro.PkgManager {
	case "apt":
		cmd = fmt.Sprintf("sudo apt update && sudo apt install %s", pkgName)
	case "dnf", "yum":
		cmd = fmt.Sprintf("sudo %s install %s", distro.PkgManager, pkgName)
	case "pacman":
		cmd = fmt.Sprintf("sudo pacman -S %s", pkgName)
	case "zypper":
		cmd = fmt.Sprintf("sudo zypper install %s", pkgName)
	case "apk":
		cmd = fmt.Sprintf("sudo apk add %s", pkgName)
	default:
		cmd = fmt.Sprintf("Install %s using your distribution's package manager", pkgName)
		note = fmt.Sprintf("Package name: %s. Check your distribution's repositories.", pkgName)
	}

	if tool == "ydotool" {
		note = "ydotool needs the ydotoold daemon running with access to /dev/uinput."
	}
	return cmd, note
}

func packageName(tool string) string {
	switch tool {
	case "loginctl":
		return "systemd"
	case "dbus-send":
		return "dbus"
	default:
		return tool
	}
}

// CheckMissingDependencies lists the tools the detected session lacks.
func CheckMissingDependencies(caps Capabilities, distro DistroInfo) []DependencyInfo {
	var missing []DependencyInfo
	add := func(tool, why string, required bool) {
		cmd, note := GenerateInstallCommand(tool, distro)
		missing = append(missing, DependencyInfo{
			Name:       tool,
			WhyNeeded:  why,
			InstallCmd: cmd,
			Note:       note,
			Required:   required,
		})
	}

	if !caps.CanInject() {
		if caps.DisplayServer == DisplayServerWayland {
			add("ydotool", "Moves the pointer and clicks on Wayland", true)
		} else {
			add("xdotool", "Moves the pointer and clicks on X11", true)
		}
	}
	if caps.DisplayServer == DisplayServerX11 && !caps.WmctrlAvailable && !caps.XdotoolAvailable {
		add("wmctrl", "Shows the desktop before resuming after idle", false)
	}
	if !caps.LoginctlAvailable {
		add("loginctl", "Detects session lock and unlock", false)
	}
	if !caps.DbusSendAvailable {
		add("dbus-send", "Wakes the screen through the screensaver service", false)
	}
	if caps.DisplayServer == DisplayServerX11 && !caps.X11DisplaySet && !caps.XprintidleAvailable {
		add("xprintidle", "Detects when you return to the keyboard", false)
	}

	return missing
}

// FormatDependencyMessages formats dependency information into user-friendly messages.
func FormatDependencyMessages(missing []DependencyInfo) string {
	if len(missing) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Missing dependencies detected:\n")
	for i, dep := range missing {
		kind := "optional"
		if dep.Required {
			kind = "required"
		}
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, dep.Name, kind)
		fmt.Fprintf(&b, "   Why needed: %s\n", dep.WhyNeeded)
		fmt.Fprintf(&b, "   Install with: %s\n", dep.InstallCmd)
		if dep.Note != "" {
			fmt.Fprintf(&b, "   Note: %s\n", dep.Note)
		}
	}
	return b.String()
}

// LogMissingDependencies logs install hints for every missing tool and
// returns the formatted message.
func LogMissingDependencies(caps Capabilities) string {
	missing := CheckMissingDependencies(caps, DetectDistribution())
	msg := FormatDependencyMessages(missing)
	if msg != "" {
		log.Printf("linux: %s", msg)
	}
	return msg
}
