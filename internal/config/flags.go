package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/stigoleg/silent-sentinel/internal/keepalive"
	"github.com/stigoleg/silent-sentinel/internal/ui"
)

// Config is the resolved runtime configuration.
type Config struct {
	Engine      keepalive.PathConfig
	Headless    bool
	LogFile     string
	ConfigPath  string
	ShowVersion bool
	InitConfig  bool
}

// FlagDoc describes one command-line flag for help and generated docs.
type FlagDoc struct {
	Short string
	Long  string
	Arg   string
	Desc  string
}

// Flags lists every flag Parse accepts.
var Flags = []FlagDoc{
	{Short: "-c", Long: "--config", Arg: "<path>", Desc: "YAML config file"},
	{Long: "--center", Arg: "<X,Y>", Desc: "Circle center in screen pixels"},
	{Long: "--radius", Arg: "<int>", Desc: "Circle radius in pixels"},
	{Long: "--step", Arg: "<int>", Desc: "Degrees advanced per click"},
	{Long: "--tick", Arg: "<duration>", Desc: "Time between synthetic clicks"},
	{Long: "--idle-check", Arg: "<duration>", Desc: "Time between inactivity checks"},
	{Long: "--idle-threshold", Arg: "<duration>", Desc: "Inactivity before resuming"},
	{Long: "--focus-grace", Arg: "<duration>", Desc: "Focus loss ignored after a click"},
	{Long: "--headless", Desc: "Run without the TUI until interrupted"},
	{Long: "--log", Arg: "<path>", Desc: "Log file for TUI mode"},
	{Long: "--init-config", Desc: "Write the effective config and exit"},
	{Short: "-v", Long: "--version", Desc: "Show version information"},
	{Short: "-h", Long: "--help", Desc: "Show help message"},
}

func formatError(err error) string {
	msg := err.Error()
	if strings.Contains(msg, "Invalid duration format:") {
		parts := strings.SplitN(msg, "\n\n", 2)
		if len(parts) == 2 {
			errorBox := ui.Current.Help.
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#FF4040"))

			header := lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FF4040")).
				Render(parts[0])

			details := lipgloss.NewStyle().
				Foreground(lipgloss.Color("#999999")).
				Render(parts[1])

			return errorBox.Render(fmt.Sprintf("%s\n\n%s", header, details))
		}
	}
	return ui.Current.Error.Render(msg)
}

// Parse resolves the configuration from args. The config file is read first
// and flags given on the command line override it.
func Parse(args []string) (*Config, error) {
	flags := flag.NewFlagSet("sentinel", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	configPath := flags.String("config", "", "YAML config file")
	flags.StringVar(configPath, "c", "", "YAML config file")
	center := flags.String("center", "", "Circle center X,Y")
	radius := flags.Int("radius", 0, "Circle radius in pixels")
	step := flags.Int("step", 0, "Degrees advanced per click")
	tick := flags.String("tick", "", "Time between synthetic clicks")
	idleCheck := flags.String("idle-check", "", "Time between inactivity checks")
	idleThreshold := flags.String("idle-threshold", "", "Inactivity before resuming")
	focusGrace := flags.String("focus-grace", "", "Focus loss ignored after a click")
	headless := flags.Bool("headless", false, "Run without the TUI")
	logFile := flags.String("log", "", "Log file for TUI mode")
	initConfig := flags.Bool("init-config", false, "Write the effective config and exit")
	showVersion := flags.Bool("version", false, "Show version information")
	flags.BoolVar(showVersion, "v", false, "Show version information")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if flags.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument %q", flags.Arg(0))
	}

	cfg := &Config{ShowVersion: *showVersion, InitConfig: *initConfig}
	if cfg.ShowVersion {
		return cfg, nil
	}

	explicitPath := *configPath != ""
	cfg.ConfigPath = *configPath
	if !explicitPath {
		cfg.ConfigPath = DefaultPath()
	}

	file, err := LoadFile(cfg.ConfigPath, explicitPath)
	if err != nil {
		return nil, err
	}

	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "center":
			file.Center = *center
		case "radius":
			file.Radius = *radius
		case "step":
			file.Step = *step
		case "tick":
			file.Tick = *tick
		case "idle-check":
			file.IdleCheck = *idleCheck
		case "idle-threshold":
			file.IdleThreshold = *idleThreshold
		case "focus-grace":
			file.FocusGrace = *focusGrace
		case "headless":
			file.Headless = *headless
		case "log":
			file.LogFile = *logFile
		}
	})

	cfg.Engine, err = file.PathConfig()
	if err != nil {
		return nil, err
	}
	cfg.Headless = file.Headless
	cfg.LogFile = file.LogFile
	return cfg, nil
}

// ParseFlags parses os.Args. Help, version and invalid input are handled
// here and end the process.
func ParseFlags(version string) (*Config, error) {
	cfg, err := Parse(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Println(ui.Current.Help.Render(Usage()))
			os.Exit(0)
		}
		fmt.Println(formatError(err))
		os.Exit(1)
	}

	if cfg.ShowVersion {
		fmt.Printf("Silent Sentinel Version: %s\n", version)
		os.Exit(0)
	}

	if cfg.InitConfig {
		file := FileFrom(cfg.Engine, cfg.Headless, cfg.LogFile)
		if err := file.Save(cfg.ConfigPath); err != nil {
			fmt.Println(formatError(err))
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", cfg.ConfigPath)
		os.Exit(0)
	}

	return cfg, nil
}
