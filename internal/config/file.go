package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stigoleg/silent-sentinel/internal/keepalive"
	"github.com/stigoleg/silent-sentinel/internal/platform/patterns"
	"github.com/stigoleg/silent-sentinel/internal/util"
)

// File is the on-disk configuration. Durations are kept as strings so the
// file accepts the same formats as the command line.
type File struct {
	Center        string `yaml:"center"`
	Radius        int    `yaml:"radius"`
	Step          int    `yaml:"step"`
	Tick          string `yaml:"tick"`
	IdleCheck     string `yaml:"idle_check"`
	IdleThreshold string `yaml:"idle_threshold"`
	FocusGrace    string `yaml:"focus_grace"`
	Headless      bool   `yaml:"headless"`
	LogFile       string `yaml:"log_file,omitempty"`
}

// DefaultPath returns ~/.config/sentinel/config.yaml, or an empty string when
// the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "sentinel", "config.yaml")
}

// DefaultFile returns a file holding the stock engine settings.
func DefaultFile() *File {
	return FileFrom(keepalive.DefaultPathConfig(), false, "")
}

// FileFrom renders an engine configuration in file form.
func FileFrom(cfg keepalive.PathConfig, headless bool, logFile string) *File {
	return &File{
		Center:        formatPoint(cfg.Center),
		Radius:        cfg.Radius,
		Step:          cfg.Step,
		Tick:          cfg.TickInterval.String(),
		IdleCheck:     cfg.IdleCheckInterval.String(),
		IdleThreshold: cfg.IdleThreshold.String(),
		FocusGrace:    cfg.SelfFocusGrace.String(),
		Headless:      headless,
		LogFile:       logFile,
	}
}

// LoadFile reads path over the defaults. A missing file yields the defaults
// unless required is set.
func LoadFile(path string, required bool) (*File, error) {
	f := DefaultFile()
	if path == "" {
		return f, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return f, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	f.LogFile = expandTilde(f.LogFile)
	return f, nil
}

// Save writes the file to path, creating its directory.
func (f *File) Save(path string) error {
	if path == "" {
		return errors.New("save config: no path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// PathConfig converts the file into a validated engine configuration.
func (f *File) PathConfig() (keepalive.PathConfig, error) {
	cfg := keepalive.DefaultPathConfig()

	center, err := parsePoint(f.Center)
	if err != nil {
		return cfg, err
	}
	cfg.Center = center
	cfg.Radius = f.Radius
	cfg.Step = f.Step

	durations := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"tick", f.Tick, &cfg.TickInterval},
		{"idle-check", f.IdleCheck, &cfg.IdleCheckInterval},
		{"idle-threshold", f.IdleThreshold, &cfg.IdleThreshold},
		{"focus-grace", f.FocusGrace, &cfg.SelfFocusGrace},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		parsed, err := util.ParseDuration(d.value)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", d.name, err)
		}
		*d.dst = parsed
	}

	return cfg, cfg.Validate()
}

func parsePoint(s string) (patterns.Point, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return patterns.Point{}, fmt.Errorf("center %q: want X,Y", s)
	}
	x, errX := strconv.Atoi(strings.TrimSpace(xs))
	y, errY := strconv.Atoi(strings.TrimSpace(ys))
	if errX != nil || errY != nil {
		return patterns.Point{}, fmt.Errorf("center %q: coordinates must be integers", s)
	}
	return patterns.Point{X: x, Y: y}, nil
}

func formatPoint(p patterns.Point) string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

func expandTilde(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
