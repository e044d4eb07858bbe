package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/JPM1118/flick/internal/frames"
	"github.com/JPM1118/flick/internal/playback"
	"github.com/JPM1118/flick/internal/style"
	"gopkg.in/yaml.v3"
)

// Limits enforced by validate.
const (
	MaxFrames      = 256
	MaxFPS         = 120
	MinSurfaceSide = 16
	MaxSurfaceSide = 512
	MinRefresh     = 4 * time.Millisecond
	MaxRefresh     = time.Second
)

// Config holds all configuration for flick.
type Config struct {
	Playback PlaybackConfig    `yaml:"playback"`
	Surface  SurfaceConfig     `yaml:"surface"`
	Styles   map[string]string `yaml:"styles"`
	Logging  LoggingConfig     `yaml:"logging"`
}

// PlaybackConfig controls the frame sequence and its pacing.
type PlaybackConfig struct {
	Frames          int            `yaml:"frames"`
	FPS             float64        `yaml:"fps"`
	Style           string         `yaml:"style"`
	RefreshInterval Duration       `yaml:"refresh_interval"`
	Offsets         []frames.Frame `yaml:"offsets"`
}

// SurfaceConfig sets the drawing surface size in pixels.
type SurfaceConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Duration wraps time.Duration for YAML unmarshalling from strings like "16ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Playback: PlaybackConfig{
			Frames:          4,
			FPS:             8,
			Style:           style.None,
			RefreshInterval: Duration{16 * time.Millisecond},
		},
		Surface: SurfaceConfig{
			Width:  96,
			Height: 64,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the config file and merges with defaults.
// Missing file is not an error; defaults are used silently.
func Load() (Config, error) {
	return LoadFrom(configPath())
}

// LoadFrom reads config from a specific path.
func LoadFrom(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Defaults(), fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Defaults(), fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Validate checks every field against its allowed range. It is exported so
// command-line overrides can be checked after they are applied.
func (c Config) Validate() error {
	p := c.Playback
	if p.Frames < 1 || p.Frames > MaxFrames {
		return fmt.Errorf("frames must be between 1 and %d, got %d", MaxFrames, p.Frames)
	}
	if _, err := playback.FrameDuration(p.FPS); err != nil || p.FPS > MaxFPS {
		return fmt.Errorf("fps must be in (0, %d], got %v", MaxFPS, p.FPS)
	}
	ri := p.RefreshInterval.Duration
	if ri < MinRefresh || ri > MaxRefresh {
		return fmt.Errorf("refresh_interval must be between %s and %s, got %s", MinRefresh, MaxRefresh, ri)
	}
	if len(p.Offsets) > p.Frames {
		return fmt.Errorf("offsets lists %d frames but frames is %d", len(p.Offsets), p.Frames)
	}

	s := c.Surface
	if s.Width < MinSurfaceSide || s.Width > MaxSurfaceSide || s.Height < MinSurfaceSide || s.Height > MaxSurfaceSide {
		return fmt.Errorf("surface must be between %dx%d and %dx%d, got %dx%d",
			MinSurfaceSide, MinSurfaceSide, MaxSurfaceSide, MaxSurfaceSide, s.Width, s.Height)
	}

	if _, err := style.NewRegistry(c.Styles); err != nil {
		return err
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

// StyleRegistry builds the style registry for the configured custom presets.
func (c Config) StyleRegistry() (*style.Registry, error) {
	return style.NewRegistry(c.Styles)
}

func configPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "flick", "config.yml")
}
