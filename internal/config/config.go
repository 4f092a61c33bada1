// Package config loads talkbox settings from a YAML file with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// RevealConfig controls the typewriter effect.
type RevealConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// KeysConfig lists key names (as reported by the terminal UI) per action.
type KeysConfig struct {
	Confirm []string `yaml:"confirm"`
	Toggle  []string `yaml:"toggle"`
	Quit    []string `yaml:"quit"`
}

// BoxConfig controls the dialogue box layout.
type BoxConfig struct {
	// WidthPct is the box width as a percentage of the window width.
	WidthPct int `yaml:"width_pct"`
}

// LoggingConfig mirrors log.Options.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Config is the user-editable configuration.
type Config struct {
	Reveal  RevealConfig  `yaml:"reveal"`
	Keys    KeysConfig    `yaml:"keys"`
	Box     BoxConfig     `yaml:"box"`
	Logging LoggingConfig `yaml:"logging"`
}

// Env var names used as overrides.
const (
	EnvIntervalMs = "TALKBOX_INTERVAL_MS"
	EnvLogLevel   = "TALKBOX_LOG_LEVEL"
	EnvLogFormat  = "TALKBOX_LOG_FORMAT"
	EnvLogFile    = "TALKBOX_LOG_FILE"
)

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Reveal: RevealConfig{IntervalMs: 50},
		Keys: KeysConfig{
			Confirm: []string{"enter", " ", "z"},
			Toggle:  []string{"tab"},
			Quit:    []string{"q", "esc", "ctrl+c"},
		},
		Box:     BoxConfig{WidthPct: 75},
		Logging: LoggingConfig{Level: "info", Format: "text", File: filepath.Join(StateDir(), "talkbox.log")},
	}
}

// Interval returns the reveal interval as a duration.
func (c Config) Interval() time.Duration {
	if c.Reveal.IntervalMs <= 0 {
		return time.Duration(Defaults().Reveal.IntervalMs) * time.Millisecond
	}
	return time.Duration(c.Reveal.IntervalMs) * time.Millisecond
}

// ConfigDir returns XDG_CONFIG_HOME/talkbox or ~/.config/talkbox.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "talkbox")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "talkbox")
}

// StateDir returns XDG_STATE_HOME/talkbox or ~/.local/state/talkbox.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "talkbox")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "talkbox")
}

// DefaultPath returns the per-user config file path.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Load reads the config file at path (DefaultPath when empty), fills in
// defaults, and applies environment overrides. A missing file is not an
// error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, err
	default:
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func mergeInto(dst, src *Config) {
	if src.Reveal.IntervalMs > 0 {
		dst.Reveal.IntervalMs = src.Reveal.IntervalMs
	}
	if len(src.Keys.Confirm) > 0 {
		dst.Keys.Confirm = src.Keys.Confirm
	}
	if len(src.Keys.Toggle) > 0 {
		dst.Keys.Toggle = src.Keys.Toggle
	}
	if len(src.Keys.Quit) > 0 {
		dst.Keys.Quit = src.Keys.Quit
	}
	if src.Box.WidthPct > 0 && src.Box.WidthPct <= 100 {
		dst.Box.WidthPct = src.Box.WidthPct
	}
	if v := strings.TrimSpace(src.Logging.Level); v != "" {
		dst.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Logging.Format); v != "" {
		dst.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Logging.File); v != "" {
		dst.Logging.File = v
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvIntervalMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Reveal.IntervalMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}
