package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config is the persistent application configuration
type Config struct {
	// External MPK codec
	Converter ConverterConfig `json:"converter"`

	// Operator defaults
	Import ImportConfig `json:"import"`
	Export ExportConfig `json:"export"`

	// UI Preferences
	UI UIConfig `json:"ui"`

	LogLevel string `json:"log_level"` // debug, info, warn, error
}

// ConverterConfig describes the external program that reads and writes MPK
type ConverterConfig struct {
	Command     string   `json:"command"`        // e.g., "pkmpk"
	Args        []string `json:"args,omitempty"` // prepended before the keyword flags
	TimeoutSec  int      `json:"timeout_sec"`    // per file
	Parallelism int      `json:"parallelism"`    // batch imports in flight
}

// Timeout returns the per-file timeout as a duration
func (c ConverterConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// ImportConfig holds import dialog defaults
type ImportConfig struct {
	UseLightmaps  bool `json:"use_lightmaps"`
	UseBlendmaps  bool `json:"use_blendmaps"`
	RemoveDoubles bool `json:"remove_doubles"`
}

// ExportConfig holds export dialog defaults. The strategy and scope groups
// always start from their fixed defaults and are never stored here.
type ExportConfig struct {
	AxisForward   string `json:"axis_forward"`
	AxisUp        string `json:"axis_up"`
	CheckExisting bool   `json:"check_existing"`
}

// UIConfig holds UI preferences
type UIConfig struct {
	Theme     string `json:"theme"`
	ShowDebug bool   `json:"show_debug"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Converter: ConverterConfig{
			Command:     "pkmpk",
			TimeoutSec:  120,
			Parallelism: 4,
		},
		Import: ImportConfig{
			UseLightmaps:  true,
			UseBlendmaps:  true,
			RemoveDoubles: false,
		},
		Export: ExportConfig{
			AxisForward:   "Y",
			AxisUp:        "Z",
			CheckExisting: true,
		},
		UI: UIConfig{
			Theme: "dark",
		},
		LogLevel: "info",
	}
}

// DataDir returns ~/.mpkio
func DataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".mpkio")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.json")
}

// Load reads config from disk, or returns defaults
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads config from path. A missing file yields defaults with
// environment overrides; an unreadable one yields plain defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.AutoPopulateFromEnv()
			return cfg, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), nil
	}
	cfg.AutoPopulateFromEnv()

	return cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes config to path
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// AutoPopulateFromEnv applies MPKIO_* environment overrides
func (c *Config) AutoPopulateFromEnv() {
	if cmd := strings.TrimSpace(os.Getenv("MPKIO_CONVERTER")); cmd != "" {
		c.Converter.Command = cmd
	}
	if lvl := strings.TrimSpace(os.Getenv("MPKIO_LOG_LEVEL")); lvl != "" {
		c.LogLevel = strings.ToLower(lvl)
	}
}

// Validate checks values a user may have typed into the file
func (c *Config) Validate() error {
	var errs []error
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q: want debug, info, warn or error", c.LogLevel))
	}
	if c.Converter.TimeoutSec < 0 {
		errs = append(errs, fmt.Errorf("converter.timeout_sec must not be negative"))
	}
	if c.Converter.Parallelism < 1 {
		errs = append(errs, fmt.Errorf("converter.parallelism must be at least 1"))
	}
	if c.Export.AxisForward == "" || c.Export.AxisUp == "" {
		errs = append(errs, fmt.Errorf("export axes must be set"))
	}
	return errors.Join(errs...)
}
