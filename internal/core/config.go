// internal/core/config.go
// Configuration management using Koanf

package core

import (
	"fmt"
	"net/netip"
	"os"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap/zapcore"

	"github.com/aspnmy/stripescan/internal/models"
)

// EnvPrefix prefixes every environment override, e.g. STRIPESCAN_LOG_LEVEL
const EnvPrefix = "STRIPESCAN_"

// ConfigEnv names the variable holding an optional YAML config path
const ConfigEnv = EnvPrefix + "CONFIG"

// Config represents the complete application configuration
type Config struct {
	Scanner ScannerConfig `koanf:"scanner"`
	Output  OutputConfig  `koanf:"output"`
	Log     LogConfig     `koanf:"log"`
}

// ScannerConfig contains scanner-specific settings
type ScannerConfig struct {
	Engine  string `koanf:"engine"`
	Target  string `koanf:"target"`
	Workers int    `koanf:"workers"`
}

// OutputConfig contains report settings
type OutputConfig struct {
	Format string `koanf:"format"` // plain, table, json
	Color  string `koanf:"color"`  // auto, always, never
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json, console
	File   string `koanf:"file"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Scanner: ScannerConfig{
			Engine:  "connect",
			Workers: int(models.DefaultWorkers),
		},
		Output: OutputConfig{
			Format: "plain",
			Color:  "auto",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Loader loads configuration in order: defaults, file, env, overrides.
type Loader struct {
	// Path is an optional YAML file; a missing or broken file is reported
	// through Warnings and otherwise ignored.
	Path string

	// Engines lists valid scanner.engine values; nil skips the check.
	Engines []string

	// Warnings collects non-fatal problems met while loading.
	Warnings []string
}

// Load resolves the configuration. overrides are flat koanf keys such as
// "scanner.workers" and take precedence over everything else.
func (l *Loader) Load(overrides map[string]interface{}) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if l.Path != "" {
		if err := k.Load(file.Provider(l.Path), yaml.Parser()); err != nil {
			l.Warnings = append(l.Warnings, fmt.Sprintf("config file %s ignored: %v", l.Path, err))
		}
	}

	// 3. Environment: STRIPESCAN_OUTPUT_FORMAT -> output.format
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", l.envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Command line
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load overrides: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := l.validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// envKey maps an environment variable onto a koanf key. The first
// underscore after the prefix separates section from field.
func (l *Loader) envKey(key, value string) (string, interface{}) {
	if key == ConfigEnv {
		return "", nil
	}
	name := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	return strings.Replace(name, "_", ".", 1), value
}

// validate performs validation on loaded config
func (l *Loader) validate(cfg *Config) error {
	if l.Engines != nil && !slices.Contains(l.Engines, cfg.Scanner.Engine) {
		return fmt.Errorf("invalid scanner engine: %s (must be one of %s)",
			cfg.Scanner.Engine, strings.Join(l.Engines, ", "))
	}

	if cfg.Scanner.Workers < 1 || cfg.Scanner.Workers > 65535 {
		return fmt.Errorf("invalid workers: %d (must be between 1 and 65535)", cfg.Scanner.Workers)
	}

	if cfg.Scanner.Target != "" {
		if _, err := netip.ParseAddr(cfg.Scanner.Target); err != nil {
			return fmt.Errorf("invalid target: %w", err)
		}
	}

	if !slices.Contains([]string{"plain", "table", "json"}, cfg.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be plain, table, or json)", cfg.Output.Format)
	}

	if !slices.Contains([]string{"auto", "always", "never"}, cfg.Output.Color) {
		return fmt.Errorf("invalid output color: %s (must be auto, always, or never)", cfg.Output.Color)
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	if cfg.Log.Format != "console" && cfg.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be console or json)", cfg.Log.Format)
	}

	return nil
}

// ScanConfig returns the validated scanner section as a models.ScanConfig
func (c *Config) ScanConfig() (models.ScanConfig, error) {
	addr, err := netip.ParseAddr(c.Scanner.Target)
	if err != nil {
		return models.ScanConfig{}, fmt.Errorf("invalid target %q: %w", c.Scanner.Target, err)
	}
	if c.Scanner.Workers < 1 || c.Scanner.Workers > 65535 {
		return models.ScanConfig{}, fmt.Errorf("invalid workers: %d", c.Scanner.Workers)
	}
	return models.ScanConfig{
		Target:  addr,
		Workers: uint16(c.Scanner.Workers), //nolint:gosec // G115: range checked above
	}, nil
}

// Load resolves configuration from the process environment.
// The YAML path comes from STRIPESCAN_CONFIG.
func Load(overrides map[string]interface{}, engines []string) (*Config, []string, error) {
	l := &Loader{Path: os.Getenv(ConfigEnv), Engines: engines}
	cfg, err := l.Load(overrides)
	return cfg, l.Warnings, err
}
