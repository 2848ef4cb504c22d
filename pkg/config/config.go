// Package config loads gam-mcp settings from defaults, an optional YAML file
// and GAM_MCP_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "GAM_MCP_"

type Config struct {
	GAM    GAMConfig    `yaml:"gam" envPrefix:"GAM_"`
	Exec   ExecConfig   `yaml:"exec" envPrefix:"EXEC_"`
	Audit  AuditConfig  `yaml:"audit" envPrefix:"AUDIT_"`
	Log    LogConfig    `yaml:"log" envPrefix:"LOG_"`
	Server ServerConfig `yaml:"server" envPrefix:"SERVER_"`
}

type GAMConfig struct {
	// Binary is the executable the "gam" launch token resolves to.
	Binary           string   `yaml:"binary" env:"BINARY"`
	BinaryCandidates []string `yaml:"binary_candidates" env:"BINARY_CANDIDATES" envSeparator:","`
}

type ExecConfig struct {
	Timeout        time.Duration `yaml:"timeout" env:"TIMEOUT"`
	MaxOutputBytes int           `yaml:"max_output_bytes" env:"MAX_OUTPUT_BYTES"`
}

type AuditConfig struct {
	Enabled bool   `yaml:"enabled" env:"ENABLED"`
	Path    string `yaml:"path" env:"PATH"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

type ServerConfig struct {
	Name string `yaml:"name" env:"NAME"`
}

// Dir is the per-user configuration directory (~/.gam-mcp).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".gam-mcp"
	}
	return filepath.Join(home, ".gam-mcp")
}

func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

func DefaultConfig() *Config {
	return &Config{
		GAM: GAMConfig{
			Binary: "gam",
		},
		Exec: ExecConfig{
			Timeout:        300 * time.Second,
			MaxOutputBytes: 1 << 20,
		},
		Audit: AuditConfig{
			Enabled: true,
			Path:    filepath.Join(Dir(), "audit.jsonl"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Name: "gam-mcp",
		},
	}
}

// Load reads path (a missing file is not an error), applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	return load(path, nil)
}

func load(path string, environ map[string]string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("apply environment overrides: %w", err)
	}

	cfg.Audit.Path = expandHome(cfg.Audit.Path)
	cfg.GAM.Binary = expandHome(cfg.GAM.Binary)
	for i, c := range cfg.GAM.BinaryCandidates {
		cfg.GAM.BinaryCandidates[i] = expandHome(strings.TrimSpace(c))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.GAM.Binary) == "" {
		return fmt.Errorf("gam.binary must not be empty")
	}
	if c.Exec.Timeout <= 0 {
		return fmt.Errorf("exec.timeout must be positive (got %s)", c.Exec.Timeout)
	}
	if c.Exec.MaxOutputBytes <= 0 {
		return fmt.Errorf("exec.max_output_bytes must be positive (got %d)", c.Exec.MaxOutputBytes)
	}
	if c.Audit.Enabled && strings.TrimSpace(c.Audit.Path) == "" {
		return fmt.Errorf("audit.path is required when audit is enabled")
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Format)) {
	case "json", "console":
	default:
		return fmt.Errorf("log.format %q is not json or console", c.Log.Format)
	}
	if strings.TrimSpace(c.Server.Name) == "" {
		return fmt.Errorf("server.name must not be empty")
	}
	return nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
