// Package config handles workdex configuration. Each workspace gets a
// .workdex/config.yaml; when it is absent every command runs on defaults that
// mirror the conventional repository layout.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigDir is the per-workspace directory workdex owns.
const ConfigDir = ".workdex"

// Config holds all workdex configuration.
type Config struct {
	// File locations, relative to the workspace root
	Paths PathsConfig `yaml:"paths"`

	// Git interaction
	Git GitConfig `yaml:"git"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// PathsConfig locates the work index and its derived views.
type PathsConfig struct {
	IndexFile    string `yaml:"index_file"`    // YAML source of truth
	MarkdownFile string `yaml:"markdown_file"` // generated view
	VersionFile  string `yaml:"version_file"`  // app version JSON
	HistoryDB    string `yaml:"history_db"`    // admission audit log
}

// GitConfig configures git invocations.
type GitConfig struct {
	Timeout string `yaml:"timeout"` // per-invocation budget for tag/diff calls
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			IndexFile:    "product-development/agentic_work_index.yaml",
			MarkdownFile: "product-development/agentic_work_index.md",
			VersionFile:  "product-development/app_version.json",
			HistoryDB:    filepath.Join(ConfigDir, "history.db"),
		},
		Git: GitConfig{
			Timeout: "10s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration for the given workspace, returning defaults when
// no config file exists yet.
func Load(workspace string) (*Config, error) {
	cfg := DefaultConfig()

	path := filepath.Join(workspace, ConfigDir, "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration into the workspace.
func (c *Config) Save(workspace string) error {
	dir := filepath.Join(workspace, ConfigDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// GetGitTimeout returns the git invocation budget, defaulting to 10s when the
// configured value does not parse.
func (c *Config) GetGitTimeout() time.Duration {
	d, err := time.ParseDuration(c.Git.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// applyEnvOverrides applies environment variable overrides. Env always wins
// over the file so CI jobs can point one checkout at another's index.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("WORKDEX_INDEX_FILE"); v != "" {
		c.Paths.IndexFile = v
	}
	if v := os.Getenv("WORKDEX_HISTORY_DB"); v != "" {
		c.Paths.HistoryDB = v
	}
	if v := os.Getenv("WORKDEX_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}
