// Package config loads the engine configuration from .agenda/config.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Dir is the per-workspace state directory.
const Dir = ".agenda"

// FileName is the config file inside Dir.
const FileName = "config.yaml"

// Config is the engine configuration.
type Config struct {
	DB         DBConfig         `yaml:"db"`
	HTTP       HTTPConfig       `yaml:"http"`
	Escalation EscalationConfig `yaml:"escalation"`
	Log        LogConfig        `yaml:"log"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type HTTPConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

type EscalationConfig struct {
	// DeadlineExtension is added to now when a decision opens a new voting window.
	DeadlineExtension time.Duration `yaml:"deadline_extension"`
	// VotingWindow is how long a proposal placed on an agenda tier by votes
	// has to reach the next threshold.
	VotingWindow time.Duration `yaml:"voting_window"`
}

type LogConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		DB:         DBConfig{Path: filepath.Join(Dir, "agenda.db")},
		HTTP:       HTTPConfig{ListenAddr: ":8080"},
		Escalation: EscalationConfig{DeadlineExtension: 14 * 24 * time.Hour, VotingWindow: 14 * 24 * time.Hour},
		Log:        LogConfig{Level: "info"},
	}
}

// Path returns the config file location for a workspace directory.
func Path(dir string) string {
	return filepath.Join(dir, Dir, FileName)
}

// Load reads path, expanding ${VAR} references, over the defaults.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	expanded := os.ExpandEnv(string(raw))
	expanded = strings.ReplaceAll(expanded, "\r\n", "\n")

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// LoadOrDefault is Load, returning Default when path does not exist.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks the configuration for values the engine cannot run with.
func (c Config) Validate() error {
	if c.DB.Path == "" {
		return fmt.Errorf("db.path is required")
	}
	if c.Escalation.DeadlineExtension <= 0 {
		return fmt.Errorf("escalation.deadline_extension must be positive")
	}
	if c.Escalation.VotingWindow <= 0 {
		return fmt.Errorf("escalation.voting_window must be positive")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q must be one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}

// Save writes cfg to dir/.agenda/config.yaml.
func Save(dir string, cfg Config) error {
	return SaveFile(Path(dir), cfg)
}

// SaveFile writes cfg to path, creating its directory.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
