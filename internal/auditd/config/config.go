// Package config manages the auditor daemon's configuration using a
// JSON-file-with-defaults pattern.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the settings for a single auditor/server demo round.
type Config struct {
	// Protocol settings
	ContextMode    string `json:"context_mode"` // "type-a" or "type-a1"
	ChunkSizeBytes int    `json:"chunk_size_bytes"`
	DemoFileBytes  int    `json:"demo_file_bytes"`
	SampleSize     int    `json:"sample_size"` // c, the challenge size per round

	// File paths
	StateDir string `json:"state_dir"`

	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`

	// Scheduling
	AuditIntervalSeconds int `json:"audit_interval_seconds"`
	MaxRounds            int `json:"max_rounds"` // 0 = unbounded

	// Security
	EnableAuditLog  bool   `json:"enable_audit_log"`
	AuditLogPath    string `json:"audit_log_path"`
	RateLimitTokens int    `json:"rate_limit_tokens"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ContextMode:          "type-a",
		ChunkSizeBytes:       64 * 1024,
		DemoFileBytes:        1 << 20,
		SampleSize:           32,
		StateDir:             "state",
		LogLevel:             "info",
		LogFile:              "auditord.log",
		AuditIntervalSeconds: 5,
		MaxRounds:            0,
		EnableAuditLog:       true,
		AuditLogPath:         "audit.log",
		RateLimitTokens:      10,
	}
}

// LoadConfig loads configuration from path, or creates and saves a default
// one if path does not exist yet.
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); err == nil {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config file: %w", err)
		}
		defer file.Close()

		var cfg Config
		if err := json.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("decode config file: %w", err)
		}
		return &cfg, nil
	}

	cfg := DefaultConfig()
	if err := SaveConfig(cfg, path); err != nil {
		return nil, fmt.Errorf("save default config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path, creating parent directories as needed.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.ChunkSizeBytes <= 0 {
		return fmt.Errorf("chunk_size_bytes must be positive")
	}
	if c.DemoFileBytes <= 0 {
		return fmt.Errorf("demo_file_bytes must be positive")
	}
	if c.SampleSize < 0 {
		return fmt.Errorf("sample_size must be non-negative")
	}
	if c.AuditIntervalSeconds <= 0 {
		return fmt.Errorf("audit_interval_seconds must be positive")
	}
	if c.MaxRounds < 0 {
		return fmt.Errorf("max_rounds must be non-negative")
	}
	switch c.ContextMode {
	case "type-a", "type-a1":
	default:
		return fmt.Errorf("context_mode must be \"type-a\" or \"type-a1\", got %q", c.ContextMode)
	}
	return nil
}
