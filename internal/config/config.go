// Package config loads numcheck settings.
//
// Precedence, highest first: command-line flags (applied by the cli
// package), process environment, a .env file, the .numcheck.yaml file,
// then DefaultConfig.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// FileName is the config file looked up in the working directory.
	FileName = ".numcheck.yaml"

	// EnvFileName is the optional dotenv file next to FileName.
	EnvFileName = ".env"
)

// Environment variables that override the config file.
const (
	EnvDB       = "NUMCHECK_DB"
	EnvFormat   = "NUMCHECK_FORMAT"
	EnvSuites   = "NUMCHECK_SUITES"
	EnvLogLevel = "NUMCHECK_LOG_LEVEL"
)

// Config represents numcheck configuration options
type Config struct {
	// DB is the SQLite run history path. Empty disables persistence.
	DB string `yaml:"db"`

	// Format is the output format: text or json.
	Format string `yaml:"format"`

	// Suites is the default suites directory for check and validate.
	Suites string `yaml:"suites"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		Format:   "text",
		Suites:   "suites",
		LogLevel: "info",
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed or has unknown keys, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&fileCfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.merge(&fileCfg)
	return cfg, nil
}

// merge copies the non-empty fields of other into c.
func (c *Config) merge(other *Config) {
	if other.DB != "" {
		c.DB = other.DB
	}
	if other.Format != "" {
		c.Format = other.Format
	}
	if other.Suites != "" {
		c.Suites = other.Suites
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
}

// ApplyEnv overlays environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	c.merge(&Config{
		DB:       envValue(lookup, EnvDB),
		Format:   envValue(lookup, EnvFormat),
		Suites:   envValue(lookup, EnvSuites),
		LogLevel: envValue(lookup, EnvLogLevel),
	})
}

func envValue(lookup func(string) (string, bool), key string) string {
	v, _ := lookup(key)
	return v
}

// Load resolves the full configuration for a command running in dir.
//
// explicitPath, when non-empty, names the config file and must exist.
// Otherwise dir/.numcheck.yaml is used if present. Variables from
// dir/.env fill in whatever the process environment leaves unset.
func Load(dir, explicitPath string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		path = explicitPath
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	dotenv, err := readEnvFile(filepath.Join(dir, EnvFileName))
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readEnvFile parses a dotenv file without touching the process
// environment. A missing file yields an empty map.
func readEnvFile(path string) (map[string]string, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return env, nil
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid format %q, must be one of: text, json", c.Format)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: debug, info, warn, error", c.LogLevel)
	}

	return nil
}
