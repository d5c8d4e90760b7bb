// Package config loads botdash settings from .env, a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values.
type Config struct {
	// Backend collaborator
	BackendURL string
	Timeout    time.Duration

	// Status polling
	PollInterval time.Duration
	ClientName   string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// fileConfig mirrors the YAML config file. Empty fields are ignored.
type fileConfig struct {
	BackendURL   string `yaml:"backend_url"`
	Timeout      string `yaml:"timeout"`
	PollInterval string `yaml:"poll_interval"`
	ClientName   string `yaml:"client_name"`
	LogFile      string `yaml:"log_file"`
	LogLevel     string `yaml:"log_level"`
}

const (
	DefaultBackendURL   = "http://localhost:8001"
	DefaultTimeout      = 30 * time.Second
	DefaultPollInterval = 30 * time.Second
)

// Load reads configuration. Precedence: environment, then .env in the
// working directory, then the YAML file, then defaults.
func Load() Config {
	// .env never overrides variables that are already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	path := getEnv("BOTDASH_CONFIG", DefaultConfigPath())
	fc, err := readFile(path)
	if err != nil {
		slog.Warn("failed to read config file", "file", path, "error", err)
	}

	return Config{
		BackendURL: strings.TrimSuffix(getEnv("BOTDASH_BACKEND_URL", or(fc.BackendURL, DefaultBackendURL)), "/"),
		Timeout:    parseDuration(getEnv("BOTDASH_TIMEOUT", fc.Timeout), DefaultTimeout),

		PollInterval: parseDuration(getEnv("BOTDASH_POLL_INTERVAL", fc.PollInterval), DefaultPollInterval),
		ClientName:   getEnv("BOTDASH_CLIENT_NAME", fc.ClientName),

		LogFile:  getEnv("BOTDASH_LOG_FILE", or(fc.LogFile, filepath.Join(os.TempDir(), "botdash.log"))),
		LogLevel: parseLogLevel(getEnv("BOTDASH_LOG_LEVEL", or(fc.LogLevel, "INFO"))),
	}
}

// DefaultConfigPath returns ~/.config/botdash/config.yaml, or "" when the
// user config dir cannot be determined.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "botdash", "config.yaml")
}

// readFile parses the YAML config. A missing file is not an error.
func readFile(path string) (fileConfig, error) {
	var fc fileConfig
	if path == "" {
		return fc, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fc, nil
	}
	if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fileConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func or(val, fallback string) string {
	if val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
