package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures maitre's settings.
type Config struct {
	APIURL              string
	PollInterval        time.Duration
	RequestTimeout      time.Duration
	LogFile             string
	LogLevel            slog.Level
	DiscardStaleReloads bool
	SMSTemplate         string
	ServiceName         string
}

const (
	defaultConfigPath     = "~/.config/maitre/config.toml"
	defaultLogFile        = "~/.local/state/maitre/maitre.log"
	defaultAPIURL         = "127.0.0.1:5000"
	defaultPollSeconds    = 30
	defaultTimeoutSeconds = 10
	defaultServiceName    = "maitre"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:         defaultAPIURL,
		PollInterval:   defaultPollSeconds * time.Second,
		RequestTimeout: defaultTimeoutSeconds * time.Second,
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       slog.LevelInfo,
		ServiceName:    defaultServiceName,
	}
}

// Load locates and parses the maitre config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL              string `toml:"api_url"`
		PollSeconds         *int   `toml:"poll_seconds"`
		RequestTimeout      *int   `toml:"request_timeout_seconds"`
		LogFile             string `toml:"log_file"`
		LogLevel            string `toml:"log_level"`
		DiscardStaleReloads bool   `toml:"discard_stale_reloads"`
		SMSTemplate         string `toml:"sms_template"`
		ServiceName         string `toml:"service_name"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if raw.PollSeconds != nil {
		if *raw.PollSeconds <= 0 {
			return Config{}, fmt.Errorf("poll_seconds must be positive, got %d", *raw.PollSeconds)
		}
		cfg.PollInterval = time.Duration(*raw.PollSeconds) * time.Second
	}
	if raw.RequestTimeout != nil {
		if *raw.RequestTimeout <= 0 {
			return Config{}, fmt.Errorf("request_timeout_seconds must be positive, got %d", *raw.RequestTimeout)
		}
		cfg.RequestTimeout = time.Duration(*raw.RequestTimeout) * time.Second
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		level, err := ParseLevel(v)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = level
	}
	cfg.DiscardStaleReloads = raw.DiscardStaleReloads
	cfg.SMSTemplate = strings.TrimSpace(raw.SMSTemplate)
	if v := strings.TrimSpace(raw.ServiceName); v != "" {
		cfg.ServiceName = v
	}

	return cfg, nil
}

// ParseLevel maps debug/info/warn/error to a slog level.
func ParseLevel(value string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(value))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
