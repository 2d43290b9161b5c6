package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.PollInterval != 30*time.Second || cfg.RequestTimeout != 10*time.Second {
		t.Fatalf("intervals = %v/%v, want 30s/10s", cfg.PollInterval, cfg.RequestTimeout)
	}
	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
	if cfg.LogLevel != slog.LevelInfo || cfg.DiscardStaleReloads || cfg.ServiceName != "maitre" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(writeConfig(t, `
api_url = "  http://10.0.0.5:8080  "
poll_seconds = 5
request_timeout_seconds = 3
log_file = "  ~/logs/maitre.log  "
log_level = "debug"
discard_stale_reloads = true
sms_template = " {name}: {number} "
service_name = "front-desk"
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://10.0.0.5:8080" {
		t.Fatalf("APIURL = %q", cfg.APIURL)
	}
	if cfg.PollInterval != 5*time.Second || cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("intervals = %v/%v, want 5s/3s", cfg.PollInterval, cfg.RequestTimeout)
	}
	if !strings.HasPrefix(cfg.LogFile, home) || filepath.Base(cfg.LogFile) != "maitre.log" {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.LogLevel != slog.LevelDebug || !cfg.DiscardStaleReloads {
		t.Fatalf("level/discard = %v/%v", cfg.LogLevel, cfg.DiscardStaleReloads)
	}
	if cfg.SMSTemplate != "{name}: {number}" || cfg.ServiceName != "front-desk" {
		t.Fatalf("template/service = %q/%q", cfg.SMSTemplate, cfg.ServiceName)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(writeConfig(t, `
api_url = "   "
log_file = ""
log_level = " "
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Default()
	if cfg.APIURL != want.APIURL || cfg.LogFile != want.LogFile || cfg.LogLevel != want.LogLevel {
		t.Fatalf("Load = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"invalid toml", "api_url = [", "parse config"},
		{"zero poll", "poll_seconds = 0", "poll_seconds"},
		{"negative timeout", "request_timeout_seconds = -1", "request_timeout_seconds"},
		{"bad level", `log_level = "chatty"`, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/x/prefs.toml")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	if got != filepath.Join(home, "x", "prefs.toml") {
		t.Fatalf("ExpandPath = %q", got)
	}
	if _, err := ExpandPath("  "); err == nil {
		t.Fatalf("ExpandPath(blank) returned nil error")
	}
}
