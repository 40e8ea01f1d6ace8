package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LogLevel != "INFO" {
		t.Fatalf("expected default log level INFO, got %q", cfg.LogLevel)
	}
	if cfg.Decay.RatePerHour != 1 || cfg.Decay.Interval != time.Minute {
		t.Fatalf("unexpected decay defaults: %+v", cfg.Decay)
	}
	if cfg.UI.Theme != "tokyo-night" {
		t.Fatalf("unexpected theme %q", cfg.UI.Theme)
	}
	wantDir := filepath.Join(dataHome, "tasquest")
	if cfg.DataDir != wantDir {
		t.Fatalf("expected data dir %q, got %q", wantDir, cfg.DataDir)
	}
	if cfg.DBPath != filepath.Join(wantDir, "tasquest.db") || cfg.LogPath != filepath.Join(wantDir, "tasquest.log") {
		t.Fatalf("unexpected derived paths: %q %q", cfg.DBPath, cfg.LogPath)
	}
}

func TestLoadParsesYAMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	configYAML := strings.TrimSpace(`
log_level: DEBUG
data_dir: ` + filepath.Join(dir, "data") + `
decay:
  rate_per_hour: 2.5
  interval: 30s
ui:
  theme: tokyo-night
`)
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TASQUEST_THEME", "gruvbox")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LogLevel != "DEBUG" {
		t.Fatalf("expected DEBUG, got %q", cfg.LogLevel)
	}
	if cfg.Decay.RatePerHour != 2.5 || cfg.Decay.Interval != 30*time.Second {
		t.Fatalf("unexpected decay config: %+v", cfg.Decay)
	}
	if cfg.UI.Theme != "gruvbox" {
		t.Fatalf("env must override file, got theme %q", cfg.UI.Theme)
	}
	if cfg.DBPath != filepath.Join(dir, "data", "tasquest.db") {
		t.Fatalf("db path must follow data_dir, got %q", cfg.DBPath)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	cases := map[string]string{
		"log level": "log_level: LOUD\n",
		"rate":      "decay:\n  rate_per_hour: -1\n",
		"interval":  "decay:\n  interval: -5s\n",
	}
	for name, body := range cases {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	if got := DefaultPath(); got != filepath.Join("/tmp/cfg", "tasquest", "config.yaml") {
		t.Fatalf("unexpected default path %q", got)
	}
}
