package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	testChdir(t, t.TempDir())
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataFile != "tasks.json" || cfg.Backend != "json" || cfg.Theme != "light" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Reminder.Interval != 30*time.Second || cfg.Reminder.Initial != time.Hour || cfg.Reminder.Repeat != 24*time.Hour {
		t.Fatalf("unexpected reminder defaults: %+v", cfg.Reminder)
	}
	if cfg.Reminder.Title != "Task reminder" || cfg.Reminder.Timeout != 5*time.Second || cfg.Reminder.Buffer != 64 {
		t.Fatalf("unexpected reminder defaults: %+v", cfg.Reminder)
	}
	if !cfg.Notifications.Desktop {
		t.Fatal("expected desktop notifications on by default")
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" || cfg.Log.File != "" {
		t.Fatalf("unexpected log defaults: %+v", cfg.Log)
	}
	if cfg.Log.MaxSizeMB != 10 || cfg.Log.MaxBackups != 3 || cfg.Log.MaxAgeDays != 28 {
		t.Fatalf("unexpected log rotation defaults: %+v", cfg.Log)
	}
	if cfg.File != "" {
		t.Fatalf("expected no config file, got %q", cfg.File)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := writeFile(t, "tasklist.yaml", `
data_file: /tmp/my-tasks.json
theme: dark
reminder:
  interval: 10s
  repeat: 12h
notifications:
  desktop: false
`)
	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataFile != "/tmp/my-tasks.json" || cfg.Theme != "dark" || cfg.Notifications.Desktop {
		t.Fatalf("unexpected yaml config: %+v", cfg)
	}
	if cfg.Reminder.Interval != 10*time.Second || cfg.Reminder.Repeat != 12*time.Hour {
		t.Fatalf("unexpected reminder config: %+v", cfg.Reminder)
	}
	if cfg.Reminder.Initial != time.Hour {
		t.Fatalf("unset keys should keep defaults, got %s", cfg.Reminder.Initial)
	}
	if cfg.File != path {
		t.Fatalf("expected file %q, got %q", path, cfg.File)
	}
}

func TestLoadTOMLFile(t *testing.T) {
	path := writeFile(t, "tasklist.toml", `
backend = "sqlite"
data_file = "tasks.db"

[reminder]
title = "締め切り"
buffer = 8

[log]
level = "debug"
format = "json"
`)
	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != "sqlite" || cfg.DataFile != "tasks.db" {
		t.Fatalf("unexpected toml config: %+v", cfg)
	}
	if cfg.Reminder.Title != "締め切り" || cfg.Reminder.Buffer != 8 {
		t.Fatalf("unexpected reminder config: %+v", cfg.Reminder)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("unexpected log config: %+v", cfg.Log)
	}
}

func TestLoadDiscoversFileInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "tasklist.yml"), []byte("theme: dark\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	testChdir(t, dir)
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Theme != "dark" || cfg.File != "tasklist.yml" {
		t.Fatalf("expected discovered file, got %+v", cfg)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "tasklist.yaml", "theme: dark\nreminder:\n  interval: 10s\n")
	t.Setenv("TASKLIST_CONFIG", path)
	t.Setenv("TASKLIST_THEME", "LIGHT")
	t.Setenv("TASKLIST_REMINDER__INTERVAL", "45s")
	t.Setenv("TASKLIST_NOTIFICATIONS__DESKTOP", "false")
	t.Setenv("TASKLIST_LOG__MAX_BACKUPS", "7")

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Theme != "light" {
		t.Fatalf("expected env theme, got %q", cfg.Theme)
	}
	if cfg.Reminder.Interval != 45*time.Second {
		t.Fatalf("expected env interval, got %s", cfg.Reminder.Interval)
	}
	if cfg.Notifications.Desktop {
		t.Fatal("expected desktop notifications off from env")
	}
	if cfg.Log.MaxBackups != 7 {
		t.Fatalf("expected env max backups, got %d", cfg.Log.MaxBackups)
	}
	if cfg.File != path {
		t.Fatalf("expected config path from env, got %q", cfg.File)
	}
}

func TestLoadOverridesWinOverEnv(t *testing.T) {
	testChdir(t, t.TempDir())
	t.Setenv("TASKLIST_DATA_FILE", "env.json")
	cfg, err := Load("", map[string]interface{}{
		"data_file":         "flag.json",
		"reminder.interval": "1m",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataFile != "flag.json" || cfg.Reminder.Interval != time.Minute {
		t.Fatalf("expected overrides to win, got %+v", cfg)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	if err == nil || !strings.Contains(err.Error(), "nope.yaml") {
		t.Fatalf("expected missing file error, got %v", err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]interface{}{
		"backend":   {"backend": "csv"},
		"theme":     {"theme": "solarized"},
		"data file": {"data_file": "  "},
		"interval":  {"reminder.interval": "0s"},
		"repeat":    {"reminder.repeat": "-1h"},
		"buffer":    {"reminder.buffer": 0},
	}
	for name, overrides := range cases {
		overrides := overrides
		t.Run(name, func(t *testing.T) {
			testChdir(t, t.TempDir())
			if _, err := Load("", overrides); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestEnvKey(t *testing.T) {
	cases := map[string]string{
		"TASKLIST_DATA_FILE":          "data_file",
		"TASKLIST_REMINDER__INTERVAL": "reminder.interval",
		"TASKLIST_LOG__MAX_SIZE_MB":   "log.max_size_mb",
	}
	for in, want := range cases {
		if got := envKey(in); got != want {
			t.Fatalf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTOMLParserRoundTrip(t *testing.T) {
	p := TOMLParser()
	out, err := p.Marshal(map[string]interface{}{"theme": "dark", "reminder": map[string]interface{}{"buffer": 4}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	parsed, err := p.Unmarshal(out)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if parsed["theme"] != "dark" {
		t.Fatalf("unexpected parsed toml: %v", parsed)
	}
}
