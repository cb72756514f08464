package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]log.Level{
		"":        log.InfoLevel,
		"debug":   log.DebugLevel,
		"INFO":    log.InfoLevel,
		"warning": log.WarnLevel,
		"error":   log.ErrorLevel,
	}
	for raw, want := range cases {
		got, err := ParseLevel(raw)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", raw, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestParseFormatter(t *testing.T) {
	if f, err := ParseFormatter("json"); err != nil || f != log.JSONFormatter {
		t.Fatalf("expected json formatter, got %v %v", f, err)
	}
	if f, err := ParseFormatter("logfmt"); err != nil || f != log.LogfmtFormatter {
		t.Fatalf("expected logfmt formatter, got %v %v", f, err)
	}
	if _, err := ParseFormatter("xml"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestNewWritesToFallback(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = "json"
	logger, closer, err := New(opts, &buf)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer closer.Close()

	logger.Debug("hidden")
	logger.Info("task added", "id", "abc")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line at info level, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["msg"] != "task added" || entry["id"] != "abc" {
		t.Fatalf("unexpected log entry: %v", entry)
	}
}

func TestNewWritesToRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tasklist.log")
	var fallback bytes.Buffer
	opts := DefaultOptions()
	opts.File = path
	opts.Level = "debug"
	logger, closer, err := New(opts, &fallback)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Debug("reminder sent", "id", "xyz")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(raw), "reminder sent") {
		t.Fatalf("expected message in log file, got %q", raw)
	}
	if fallback.Len() != 0 {
		t.Fatalf("fallback should be unused when a file is set, got %q", fallback.String())
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.Level = "nope"
	if _, _, err := New(opts, nil); err == nil {
		t.Fatal("expected error for bad level")
	}
}
