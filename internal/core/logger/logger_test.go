package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitJSONToBuffer(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := Init(Options{Level: "info", Format: "json", Output: buf})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	log.Debug("hidden")
	log.Info("ping", "status", 200)

	got := buf.String()
	if strings.Contains(got, "hidden") {
		t.Errorf("debug line should be filtered at info level: %q", got)
	}
	if !strings.Contains(got, `"status":200`) {
		t.Errorf("expected JSON attrs, got %q", got)
	}
}

func TestInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "apiprobe.log")
	log, err := Init(Options{File: path, Output: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	log.Info("written to file")
	if err := log.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("log file = %q", data)
	}
}

func TestWithRunTagsLines(t *testing.T) {
	buf := &bytes.Buffer{}
	base := &Logger{Logger: slog.New(slog.NewTextHandler(buf, nil))}

	log, id := base.WithRun()
	if _, err := ulid.ParseStrict(id); err != nil {
		t.Fatalf("run id %q is not a ULID: %v", id, err)
	}

	log.Info("hello", Since(time.Now()))
	if !strings.Contains(buf.String(), "run="+id) {
		t.Errorf("expected run id in %q", buf.String())
	}
}
