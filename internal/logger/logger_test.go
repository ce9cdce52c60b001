package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readLog(t *testing.T, configDir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(configDir, "logs", "sutrr.log"))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	return string(data)
}

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	t.Cleanup(func() { _ = Close() })

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Info("conversation created", "id", "abc")
	Warn("storage write failed", "key", "conversations")

	if _, err := os.Stat(filepath.Join(logDir, "sutrr.log")); err != nil {
		t.Errorf("expected log file to exist: %v", err)
	}
}

func TestInitDebugMode(t *testing.T) {
	if err := Init(Config{Debug: true, ConfigDir: t.TempDir()}); err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}
	t.Cleanup(func() { _ = Close() })
	if Logger == nil {
		t.Error("Logger is nil after initialization")
	}
	Debug("Test debug message in debug mode")
}

func TestInitLevel(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantInfo bool
		wantErr  bool
	}{
		{name: "default info", cfg: Config{}, wantInfo: true},
		{name: "warn hides info", cfg: Config{Level: "warn"}, wantInfo: false},
		{name: "debug flag wins", cfg: Config{Level: "error", Debug: true}, wantInfo: true},
		{name: "unknown level", cfg: Config{Level: "loud"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tt.cfg.ConfigDir = dir
			err := Init(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Init() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			Info("reply delivered")
			Warn("reply dropped")
			if err := Close(); err != nil {
				t.Fatalf("Close() failed: %v", err)
			}

			out := readLog(t, dir)
			if got := strings.Contains(out, "reply delivered"); got != tt.wantInfo {
				t.Errorf("info logged = %v, want %v\n%s", got, tt.wantInfo, out)
			}
			if !strings.Contains(out, "reply dropped") {
				t.Errorf("warning missing from log:\n%s", out)
			}
		})
	}
}

func TestInitJSON(t *testing.T) {
	dir := t.TempDir()
	if err := Init(Config{ConfigDir: dir, JSON: true}); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	Info("entry saved", "id", "j1")
	if err := Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	out := readLog(t, dir)
	if !strings.Contains(out, `"msg":"entry saved"`) || !strings.Contains(out, `"id":"j1"`) {
		t.Errorf("expected a JSON log line, got:\n%s", out)
	}
}

func TestComponent(t *testing.T) {
	_ = Close()
	if Component("engine") != nil {
		t.Error("Component() should be nil before Init")
	}

	if err := Init(Config{ConfigDir: t.TempDir()}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { _ = Close() })
	l := Component("engine")
	if l == nil {
		t.Fatal("Component() returned nil after Init")
	}
	if got := l.GetPrefix(); got != "sutrr/engine" {
		t.Errorf("prefix = %q, want %q", got, "sutrr/engine")
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	_ = Close()

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}
