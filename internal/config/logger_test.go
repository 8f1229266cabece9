package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/simp-lee/logger"
)

func boolPtr(b bool) *bool { return &b }

func TestSetupLogger_NilConfig(t *testing.T) {
	if _, err := SetupLogger(nil); err == nil {
		t.Fatal("SetupLogger(nil) expected error, got nil")
	}
}

func TestSetupLogger_LevelMapping(t *testing.T) {
	tests := []struct {
		level     string
		wantLevel slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"DEBUG", slog.LevelDebug},
		{"invalid", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log, err := SetupLogger(&LogConfig{Level: tt.level, Format: "text", Color: boolPtr(false)})
			if err != nil {
				t.Fatalf("SetupLogger error: %v", err)
			}
			defer log.Close()

			if !log.Enabled(context.TODO(), tt.wantLevel) {
				t.Errorf("expected level %v to be enabled", tt.wantLevel)
			}
			if tt.wantLevel > slog.LevelDebug && log.Enabled(context.TODO(), tt.wantLevel-1) {
				t.Errorf("expected level %v to be disabled", tt.wantLevel-1)
			}
			if slog.Default().Handler() != log.Handler() {
				t.Error("SetupLogger did not set slog.Default()")
			}
		})
	}
}

func TestSetupLogger_FileCarriesContextAttrs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, err := SetupLogger(&LogConfig{Level: "info", Format: "json", FilePath: path, Color: boolPtr(false)})
	if err != nil {
		t.Fatalf("SetupLogger error: %v", err)
	}

	ctx := logger.WithContextAttrs(context.Background(), slog.String("request_id", "req-42"))
	log.InfoContext(ctx, "invoice created", slog.Uint64("invoice_id", 7))
	if err := log.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(data)
	for _, want := range []string{`"msg":"invoice created"`, `"request_id":"req-42"`, `"invoice_id":7`} {
		if !strings.Contains(out, want) {
			t.Errorf("log file missing %s:\n%s", want, out)
		}
	}
}

func TestBuildLoggerOpts(t *testing.T) {
	// Level, middleware, console format and console color are always set.
	// A file path adds the path and the file format, then one option per
	// rotation setting.
	const base = 4
	const withFile = base + 2

	tests := []struct {
		name string
		cfg  *LogConfig
		want int
	}{
		{"console text", &LogConfig{Level: "debug", Format: "text"}, base},
		{"console json", &LogConfig{Level: "warn", Format: "json"}, base},
		{"unknown format", &LogConfig{Level: "info", Format: "whatever"}, base},
		{"color disabled", &LogConfig{Level: "info", Format: "text", Color: boolPtr(false)}, base},
		{"file", &LogConfig{Level: "info", Format: "json", FilePath: "/tmp/app.log"}, withFile},
		{"file zero rotation", &LogConfig{FilePath: "/tmp/app.log", MaxSizeMB: 0, MaxBackups: 0}, withFile},
		{"file max size", &LogConfig{FilePath: "/tmp/app.log", MaxSizeMB: 10}, withFile + 1},
		{"file compress false", &LogConfig{FilePath: "/tmp/app.log", CompressRotated: boolPtr(false)}, withFile + 1},
		{"file all rotation", &LogConfig{
			FilePath: "/tmp/app.log", MaxSizeMB: 50, RetentionDays: 30, MaxBackups: 5, CompressRotated: boolPtr(true),
		}, withFile + 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(BuildLoggerOpts(tt.cfg)); got != tt.want {
				t.Errorf("option count = %d, want %d", got, tt.want)
			}
		})
	}

	if BuildLoggerOpts(nil) != nil {
		t.Error("BuildLoggerOpts(nil) should return nil")
	}
}

func TestBuildLoggerOpts_ProducesValidLogger(t *testing.T) {
	cfg := &LogConfig{
		Level: "info", Format: "json", FilePath: filepath.Join(t.TempDir(), "rotate.log"),
		MaxSizeMB: 10, RetentionDays: 7, MaxBackups: 3, CompressRotated: boolPtr(true),
	}

	log, err := logger.New(BuildLoggerOpts(cfg)...)
	if err != nil {
		t.Fatalf("logger.New failed: %v", err)
	}
	defer log.Close()
}
