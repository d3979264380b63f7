package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level     log.Level
		wantDebug bool
	}{
		{LogInfo, false},
		{LogDebug, true},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		logger := newLogger(&buf, tt.level)
		logger.Debug("prepared network", "pores", 1000)
		logger.Info("swept", "variants", 2)

		out := buf.String()
		if !strings.Contains(out, "variants=2") {
			t.Errorf("level %v: info line missing: %q", tt.level, out)
		}
		if got := strings.Contains(out, "pores=1000"); got != tt.wantDebug {
			t.Errorf("level %v: debug line logged = %v, want %v", tt.level, got, tt.wantDebug)
		}
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	prog := newProgress(logger)
	if prog == nil {
		t.Fatal("newProgress() returned nil")
	}

	time.Sleep(10 * time.Millisecond)

	prog.done("rendered 2 files")

	output := buf.String()
	if output == "" {
		t.Error("progress.done() should produce output")
	}

	if !bytes.Contains(buf.Bytes(), []byte("rendered 2 files")) {
		t.Error("progress.done() output should contain message")
	}
	if !bytes.Contains(buf.Bytes(), []byte("s)")) {
		t.Errorf("progress.done() output should end with the duration: %q", output)
	}
}

func TestLoggerFromContextDefault(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext should fall back to log.Default()")
	}
}

func TestLoadConfigAttachesLogger(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)
	cmd := c.RootCommand()
	cmd.SetContext(context.Background())

	if err := c.loadConfig(cmd, nil); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if loggerFromContext(cmd.Context()) != c.Logger {
		t.Error("loadConfig should attach the CLI logger to the command context")
	}
}

func TestLoggerRoundTripsThroughContext(t *testing.T) {
	logger := newLogger(&bytes.Buffer{}, LogInfo)
	if loggerFromContext(withLogger(context.Background(), logger)) != logger {
		t.Error("loggerFromContext should return the attached logger")
	}
}
