package tapebf

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	var terminal bytes.Buffer
	file := filepath.Join(t.TempDir(), "tapebf.log")

	logger, closer, err := NewLogger(&LogConfig{Level: "warn", File: file}, &terminal)
	if err != nil {
		t.Fatalf("Unexpected failure calling NewLogger(). %v", err)
	}

	logger.Info("hidden")
	logger.Warn("run failed", "exit", 2)
	if err := closer.Close(); err != nil {
		t.Fatalf("Failed to close log file: %v", err)
	}

	if strings.Contains(terminal.String(), "hidden") {
		t.Errorf("Info record passed a warn level: %s", terminal.String())
	}
	if !strings.Contains(terminal.String(), "msg=\"run failed\" exit=2") {
		t.Errorf("Terminal log [%s] is missing the warning", terminal.String())
	}

	body, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(body), `"msg":"run failed"`) {
		t.Errorf("Log file [%s] is missing the warning", body)
	}
}

func TestNewLoggerBadLevel(t *testing.T) {
	if _, _, err := NewLogger(&LogConfig{Level: "loud"}, &bytes.Buffer{}); err == nil {
		t.Errorf("Unexpected success with an unknown level")
	}
}
