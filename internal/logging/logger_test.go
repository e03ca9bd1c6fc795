package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/astromoss/uvotbatch/internal/config"
)

func TestLoggerFileSink(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "driver.log")

	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.LogFile = logPath

	log, err := NewLogger(&cfg)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	log.Info("processing %s", "sw00011558_001_sk.img.gz")
	log.NoData("extension %d empty", 3)
	log.Debug(false, "should not appear")

	if err := log.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(data)

	if !strings.Contains(text, "[INFO] processing sw00011558_001_sk.img.gz") {
		t.Errorf("missing INFO line in:\n%s", text)
	}
	if !strings.Contains(text, "[NODATA] extension 3 empty") {
		t.Errorf("missing NODATA line in:\n%s", text)
	}
	if strings.Contains(text, "should not appear") {
		t.Errorf("non-verbose Debug leaked into:\n%s", text)
	}
}

func TestLoggerColorNever(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever

	log, err := NewLogger(&cfg)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer log.Close()

	if NC != "" {
		t.Errorf("colors should be disabled, NC = %q", NC)
	}
}
