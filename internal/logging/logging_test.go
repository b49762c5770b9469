package logging

import (
	"os"
	"path/filepath"
	"testing"

	"shopfront/internal/config"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "shopfront.log")
	logger, err := New(config.LoggingConfig{Debug: true, File: path})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected log output in file")
	}
}

func TestNewTUIWithoutFileIsNop(t *testing.T) {
	logger, err := NewTUI(config.LoggingConfig{})
	if err != nil {
		t.Fatalf("NewTUI failed: %v", err)
	}
	// Must be safe to use even though it goes nowhere.
	logger.Info("ignored")
}
