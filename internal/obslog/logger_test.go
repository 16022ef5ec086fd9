package obslog

import (
	"os"
	"path/filepath"
	"testing"
)

func resetGlobals() {
	mu.Lock()
	loggers = map[Category]*Logger{}
	logsDir = ""
	debugMode = false
	initialized = false
	mu.Unlock()
}

func TestInitDisabledIsNoop(t *testing.T) {
	resetGlobals()
	defer resetGlobals()

	if err := Init(t.TempDir(), false); err != nil {
		t.Fatal(err)
	}
	log := Get(CategoryWorld)
	log.Info("this should not panic or write anything")
}

func TestInitEnabledWritesFile(t *testing.T) {
	resetGlobals()
	defer resetGlobals()

	dir := t.TempDir()
	if err := Init(dir, true); err != nil {
		t.Fatal(err)
	}
	defer CloseAll()

	log := Get(CategoryCatalog)
	log.Warn("hello %s", "world")

	path := filepath.Join(dir, "logs", "catalog.log")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}
}

func TestGetIsIdempotentPerCategory(t *testing.T) {
	resetGlobals()
	defer resetGlobals()

	if err := Init(t.TempDir(), false); err != nil {
		t.Fatal(err)
	}
	a := Get(CategoryLive)
	b := Get(CategoryLive)
	if a != b {
		t.Error("expected the same logger instance for the same category")
	}
}
