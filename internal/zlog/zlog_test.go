package zlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetRoutesHelpers(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(nil) })

	Debug("hidden")
	Info("reminder processed", zap.Int("count", 2))
	Warn("push dropped")

	if logs.Len() != 2 {
		t.Fatalf("expected 2 entries above debug, got %d", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Message != "reminder processed" || entry.ContextMap()["count"] != int64(2) {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestInitWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "universe.log")
	flush := Init(Options{Level: "debug", File: path, MaxSizeMB: 1, MaxBackups: 1})
	t.Cleanup(func() { Set(nil) })

	Info("hello file")
	flush()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello file") {
		t.Fatalf("expected message in log file, got %s", data)
	}
}

func TestNilSetFallsBackToNop(t *testing.T) {
	Set(nil)
	if L() == nil {
		t.Fatalf("expected nop logger")
	}
	Error("ignored")
}
