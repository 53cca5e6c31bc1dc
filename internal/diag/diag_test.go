package diag

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultLoggerIsNop(t *testing.T) {
	if l := L(); l == nil {
		t.Fatal("L() returned nil, want a no-op logger")
	}
	// Must not panic even though nothing was ever configured.
	L().Error("unconfigured sink should swallow this")
}

func TestSetLoggerInstallsGivenLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := zap.New(core)

	SetLogger(l)
	defer SetLogger(nil)

	L().Error("boom", Int("n", 1), String("s", "x"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	if entries[0].Message != "boom" {
		t.Errorf("message = %q, want %q", entries[0].Message, "boom")
	}
}

func TestSetLoggerNilRestoresNop(t *testing.T) {
	core, _ := observer.New(zap.InfoLevel)
	SetLogger(zap.New(core))
	SetLogger(nil)

	// Should be back to swallowing output silently, not panicking or
	// routing to the previously installed observer.
	L().Error("swallowed")
}
