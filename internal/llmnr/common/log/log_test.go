package log

import "testing"

func TestConfigure(t *testing.T) {
	orig := GetLogger()
	t.Cleanup(func() { SetLogger(orig) })

	if err := Configure("prod", "info"); err != nil {
		t.Fatalf("Configure(prod, info) returned error: %v", err)
	}
	if err := Configure("dev", "debug"); err != nil {
		t.Fatalf("Configure(dev, debug) returned error: %v", err)
	}
	if err := Configure("prod", "loud"); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestSetAndGetLogger(t *testing.T) {
	orig := GetLogger()
	t.Cleanup(func() { SetLogger(orig) })

	noop := NewNoopLogger()
	SetLogger(noop)
	if GetLogger() != noop {
		t.Error("GetLogger did not return the logger just set")
	}
}

func TestNoopLoggerDiscards(t *testing.T) {
	l := NewNoopLogger()
	// None of these may panic or write.
	l.Debug(map[string]any{"k": "v"}, "debug")
	l.Info(nil, "info")
	l.Warn(nil, "warn")
	l.Error(map[string]any{"err": "x"}, "error")
}

func TestGlobalHelpers(t *testing.T) {
	orig := GetLogger()
	t.Cleanup(func() { SetLogger(orig) })

	SetLogger(NewNoopLogger())
	Debug(nil, "d")
	Info(nil, "i")
	Warn(nil, "w")
	Error(nil, "e")
}
