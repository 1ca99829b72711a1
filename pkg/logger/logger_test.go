package logger

import (
	"context"
	"errors"
	"log/slog"
	"testing"
)

func TestInitAndGet(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("unexpected init error: %v", err)
	}

	log := Get()
	if log == nil {
		t.Fatal("expected a global logger after Init")
	}

	// All levels must be callable without panicking.
	ctx := context.Background()
	log.Debug(ctx, "debug message", String("k", "v"))
	log.Info(ctx, "info message", Int("n", 1))
	log.Warn(ctx, "warn message", Float64("f", 1.5))
	log.Error(ctx, "error message", Error(errors.New("boom")), Any("x", struct{}{}))
}

func TestNamed(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("unexpected init error: %v", err)
	}

	named := Named("historical")
	if named == nil {
		t.Fatal("expected a named logger")
	}
	named.Info(context.Background(), "named message")
}

func TestSetLevelString(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("unexpected init error: %v", err)
	}

	for _, level := range []string{"debug", "info", "warn", "warning", "error", "", "  INFO  "} {
		if err := SetLevelString(level); err != nil {
			t.Errorf("expected level %q to parse, got %v", level, err)
		}
	}
	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected unknown level to fail")
	}

	SetLevel(slog.LevelInfo)
}

func TestFieldConstructors(t *testing.T) {
	if f := String("key", "val"); f.Key != "key" || f.Value != "val" {
		t.Errorf("unexpected String field: %+v", f)
	}
	if f := Int("n", 3); f.Value != 3 {
		t.Errorf("unexpected Int field: %+v", f)
	}
	if f := Float64("f", 2.5); f.Value != 2.5 {
		t.Errorf("unexpected Float64 field: %+v", f)
	}
	err := errors.New("boom")
	if f := Error(err); f.Key != "error" || f.Value != err {
		t.Errorf("unexpected Error field: %+v", f)
	}
}
