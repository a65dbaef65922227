package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestSwappableHandler_Enabled(t *testing.T) {
	var buf bytes.Buffer
	sh := NewSwappableHandler(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx := context.Background()
	if sh.Enabled(ctx, slog.LevelDebug) {
		t.Error("Enabled(Debug) = true, want false at Info level")
	}
	if !sh.Enabled(ctx, slog.LevelError) {
		t.Error("Enabled(Error) = false, want true at Info level")
	}
}

func TestSwappableHandler_Swap(t *testing.T) {
	var first, second bytes.Buffer
	sh := NewSwappableHandler(slog.NewTextHandler(&first, nil))
	logger := slog.New(sh)

	logger.Info("before swap")
	sh.Swap(slog.NewTextHandler(&second, nil))
	logger.Info("after swap")

	if !strings.Contains(first.String(), "before swap") || strings.Contains(first.String(), "after swap") {
		t.Errorf("first handler got %q", first.String())
	}
	if !strings.Contains(second.String(), "after swap") {
		t.Errorf("second handler got %q", second.String())
	}
}

func TestSwappableHandler_DerivedLoggersFollowSwap(t *testing.T) {
	var first, second bytes.Buffer
	sh := NewSwappableHandler(slog.NewTextHandler(&first, nil))

	derived := slog.New(sh).With("file", "a.sav").WithGroup("header")
	sh.Swap(slog.NewTextHandler(&second, nil))
	derived.Info("decoded", "kind", "world")

	out := second.String()
	if first.Len() != 0 {
		t.Errorf("first handler should be unused, got %q", first.String())
	}
	for _, want := range []string{"file=a.sav", "header.kind=world"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestSwappableHandler_EmptyDerivations(t *testing.T) {
	sh := NewSwappableHandler(slog.NewTextHandler(&bytes.Buffer{}, nil))

	if sh.WithAttrs(nil) != sh {
		t.Error("WithAttrs(nil) should return the same handler")
	}
	if sh.WithGroup("") != sh {
		t.Error("WithGroup(\"\") should return the same handler")
	}
}
