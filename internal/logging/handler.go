package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// SwappableHandler forwards to a handler that can be replaced while loggers
// built on it stay in use.
type SwappableHandler struct {
	target *atomic.Pointer[slog.Handler]
	attrs  []slog.Attr
	group  string
	parent *SwappableHandler
}

// NewSwappableHandler creates a handler forwarding to initial.
func NewSwappableHandler(initial slog.Handler) *SwappableHandler {
	sh := &SwappableHandler{target: new(atomic.Pointer[slog.Handler])}
	sh.target.Store(&initial)
	return sh
}

// Swap replaces the target for this handler and every handler derived from it.
func (sh *SwappableHandler) Swap(next slog.Handler) {
	sh.target.Store(&next)
}

// resolve applies derived attributes and groups to the current target.
func (sh *SwappableHandler) resolve() slog.Handler {
	if sh.parent == nil {
		return *sh.target.Load()
	}
	h := sh.parent.resolve()
	if sh.group != "" {
		return h.WithGroup(sh.group)
	}
	return h.WithAttrs(sh.attrs)
}

// Enabled reports whether the handler handles records at the given level.
func (sh *SwappableHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return sh.resolve().Enabled(ctx, level)
}

// Handle handles the Record.
func (sh *SwappableHandler) Handle(ctx context.Context, r slog.Record) error {
	return sh.resolve().Handle(ctx, r)
}

// WithAttrs returns a handler that adds attrs and follows later swaps.
func (sh *SwappableHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return sh
	}
	return &SwappableHandler{target: sh.target, attrs: attrs, parent: sh}
}

// WithGroup returns a handler that opens group and follows later swaps.
func (sh *SwappableHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return sh
	}
	return &SwappableHandler{target: sh.target, group: name, parent: sh}
}
