// Copyright (c) 2025 The Electra developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log is the process-wide structured logger.
// Packages hold a contextual logger:
//
//	var logger = log.WithContext("pkg", "ledger")
//
// Contextual loggers are created at package init, before the command line is
// parsed. The root handler is therefore swappable: Init reconfigures output
// for all loggers already handed out.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// Logger is the structured leveled logger handed out to packages.
type Logger = *slog.Logger

var (
	base    atomic.Pointer[slog.Handler]
	baseLvl slog.LevelVar
)

func init() {
	baseLvl.Set(slog.LevelInfo)
	setBase(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &baseLvl}))
}

func setBase(h slog.Handler) {
	base.Store(&h)
}

// Init reconfigures the root handler output.
// verbosity maps 0..3 to error..debug; values above 3 mean debug.
// When json is set, records are emitted as JSON lines.
func Init(w io.Writer, verbosity int, json bool) {
	switch verbosity {
	case 0:
		baseLvl.Set(slog.LevelError)
	case 1:
		baseLvl.Set(slog.LevelWarn)
	case 2:
		baseLvl.Set(slog.LevelInfo)
	default:
		baseLvl.Set(slog.LevelDebug)
	}
	opts := &slog.HandlerOptions{Level: &baseLvl}
	if json {
		setBase(slog.NewJSONHandler(w, opts))
	} else {
		setBase(slog.NewTextHandler(w, opts))
	}
}

// SetLevel adjusts the root level at runtime.
func SetLevel(lvl slog.Level) {
	baseLvl.Set(lvl)
}

// Root returns the root logger.
func Root() Logger {
	return slog.New(&swapHandler{})
}

// WithContext returns a logger carrying the given key-value context.
func WithContext(kvs ...any) Logger {
	return Root().With(kvs...)
}

// swapHandler forwards records to the current base handler, replaying its
// accumulated attributes, so that Init applies to loggers created earlier.
type swapHandler struct {
	attrs []slog.Attr
}

func (h *swapHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return (*base.Load()).Enabled(ctx, lvl)
}

func (h *swapHandler) Handle(ctx context.Context, r slog.Record) error {
	current := *base.Load()
	if len(h.attrs) > 0 {
		current = current.WithAttrs(h.attrs)
	}
	return current.Handle(ctx, r)
}

func (h *swapHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &swapHandler{attrs: merged}
}

func (h *swapHandler) WithGroup(name string) slog.Handler {
	return h.WithAttrs([]slog.Attr{slog.String("group", name)})
}
