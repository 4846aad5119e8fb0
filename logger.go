package fixedarray

import (
	"context"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/hupe1980/fixedarray/array"
	"github.com/hupe1980/fixedarray/buffer"
)

// Logger wraps slog.Logger with consistent field names for bridge operations.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

func layoutAttrs(layout array.Layout) []any {
	return []any{
		"type", layout.Type.String(),
		"k", layout.VectorLen,
		"shape", buffer.Shape(layout),
		"size", humanize.IBytes(uint64(max(layout.ByteLen(), 0))),
	}
}

// LogAlloc logs an array allocation.
func (l *Logger) LogAlloc(ctx context.Context, layout array.Layout, err error) {
	if err != nil {
		l.ErrorContext(ctx, "allocation failed",
			append(layoutAttrs(layout), "error", err)...,
		)
		return
	}
	l.DebugContext(ctx, "array allocated", layoutAttrs(layout)...)
}

// LogExport logs an export. d is nil when the export failed.
func (l *Logger) LogExport(ctx context.Context, d *buffer.Descriptor, err error) {
	if err != nil {
		l.ErrorContext(ctx, "export failed", "error", err)
		return
	}
	l.DebugContext(ctx, "buffer exported",
		"format", d.Format,
		"shape", d.Shape,
		"strides", d.Strides,
		"readonly", d.ReadOnly,
	)
}

// LogImport logs an import. The descriptor fields are logged even on failure
// since they usually explain it.
func (l *Logger) LogImport(ctx context.Context, d *buffer.Descriptor, err error) {
	var attrs []any
	if d != nil {
		attrs = append(attrs,
			"format", d.Format,
			"shape", d.Shape,
			"strides", d.Strides,
			"size", humanize.IBytes(uint64(max(d.NumBytes(), 0))),
		)
	}
	if err != nil {
		l.WarnContext(ctx, "import rejected", append(attrs, "error", err)...)
		return
	}
	l.DebugContext(ctx, "buffer imported", attrs...)
}

// LogRelease logs an array release.
func (l *Logger) LogRelease(ctx context.Context, layout array.Layout, err error) {
	if err != nil {
		l.ErrorContext(ctx, "release failed",
			append(layoutAttrs(layout), "error", err)...,
		)
		return
	}
	l.DebugContext(ctx, "array released", layoutAttrs(layout)...)
}

// LogSnapshot logs a snapshot save or load.
func (l *Logger) LogSnapshot(ctx context.Context, op, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot "+op+" failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "snapshot "+op+" completed",
		"name", name,
	)
}
