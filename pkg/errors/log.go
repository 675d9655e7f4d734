package errors

import (
	"log/slog"
	"os"
)

// LogHandler is an ErrorHandler that writes errors as structured log records.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
	// Logger receives the records. Nil logs text to stderr.
	Logger *slog.Logger
}

func (h *LogHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// HandleError logs an AnimaError.
func (h *LogHandler) HandleError(err *AnimaError) {
	if err == nil {
		return
	}
	attrs := []any{slog.String("op", err.Op), slog.String("kind", err.Kind.String())}
	if err.Animation != "" {
		attrs = append(attrs, slog.String("animation", err.Animation))
	}
	if err.Err != nil {
		attrs = append(attrs, slog.String("err", err.Err.Error()))
	}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, slog.String("stack", err.StackTrace))
	}
	h.logger().Error("anima error", attrs...)
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	attrs := []any{slog.Any("value", err.Value)}
	if err.Op != "" {
		attrs = append(attrs, slog.String("op", err.Op))
	}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, slog.String("stack", err.StackTrace))
	}
	h.logger().Error("anima panic", attrs...)
}
