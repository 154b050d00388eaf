package ioctx

import (
	"context"
	"io"
	"log/slog"
)

type stdoutKey struct{}
type loggerKey struct{}

// StdoutFromContext returns the writer for user-facing output, or
// io.Discard.
func StdoutFromContext(ctx context.Context) io.Writer {
	writer := ctx.Value(stdoutKey{})
	if writer == nil {
		writer = io.Discard
	}

	return writer.(io.Writer)
}

func StdoutToContext(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, stdoutKey{}, w)
}

// LoggerFromContext returns the logger carried by ctx, or slog.Default().
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger := ctx.Value(loggerKey{})
	if logger == nil {
		return slog.Default()
	}

	return logger.(*slog.Logger)
}

func LoggerToContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}
