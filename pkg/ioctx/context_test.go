package ioctx

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStdout(t *testing.T) {
	ctx := context.Background()
	require.Equal(t, io.Discard, StdoutFromContext(ctx))

	var buf bytes.Buffer
	ctx = StdoutToContext(ctx, &buf)
	require.Same(t, &buf, StdoutFromContext(ctx))
}

func TestLogger(t *testing.T) {
	ctx := context.Background()
	require.Same(t, slog.Default(), LoggerFromContext(ctx))

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx = LoggerToContext(ctx, logger)
	require.Same(t, logger, LoggerFromContext(ctx))

	LoggerFromContext(ctx).Info("hello", "k", 1)
	require.Contains(t, buf.String(), "msg=hello k=1")
}
