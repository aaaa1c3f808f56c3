package sketchgo

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerOutput(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	idx, err := New(WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, idx.Fit(ctx, randomData(10, 4, 71)))

	_, err = idx.KNNSearch(ctx, randomData(2, 4, 72), 3)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "fit completed")
	assert.Contains(t, out, "rows=10")
	assert.Contains(t, out, "search completed")
	assert.Contains(t, out, "queries=2")
}

func TestLoggerError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	idx, err := New(WithLogger(logger))
	require.NoError(t, err)

	_, err = idx.KNNSearch(context.Background(), randomData(1, 4, 73), 1)
	require.Error(t, err)

	assert.Contains(t, buf.String(), "search failed")
}
