package correlation_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dogspotter/GoodNameAlert/internal/platform/correlation"
)

func TestWithID_RoundTrip(t *testing.T) {
	ctx := correlation.WithID(context.Background(), "abc-123")

	id, ok := correlation.ID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "abc-123", id)
}

func TestID_MissingOrEmpty(t *testing.T) {
	_, ok := correlation.ID(context.Background())
	assert.False(t, ok)

	_, ok = correlation.ID(correlation.WithID(context.Background(), ""))
	assert.False(t, ok)
}

func TestNewID_Unique(t *testing.T) {
	assert.NotEqual(t, correlation.NewID(), correlation.NewID())
}

func TestHandler_InjectsCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(correlation.NewHandler(slog.NewTextHandler(&buf, nil)))

	ctx := correlation.WithID(context.Background(), "abc-123")
	logger.InfoContext(ctx, "hello")

	require.Contains(t, buf.String(), "correlation_id=abc-123")

	buf.Reset()
	logger.Info("no context")
	assert.False(t, strings.Contains(buf.String(), "correlation_id"))
}
