package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONCarriesServiceName(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", "json")

	log.Info("link created", slog.String("slug", "abc1234"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "slinkr", entry["service"])
	assert.Equal(t, "abc1234", entry["slug"])
	assert.Equal(t, "link created", entry["msg"])
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "WARN", "text")

	log.Info("hidden")
	assert.Empty(t, buf.String())

	log.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}

func TestDetach_KeepsRequestIDDropsCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	ctx = WithRequestID(ctx, "req-1")

	detached := Detach(ctx)
	<-ctx.Done()

	assert.NoError(t, detached.Err())
	assert.Equal(t, "req-1", RequestIDFromContext(detached))
	assert.Same(t, FromContext(ctx), FromContext(detached))
}
