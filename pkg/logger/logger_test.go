package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Run("json by default", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger.New(logger.WithOutput(buf)).Info("hello")
		entry := decode(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("text formatter", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger.New(logger.WithOutput(buf), logger.WithTextFormatter()).Info("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("context extractor", func(t *testing.T) {
		type key struct{}
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithContextValue("request_id", key{}))
		ctx := context.WithValue(context.Background(), key{}, "req-1")
		log.InfoContext(ctx, "hello")
		assert.Equal(t, "req-1", decode(t, buf)["request_id"])
	})

	t.Run("invalid format panics", func(t *testing.T) {
		assert.Panics(t, func() { logger.New(logger.WithFormat("xml")) })
	})
}

func TestNewFromConfig(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.NewFromConfig(logger.Config{
		Level:       "debug",
		Format:      logger.FormatJSON,
		Service:     "svc",
		Environment: "production",
	}, logger.WithOutput(buf))

	log.Debug("dbg")
	entry := decode(t, buf)
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "svc", entry["service"])
	assert.Equal(t, "production", entry["env"])
}

func TestDiscard(t *testing.T) {
	log := logger.Discard()
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
}

func TestAttrs(t *testing.T) {
	t.Run("session id is masked", func(t *testing.T) {
		attr := logger.SessionID("abcdefghijklmnop")
		assert.Equal(t, "session_id", attr.Key)
		assert.Equal(t, "abcdef***", attr.Value.String())
	})

	t.Run("empty values produce empty attrs", func(t *testing.T) {
		assert.True(t, logger.SessionID("").Equal(slog.Attr{}))
		assert.True(t, logger.Fingerprint("").Equal(slog.Attr{}))
		assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
		assert.True(t, logger.Errors(nil, nil).Equal(slog.Attr{}))
	})

	t.Run("errors group", func(t *testing.T) {
		attr := logger.Errors(errors.New("a"), nil, errors.New("b"))
		require.Equal(t, slog.KindGroup, attr.Value.Kind())
		assert.Len(t, attr.Value.Group(), 2)
	})

	t.Run("transition group", func(t *testing.T) {
		attr := logger.Transition("closed", "active", "start")
		g := attr.Value.Group()
		require.Len(t, g, 3)
		assert.Equal(t, "closed", g[0].Value.String())
	})
}

func TestMask(t *testing.T) {
	assert.Equal(t, "abc***yz", logger.Mask("abcdefxyz", 3, 2))
	assert.Equal(t, "****", logger.Mask("abcd", 3, 2))
	assert.Equal(t, "", logger.Mask("", 1, 1))
}

func TestWithEnvironment(t *testing.T) {
	t.Run("development is text at debug", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithEnvironment("dev", "svc"), logger.WithOutput(buf))
		log.Debug("visible")
		assert.Contains(t, buf.String(), "msg=visible")
		assert.Contains(t, buf.String(), "env=development")
	})

	t.Run("staging is json at info", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithEnvironment("stage", "svc"), logger.WithOutput(buf))
		log.Debug("hidden")
		assert.Empty(t, buf.String())
		log.Info("shown")
		entry := decode(t, buf)
		assert.Equal(t, "staging", entry["env"])
		assert.Equal(t, "svc", entry["service"])
	})
}
