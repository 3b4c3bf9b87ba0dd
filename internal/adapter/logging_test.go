package adapter

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type loginForm struct {
	Server   string
	Username string
	Password string
}

func TestNewLogger_RedactsPasswords(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info")

	logger.Info("login",
		"password", "hunter2",
		"form", loginForm{Server: "http://panel", Username: "bob", Password: "hunter2"},
	)

	out := buf.String()
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, "http://panel")
	assert.Contains(t, out, "bob")
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn")

	logger.Info("quiet")
	logger.Warn("loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("WARNING"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("nonsense"))
}
