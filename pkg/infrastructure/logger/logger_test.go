package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ConvertLogLevel("debug"))
	assert.Equal(t, logrus.WarnLevel, ConvertLogLevel("WARNING"))
	assert.Equal(t, logrus.ErrorLevel, ConvertLogLevel("error"))
	assert.Equal(t, logrus.InfoLevel, ConvertLogLevel("nonsense"))
}

func TestToSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, toSlogLevel(logrus.TraceLevel))
	assert.Equal(t, slog.LevelDebug, toSlogLevel(logrus.DebugLevel))
	assert.Equal(t, slog.LevelInfo, toSlogLevel(logrus.InfoLevel))
	assert.Equal(t, slog.LevelWarn, toSlogLevel(logrus.WarnLevel))
	assert.Equal(t, slog.LevelError, toSlogLevel(logrus.ErrorLevel))
}

func TestLogrusHandler(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrus.InfoLevel)

	log := slog.New(NewLogrusHandler(l)).With("component", "relay")
	log.Info("forwarded", "destination", 3007)
	log.Debug("dropped because level is info")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "forwarded", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "relay", entry["component"])
	assert.Equal(t, float64(3007), entry["destination"])
}
