package logger

import (
	"bytes"
	"encoding/json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		LOG_LEVEL_DEBUG: zerolog.DebugLevel,
		LOG_LEVEL_INFO:  zerolog.InfoLevel,
		LOG_LEVEL_WARN:  zerolog.WarnLevel,
		LOG_LEVEL_ERROR: zerolog.ErrorLevel,
		LOG_LEVEL_FATAL: zerolog.FatalLevel,
		LOG_LEVEL_PANIC: zerolog.PanicLevel,
		"verbose":       zerolog.InfoLevel,
	}
	for name, expected := range cases {
		require.Equal(t, expected, ParseLevel(name), name)
	}
}

func TestNewLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	prev := output
	SetOutput(&buf)
	defer SetOutput(prev)
	SetupLogging()
	t.Setenv(logLevelEnv, LOG_LEVEL_DEBUG)

	l := NewLogger("Test")
	l.Debug().Str("path", "train.txt").Msg("loaded")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "Test", entry["component"])
	require.Equal(t, "debug", entry["level_name"])
	require.Equal(t, "train.txt", entry["path"])
	require.Contains(t, entry, "timestamp")
}
