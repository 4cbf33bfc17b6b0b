package log

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{LogLevel: zerolog.DebugLevel, Type: JSONLogger, Out: &buf})
	t.Cleanup(func() { Init(Options{LogLevel: zerolog.Disabled, Out: &bytes.Buffer{}}) })

	Finalizer.Warn().Str("kind", "iterator").Msg("reclaimed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "finalizer", entry["component"])
	assert.Equal(t, "iterator", entry["kind"])
	assert.Equal(t, "warn", entry["level"])
}

func TestInitConsoleLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{LogLevel: zerolog.InfoLevel, Type: ConsoleLogger, Out: &buf})
	t.Cleanup(func() { Init(Options{LogLevel: zerolog.Disabled, Out: &bytes.Buffer{}}) })

	Binding.Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	Binding.Info().Msg("shown")
	assert.Contains(t, buf.String(), `message: "shown"`)
	assert.Contains(t, buf.String(), `"component": "binding"`)
}

func TestParseLoggerType(t *testing.T) {
	typ, err := ParseLoggerType("JSON")
	require.NoError(t, err)
	assert.Equal(t, JSONLogger, typ)

	typ, err = ParseLoggerType("")
	require.NoError(t, err)
	assert.Equal(t, ConsoleLogger, typ)

	_, err = ParseLoggerType("syslog")
	assert.Error(t, err)
}

func TestInitWhileLogging(t *testing.T) {
	t.Cleanup(func() { Init(Options{LogLevel: zerolog.Disabled, Out: &bytes.Buffer{}}) })

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			Finalizer.Warn().Int("i", i).Msg("reclaimed")
		}
	}()
	for i := 0; i < 200; i++ {
		Init(Options{LogLevel: zerolog.WarnLevel, Type: JSONLogger, Out: io.Discard})
	}
	<-done
}
