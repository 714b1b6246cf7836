package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
	}{
		{name: "JSON output mode", jsonOutput: true},
		{name: "Console output mode", jsonOutput: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger = nil
			JSONOutput = false

			require.NoError(t, Initialize(tt.jsonOutput, VerbosityInfo))
			assert.NotNil(t, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)

			Cleanup()
		})
	}
}

func TestInitializeWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitializeWithWriter(&buf, true, VerbosityInfo))

	Infow("wrote header", FieldOutput, "robot.h", FieldBytes, 1834)
	Cleanup()

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "wrote header", entry["msg"])
	assert.Equal(t, "robot.h", entry[FieldOutput])
	assert.EqualValues(t, 1834, entry[FieldBytes])
}

func TestInitializeRecordsVerbosity(t *testing.T) {
	t.Cleanup(func() { Verbosity = VerbosityUser })

	require.NoError(t, InitializeWithWriter(&bytes.Buffer{}, false, VerbosityTrace))
	assert.Equal(t, VerbosityTrace, Verbosity)
	assert.True(t, ShouldLogTrace(Verbosity))

	require.NoError(t, InitializeWithWriter(&bytes.Buffer{}, false, VerbosityInfo))
	assert.False(t, ShouldLogTrace(Verbosity))
}

func TestVerbosityFiltersLevels(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitializeWithWriter(&buf, true, VerbosityUser))

	Infow("hidden at default verbosity")
	Debugw("also hidden")
	Warnw("shown", FieldDecl, "Anki::Robot")
	Cleanup()

	out := buf.String()
	assert.NotContains(t, out, "hidden at default verbosity")
	assert.NotContains(t, out, "also hidden")
	assert.Contains(t, out, "shown")
	assert.Equal(t, 1, strings.Count(strings.TrimSpace(out), "\n")+1)
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{VerbosityUser, zapcore.WarnLevel},
		{VerbosityInfo, zapcore.InfoLevel},
		{VerbosityDebug, zapcore.DebugLevel},
		{VerbosityTrace, zapcore.DebugLevel},
		{10, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(LevelName(tt.verbosity), func(t *testing.T) {
			assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity))
		})
	}
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "User", LevelName(0))
	assert.Equal(t, "Info (-v)", LevelName(1))
	assert.Equal(t, "Trace (-vvv+)", LevelName(7))
	assert.Equal(t, "Unknown", LevelName(-3))
	assert.True(t, ShouldLogTrace(3))
	assert.False(t, ShouldLogTrace(2))
}

func TestNamedLoggerBeforeInitialize(t *testing.T) {
	Logger = nil
	Infow("no panic with nil logger")

	require.NoError(t, InitializeWithWriter(&bytes.Buffer{}, false, VerbosityUser))
	assert.NotNil(t, Named("parser"))
}
