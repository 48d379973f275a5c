package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "scanbind.log")

	require.NoError(t, Init(Options{Level: "debug", File: logFile}))
	defer Close()

	Get().Info().Str("stage", "rescale").Msg("logger smoke")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"logger smoke"`)
	assert.Contains(t, string(data), `"stage":"rescale"`)
}

func TestInitUnknownLevelFallsBackToInfo(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "scanbind.log")

	require.NoError(t, Init(Options{Level: "chatty", File: logFile}))
	defer Close()

	Get().Debug().Msg("below threshold")
	Get().Info().Msg("at threshold")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "below threshold")
	assert.Contains(t, string(data), "at threshold")
}

func TestAxiomWriterDropsDebugLines(t *testing.T) {
	w := &axiomWriter{}
	line := []byte(`{"level":"debug","message":"noise"}`)

	n, err := w.Write(line)
	require.NoError(t, err)
	assert.Equal(t, len(line), n)
}
