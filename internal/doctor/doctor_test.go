package doctor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/local/scanbind/internal/config"
)

func missingToolsConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		Tools: config.ToolsConfig{
			RescalerBin: filepath.Join(dir, "no-such-rescaler"),
			CompilerBin: filepath.Join(dir, "no-such-compiler"),
		},
	}
}

func TestCheckReportsMissingTools(t *testing.T) {
	statuses := Check(context.Background(), missingToolsConfig(t))
	require.Len(t, statuses, 3)

	byName := map[string]Status{}
	for _, st := range statuses {
		byName[st.Name] = st
	}

	assert.False(t, byName["rescaler"].OK)
	assert.True(t, byName["rescaler"].Required)
	assert.False(t, byName["compiler"].OK)
	assert.True(t, byName["compiler"].Required)

	// No bucket configured means the archive check passes as optional.
	assert.True(t, byName["archive"].OK)
	assert.False(t, byName["archive"].Required)
	assert.Equal(t, "not configured", byName["archive"].Message)
}

func TestCheckReportsToolVersion(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake tool scripts need a POSIX shell")
	}
	bin := filepath.Join(t.TempDir(), "fake-magick")
	script := "#!/bin/sh\necho \"Version: ImageMagick 7.1.1-15\"\necho \"Copyright...\"\n"
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))

	cfg := missingToolsConfig(t)
	cfg.Tools.RescalerBin = bin

	statuses := Check(context.Background(), cfg)
	byName := map[string]Status{}
	for _, st := range statuses {
		byName[st.Name] = st
	}

	assert.True(t, byName["rescaler"].OK)
	assert.Equal(t, "Version: ImageMagick 7.1.1-15", byName["rescaler"].Message)
}

func TestRunFailsWhenRequiredToolsMissing(t *testing.T) {
	err := Run(context.Background(), missingToolsConfig(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required dependency check(s) failed")
}

type timeoutErr struct{}

func (timeoutErr) Error() string { return "dial tcp: i/o timeout" }
func (timeoutErr) Timeout() bool { return true }

func TestTrimError(t *testing.T) {
	assert.Equal(t, "timeout", trimError(timeoutErr{}))
	assert.Equal(t, "plain failure", trimError(errors.New("plain failure")))

	long := strings.Repeat("x", 200)
	assert.Len(t, trimError(errors.New(long)), 120)
}
