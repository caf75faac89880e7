package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"default warn level", 0, zerolog.WarnLevel},
		{"info level", 1, zerolog.InfoLevel},
		{"debug level", 2, zerolog.DebugLevel},
		{"trace level", 3, zerolog.TraceLevel},
		{"high verbosity defaults to trace", 5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			t.Setenv("MODORG_STATE_DIR", "")
			t.Setenv("XDG_STATE_HOME", tempDir)

			SetupLogger(tt.verbosity)

			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())

			_, err := os.Stat(filepath.Join(tempDir, "modorg", "modorg.log"))
			assert.NoError(t, err, "log file should exist")
		})
	}
}

func TestGetLogFilePath(t *testing.T) {
	t.Run("state dir override", func(t *testing.T) {
		t.Setenv("MODORG_STATE_DIR", "/custom/modorg")
		assert.Equal(t, "/custom/modorg/modorg.log", getLogFilePath())
	})

	t.Run("xdg state home", func(t *testing.T) {
		t.Setenv("MODORG_STATE_DIR", "")
		t.Setenv("XDG_STATE_HOME", "/custom/state")
		assert.Equal(t, "/custom/state/modorg/modorg.log", getLogFilePath())
	})
}

func TestGetLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	original := log.Logger
	defer func() { log.Logger = original }()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = zerolog.New(&buf)

	logger := GetLogger("resolver")
	logger.Info().Msg("hello")

	require.NotEmpty(t, buf.String())
	assert.Contains(t, buf.String(), `"component":"resolver"`)
}
