package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anggasct/robo/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.Strict)
	assert.Equal(t, 5*time.Second, cfg.TaskTimeout)
	assert.Equal(t, slog.LevelWarn, cfg.Level())
}

func TestLoad_Environment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ROBO_LOG_LEVEL", "debug")
	t.Setenv("ROBO_LOG_FORMAT", "json")
	t.Setenv("ROBO_STRICT", "true")
	t.Setenv("ROBO_TASK_TIMEOUT", "250ms")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.Strict)
	assert.Equal(t, 250*time.Millisecond, cfg.TaskTimeout)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "robo.env")
	require.NoError(t, os.WriteFile(path, []byte("ROBO_LOG_LEVEL=error\nROBO_TASK_TIMEOUT=2s\n"), 0o600))

	// godotenv never overrides variables that are already set.
	t.Setenv("ROBO_LOG_LEVEL", "")
	os.Unsetenv("ROBO_LOG_LEVEL")
	t.Setenv("ROBO_TASK_TIMEOUT", "")
	os.Unsetenv("ROBO_TASK_TIMEOUT")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, slog.LevelError, cfg.Level())
	assert.Equal(t, 2*time.Second, cfg.TaskTimeout)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"level", "ROBO_LOG_LEVEL", "loud"},
		{"format", "ROBO_LOG_FORMAT", "xml"},
		{"timeout", "ROBO_TASK_TIMEOUT", "0s"},
		{"unparsable timeout", "ROBO_TASK_TIMEOUT", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestParseLevel(t *testing.T) {
	l, err := config.ParseLevel("INFO")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, l)

	_, err = config.ParseLevel("verbose")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
