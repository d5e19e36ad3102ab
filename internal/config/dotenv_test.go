package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv_MissingFileIsNotAnError(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}

func TestLoadConfig_ReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LANGUAGE=telugu\nBATCH_SIZE=7\n"), 0o644))

	t.Cleanup(func() {
		_ = os.Unsetenv("LANGUAGE")
		_ = os.Unsetenv("BATCH_SIZE")
	})

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "telugu", cfg.Language())
	assert.Equal(t, 7, cfg.Batch().BatchSize())
}

func TestLoadConfig_EnvironmentWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LANGUAGE=telugu\n"), 0o644))

	t.Setenv("LANGUAGE", "urdu")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "urdu", cfg.Language())
}
