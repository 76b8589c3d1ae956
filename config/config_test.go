package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvBaseDir, EnvBaseID, EnvRemoveNull, EnvCleanInnerSchemas, EnvTimeout} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBaseDir, " defs ")
	t.Setenv(EnvBaseID, "https://example.org/defs/")
	t.Setenv(EnvRemoveNull, "true")
	t.Setenv(EnvTimeout, "3s")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, &Config{
		BaseDir:    "defs",
		BaseID:     "https://example.org/defs/",
		RemoveNull: true,
		Timeout:    3 * time.Second,
	}, cfg)
}

func TestFromEnvErrors(t *testing.T) {
	for name, env := range map[string][2]string{
		"bool":     {EnvCleanInnerSchemas, "sometimes"},
		"duration": {EnvTimeout, "soon"},
		"negative": {EnvTimeout, "-1s"},
	} {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(env[0], env[1])
			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), env[0])
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	file := filepath.Join(t.TempDir(), "propdefs.env")
	require.NoError(t, os.WriteFile(file, []byte(EnvBaseID+"=https://example.org/x/\n"+EnvRemoveNull+"=1\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv(EnvBaseID)
		os.Unsetenv(EnvRemoveNull)
	})

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/x/", cfg.BaseID)
	assert.True(t, cfg.RemoveNull)
}

func TestLoadEnvDoesNotOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBaseDir, "from-env")
	file := filepath.Join(t.TempDir(), "propdefs.env")
	require.NoError(t, os.WriteFile(file, []byte(EnvBaseDir+"=from-file\n"), 0o644))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.BaseDir)
}

func TestLoadMissing(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	_, err := Load("")
	assert.NoError(t, err)

	_, err = Load("does-not-exist.env")
	assert.Error(t, err)
}
