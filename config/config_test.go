package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, uint32(1<<20), cfg.Session.MaxFrameSize)
	assert.Equal(t, uint32(3600), cfg.Session.TimeoutSeconds)
	assert.Equal(t, uint8(0x01), cfg.Session.CipherSuite)
	assert.Equal(t, uint32(256), cfg.Safety.MaxElements)
	assert.Equal(t, 1.75, cfg.Safety.ShannonK)
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromFileOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("session:\n  timeout_seconds: 60\n"), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(60), cfg.Session.TimeoutSeconds)
	assert.Equal(t, uint32(1<<20), cfg.Session.MaxFrameSize)
}

func TestApplyEnvironmentOverrides(t *testing.T) {
	t.Setenv("NSP_SESSION_TIMEOUT_SECONDS", "42")
	t.Setenv("NSP_KEYSTORE_DIR", "/tmp/keys")

	cfg := Default()
	applyEnvironmentOverrides(cfg)

	assert.Equal(t, uint32(42), cfg.Session.TimeoutSeconds)
	assert.Equal(t, "/tmp/keys", cfg.KeyStore.Directory)
}
