package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hawkdb/hawkdb/internal/errs"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "mysql", cfg.Driver)
	assert.Equal(t, "data/hawkdb_config.ini", cfg.ProfilePath)
	assert.Equal(t, "exports", cfg.ExportDir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.ObjectStore.Enabled())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hawkdb.yaml")
	body := `
listen: ":9090"
driver: postgres
export_dir: /var/exports
log:
  level: debug
  format: console
object_store:
  endpoint: localhost:9000
  access_key: minioadmin
  secret_key: minioadmin
  bucket: exports
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, "postgres", cfg.Driver)
	assert.Equal(t, "/var/exports", cfg.ExportDir)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset keys keep their defaults.
	assert.Equal(t, "data/hawkdb_config.ini", cfg.ProfilePath)
	assert.True(t, cfg.ObjectStore.Enabled())
	assert.Equal(t, "exports", cfg.ObjectStore.Bucket)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
}
