package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig("")
	assert.Equal(t, "acmeadmin", cfg.System.Appid)
	assert.Equal(t, 1816, cfg.Web.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "dir", cfg.Uploads.Backend)
	assert.Equal(t, "customers", cfg.Uploads.PublicPrefix)
}

func TestLoadConfigFromFile(t *testing.T) {
	cfile := filepath.Join(t.TempDir(), "acmeadmin.yml")
	require.NoError(t, os.WriteFile(cfile, []byte(`
system:
  workdir: /tmp/acmeadmin
database:
  type: sqlite
  name: testdb
web:
  port: 2816
`), 0o600))

	cfg := LoadConfig(cfile)
	assert.Equal(t, "/tmp/acmeadmin", cfg.System.Workdir)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "testdb", cfg.Database.Name)
	assert.Equal(t, 2816, cfg.Web.Port)
	assert.Equal(t, "acmeadmin", cfg.System.Appid, "unset keys keep their defaults")
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("ACMEADMIN_DB_TYPE", "sqlite")
	t.Setenv("ACMEADMIN_WEB_PORT", "3816")
	t.Setenv("ACMEADMIN_SYSTEM_DEMO_DATA", "false")

	cfg := LoadConfig("")
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, 3816, cfg.Web.Port)
	assert.False(t, cfg.System.DemoData)
}
