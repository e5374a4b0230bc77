package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-kyugo/pagekit/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadConfigFile(t *testing.T) {
	p := writeConfig(t, `{
		"app": {"name": "demo", "debug": true},
		"server": {"host": "0.0.0.0", "port": 9000},
		"htmx": {"header": "X-Partial"},
		"views": {"dir": "tpl", "layout": "layout.jet"}
	}`)

	require.NoError(t, config.LoadConfig(p))

	c := config.ConfigVar
	assert.Equal(t, "demo", c.App.Name)
	assert.True(t, c.App.Debug)
	assert.Equal(t, "0.0.0.0:9000", c.Addr())
	assert.Equal(t, "X-Partial", c.Htmx.Header)
	assert.Equal(t, "layout.jet", c.Views.Layout)
	// untouched keys keep their defaults
	assert.Equal(t, 15, c.Server.ReadTimeoutSeconds)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	p := writeConfig(t, `{"server": {"port": 9000}}`)
	t.Setenv("PAGEKIT_SERVER_PORT", "9100")
	t.Setenv("PAGEKIT_HTMX_VALUE", "1")

	require.NoError(t, config.LoadConfig(p))
	assert.Equal(t, 9100, config.ConfigVar.Server.Port)
	assert.Equal(t, "1", config.ConfigVar.Htmx.Value)
}

func TestLoadConfigWithoutFile(t *testing.T) {
	require.NoError(t, config.LoadConfig(""))
	assert.Equal(t, config.Default(), config.ConfigVar)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		err := config.LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("bad json", func(t *testing.T) {
		require.Error(t, config.LoadConfig(writeConfig(t, `{`)))
	})

	t.Run("invalid port", func(t *testing.T) {
		err := config.LoadConfig(writeConfig(t, `{"server": {"port": 70000}}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid config")
	})
}
