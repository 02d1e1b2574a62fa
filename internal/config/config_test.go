package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.NotNil(t, cfg)
}

func TestLoadAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
portal:
  username: from-file
  password: file-secret
  element_timeout_seconds: 30
mqtt:
  enabled: true
  broker: homeassistant.local
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	t.Setenv("USMS_USERNAME", "from-env")
	t.Setenv("USMS_PASSWORD", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.Portal.Username)
	require.Equal(t, "file-secret", cfg.Portal.Password)
	require.Equal(t, 30*time.Second, cfg.GetElementTimeout())
	require.True(t, cfg.MQTT.Enabled)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := &Config{}
	cfg.Portal.Username = "user"
	cfg.Portal.Password = "pass"
	cfg.Cookies = []Cookie{{Name: "ASP.NET_SessionId", Value: "abc", Domain: "www.usms.com.bn", Path: "/"}}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "user", loaded.Portal.Username)
	require.Len(t, loaded.Cookies, 1)
	require.Equal(t, "ASP.NET_SessionId", loaded.Cookies[0].Name)
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}

	require.Equal(t, "https://www.usms.com.bn/SmartMeter/resLogin", cfg.GetLoginURL())
	require.Equal(t, 20*time.Second, cfg.GetLoginTimeout())
	require.Equal(t, 10*time.Second, cfg.GetElementTimeout())
	require.Equal(t, 3*time.Minute, cfg.GetOverallTimeout())
	require.Equal(t, "homeassistant", cfg.GetBaseTopic())
	require.Equal(t, ".", cfg.GetExportDir())
}

func TestPageSelectorsOverride(t *testing.T) {
	cfg := &Config{}
	cfg.Selectors.DataTable = `#NewGrid_DXMainTable`

	sel := cfg.PageSelectors()
	require.Equal(t, `#NewGrid_DXMainTable`, sel.DataTable)

	// Untouched fields keep their defaults.
	require.Equal(t, `tr.dxgvDataRow`, sel.DataRow)
	require.Equal(t, `Total units:`, sel.TotalPrefix)
}
