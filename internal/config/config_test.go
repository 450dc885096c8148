package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/go-clinic-console/internal/config"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "APP_NAME", "DATA_FOLDER", "LOG_LEVEL", "ENV",
	"API_URL", "API_TIMEOUT", "API_RATE_LIMIT", "API_RATE_BURST", "TOKEN_DB", "TOKEN_KEY",
}

// clearEnv blanks every key so the host environment cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "console.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNew_Defaults(t *testing.T) {
	clearEnv(t)
	c := config.New()

	require.Equal(t, ":8081", c.GetPort())
	require.Equal(t, "DEV", c.GetEnv())
	require.Equal(t, "info", c.GetLogLevel())
	require.Equal(t, "http://localhost:3000/api", c.GetAPIURL())
	require.Equal(t, 10*time.Second, c.GetRequestTimeout())
	require.Zero(t, c.GetRateLimit())
	require.Equal(t, filepath.Join("./data", "session.db"), c.GetTokenDBPath())
	require.Empty(t, c.GetTokenKey())
}

func TestNew_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", ":9000")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("DATA_FOLDER", "/var/lib/clinic")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("API_RATE_LIMIT", "2.5")
	c := config.New()

	require.Equal(t, ":9000", c.GetPort())
	require.Equal(t, "debug", c.GetLogLevel())
	require.Equal(t, 3*time.Second, c.GetRequestTimeout())
	require.InDelta(t, 2.5, c.GetRateLimit(), 0.001)
	require.Equal(t, "/var/lib/clinic/session.db", c.GetTokenDBPath())
}

func TestNew_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_TIMEOUT", "soon")
	t.Setenv("API_RATE_LIMIT", "-1")
	t.Setenv("API_RATE_BURST", "0")
	c := config.New()

	require.Equal(t, 10*time.Second, c.GetRequestTimeout())
	require.Zero(t, c.GetRateLimit())
	require.Equal(t, 1, c.GetRateBurst())
}

func TestLoad(t *testing.T) {
	t.Run("file values", func(t *testing.T) {
		clearEnv(t)
		path := writeConfigFile(t, "API_URL: https://clinic.example.com/api\nPORT: \"7000\"\nTOKEN_DB: /tmp/tokens.db\n")

		c, err := config.Load(path)
		require.NoError(t, err)
		require.Equal(t, "https://clinic.example.com/api", c.GetAPIURL())
		require.Equal(t, ":7000", c.GetPort())
		require.Equal(t, "/tmp/tokens.db", c.GetTokenDBPath())
	})

	t.Run("environment wins over file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("API_URL", "http://10.0.0.5/api")
		path := writeConfigFile(t, "API_URL: https://clinic.example.com/api\n")

		c, err := config.Load(path)
		require.NoError(t, err)
		require.Equal(t, "http://10.0.0.5/api", c.GetAPIURL())
	})

	t.Run("empty path", func(t *testing.T) {
		clearEnv(t)
		c, err := config.Load("")
		require.NoError(t, err)
		require.Equal(t, ":8081", c.GetPort())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		_, err := config.Load(writeConfigFile(t, "API_URL: [unclosed\n"))
		require.Error(t, err)
	})
}
