package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load([]string{"--jwt_secret", "a-long-enough-secret"})
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, "flashdeck.db", cfg.DBPath)
	require.Equal(t, 24*time.Hour, cfg.TokenTTL)
	require.Equal(t, 12, cfg.BcryptCost)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FLASHDECK_JWT_SECRET", "a-long-enough-secret")
	t.Setenv("FLASHDECK_ADDR", ":9999")
	t.Setenv("FLASHDECK_LOG_LEVEL", "debug")

	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, ":9999", cfg.Addr)
	require.Equal(t, "a-long-enough-secret", cfg.JWTSecret)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("FLASHDECK_ADDR", ":9999")
	cfg, err := Load([]string{"--jwt_secret", "a-long-enough-secret", "--addr", ":7777"})
	require.NoError(t, err)
	require.Equal(t, ":7777", cfg.Addr)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"addr: \":5555\"\njwt_secret: a-long-enough-secret\nlog_level: warn\n",
	), 0o600))

	cfg, err := Load([]string{"--config", path})
	require.NoError(t, err)
	require.Equal(t, ":5555", cfg.Addr)
	require.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{"missing jwt secret", nil},
		{"short jwt secret", []string{"--jwt_secret", "short"}},
		{"bad log level", []string{"--jwt_secret", "a-long-enough-secret", "--log_level", "loud"}},
		{"bad bcrypt cost", []string{"--jwt_secret", "a-long-enough-secret", "--bcrypt_cost", "99"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Load(c.args)
			require.Error(t, err)
		})
	}
}
