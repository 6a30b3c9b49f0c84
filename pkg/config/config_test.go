package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktracker/pkg/config"
)

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "15")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.SecretKey)
	assert.Equal(t, "HS256", cfg.Algorithm)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL())
	assert.Equal(t, config.DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoad_DotEnvFile(t *testing.T) {
	// t.Setenv restores the original values once the file has been loaded
	t.Setenv("SECRET_KEY", "")
	os.Unsetenv("SECRET_KEY")
	t.Setenv("ALGORITHM", "")
	os.Unsetenv("ALGORITHM")

	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("SECRET_KEY=from-file\nALGORITHM=HS512\n"), 0o600))

	cfg, err := config.Load(file)

	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.SecretKey)
	assert.Equal(t, "HS512", cfg.Algorithm)
}

func TestValidate(t *testing.T) {
	t.Run("default config is valid", func(t *testing.T) {
		assert.NoError(t, config.GetDefaultConfig().Validate())
	})

	t.Run("missing secret", func(t *testing.T) {
		cfg := config.GetDefaultConfig()
		cfg.SecretKey = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		cfg := config.GetDefaultConfig()
		cfg.Algorithm = "RS256"
		assert.Error(t, cfg.Validate())
	})

	t.Run("postgres without url", func(t *testing.T) {
		cfg := config.GetDefaultConfig()
		cfg.DatabaseDriver = config.DriverPostgres
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := config.GetDefaultConfig()
		cfg.DatabaseDriver = "mysql"
		assert.Error(t, cfg.Validate())
	})
}
