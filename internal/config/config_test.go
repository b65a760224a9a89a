package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:     AppConfig{Environment: "development"},
		Logger:  LoggerConfig{Level: "info"},
		Storage: StorageConfig{DataPath: "/some/path"},
		Catalog: CatalogConfig{
			BaseURL:           "https://api.jikan.moe/v4",
			RequestsPerSecond: 3,
			Burst:             3,
			MaxRetries:        3,
			InitialDelay:      time.Second,
			MaxDelay:          10 * time.Second,
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"INFO", true},
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_CatalogSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.Catalog.BaseURL = "" }},
		{"zero retries", func(c *Config) { c.Catalog.MaxRetries = 0 }},
		{"zero initial delay", func(c *Config) { c.Catalog.InitialDelay = 0 }},
		{"max below initial", func(c *Config) { c.Catalog.MaxDelay = 500 * time.Millisecond }},
		{"negative jitter", func(c *Config) { c.Catalog.Jitter = -0.1 }},
		{"jitter of one", func(c *Config) { c.Catalog.Jitter = 1 }},
		{"zero rps", func(c *Config) { c.Catalog.RequestsPerSecond = 0 }},
		{"zero burst", func(c *Config) { c.Catalog.Burst = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_EmptyDataPath(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.DataPath = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data path")
}

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Run("empty uses default", func(t *testing.T) {
		got, err := expandPath("", "/default")
		require.NoError(t, err)
		assert.Equal(t, "/default", got)
	})

	t.Run("tilde expansion", func(t *testing.T) {
		got, err := expandPath("~/vault", "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(homeDir, "vault"), got)
	})

	t.Run("absolute path is cleaned", func(t *testing.T) {
		got, err := expandPath("/var/lib/../lib/vault", "")
		require.NoError(t, err)
		assert.Equal(t, "/var/lib/vault", got)
	})

	t.Run("relative path becomes absolute", func(t *testing.T) {
		got, err := expandPath("data", "")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got))
		assert.Equal(t, "data", filepath.Base(got))
	})
}

func TestGetConfigValue_Precedence(t *testing.T) {
	assert.Equal(t, "flag-value", getConfigValue("flag-value", "ENV_KEY", "default-value"))

	t.Setenv("TEST_ENV_KEY", "env-value")
	assert.Equal(t, "env-value", getConfigValue("", "TEST_ENV_KEY", "default-value"))

	assert.Equal(t, "default-value", getConfigValue("", "NONEXISTENT_KEY", "default-value"))
}

func TestGetNumericConfigValues(t *testing.T) {
	t.Setenv("TEST_INT", "7")
	t.Setenv("TEST_FLOAT", "2.5")
	t.Setenv("TEST_BAD", "seven")

	assert.Equal(t, 7, getIntConfigValue("", "TEST_INT", 1))
	assert.Equal(t, 9, getIntConfigValue("9", "TEST_INT", 1))
	assert.Equal(t, 1, getIntConfigValue("", "TEST_BAD", 1))
	assert.InDelta(t, 2.5, getFloatConfigValue("", "TEST_FLOAT", 1), 0.0001)
	assert.InDelta(t, 1.0, getFloatConfigValue("", "TEST_BAD", 1), 0.0001)
}

func TestLoadEnvFile_ValidFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := `# Test env file
CATALOG_TEST_LEVEL=debug
CATALOG_TEST_PATH=/test/path
# Comment line

CATALOG_TEST_QUOTED="some value"
CATALOG_TEST_SINGLE='another value'
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	for _, key := range []string{"CATALOG_TEST_LEVEL", "CATALOG_TEST_PATH", "CATALOG_TEST_QUOTED", "CATALOG_TEST_SINGLE"} {
		t.Setenv(key, "")
	}

	require.NoError(t, loadEnvFile(envFile))

	assert.Equal(t, "debug", os.Getenv("CATALOG_TEST_LEVEL"))
	assert.Equal(t, "/test/path", os.Getenv("CATALOG_TEST_PATH"))
	assert.Equal(t, "some value", os.Getenv("CATALOG_TEST_QUOTED"))
	assert.Equal(t, "another value", os.Getenv("CATALOG_TEST_SINGLE"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("NOT_A_PAIR\n"), 0o600))

	err := loadEnvFile(envFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestLoadEnvFile_NonExistentFile(t *testing.T) {
	assert.Error(t, loadEnvFile("/nonexistent/.env"))
}

func TestLoadEnvFile_ExistingEnvVarsNotOverwritten(t *testing.T) {
	t.Setenv("CATALOG_TEST_KEEP", "original-value")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("CATALOG_TEST_KEEP=file-value\n"), 0o600))

	require.NoError(t, loadEnvFile(envFile))
	assert.Equal(t, "original-value", os.Getenv("CATALOG_TEST_KEEP"))
}

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("CATALOG_BASE_URL", "")
	t.Setenv("CATALOG_MAX_RETRIES", "")
	t.Setenv("CATALOG_INITIAL_DELAY", "")
	t.Setenv("CATALOG_TIMEOUT", "")
	t.Setenv("CATALOG_MAX_DELAY", "20s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, http://localhost:5173")

	cfg, err := Load([]string{
		"-env-file", filepath.Join(dataDir, "missing.env"),
		"-data-path", dataDir,
		"-catalog-url", "http://upstream.test/v4/",
		"-catalog-max-retries", "5",
	})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, dataDir, cfg.Storage.DataPath)
	assert.Equal(t, "http://upstream.test/v4", cfg.Catalog.BaseURL)
	assert.Equal(t, 5, cfg.Catalog.MaxRetries)
	assert.Equal(t, time.Second, cfg.Catalog.InitialDelay)
	assert.Equal(t, 20*time.Second, cfg.Catalog.MaxDelay)
	assert.Equal(t, 15*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.Server.AllowedOrigins)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("CATALOG_INITIAL_DELAY", "soon")

	_, err := Load([]string{"-env-file", "/nonexistent/.env", "-data-path", t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CATALOG_INITIAL_DELAY")
}
