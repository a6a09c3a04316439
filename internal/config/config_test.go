package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("CLEANUP_SCHEDULE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "data/northstar.db", cfg.Database.URL)
	assert.Equal(t, 5*time.Second, cfg.Database.BusyTimeout)
	assert.Equal(t, "/driver-view.html", cfg.Share.ViewerPath)
	assert.Equal(t, 10, cfg.Share.TokenLength)
	assert.Equal(t, "logs", cfg.Cleanup.LogDir)
	assert.Empty(t, cfg.Cleanup.Schedule)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/northstar?sslmode=disable")
	t.Setenv("PUBLIC_BASE_URL", "https://dispatch.example.com/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("SHARE_TOKEN_LENGTH", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "https://dispatch.example.com", cfg.Share.PublicBaseURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 10, cfg.Share.TokenLength, "invalid integers fall back to the default")
}

func TestLoadCleanup(t *testing.T) {
	t.Setenv("CLEANUP_SECRET_KEY", "s3cret")
	t.Setenv("CLEANUP_LOG_DIR", "/var/log/northstar")
	t.Setenv("CLEANUP_SCHEDULE", "@hourly")

	cfg := LoadCleanup()
	assert.Equal(t, "s3cret", cfg.SecretKey)
	assert.Equal(t, "/var/log/northstar", cfg.LogDir)
	assert.Equal(t, "@hourly", cfg.Schedule)

	full, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, full.Cleanup)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "invalid DATABASE_DRIVER"},
		{"empty url", func(c *Config) { c.Database.URL = "" }, "DATABASE_URL is required"},
		{"short token", func(c *Config) { c.Share.TokenLength = 4 }, "SHARE_TOKEN_LENGTH"},
		{"relative viewer path", func(c *Config) { c.Share.ViewerPath = "driver-view.html" }, "SHARE_VIEWER_PATH"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{
				Database: DatabaseConfig{Driver: DriverSQLite, URL: ":memory:"},
				Share:    ShareConfig{ViewerPath: "/driver-view.html", TokenLength: 10},
			}
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
