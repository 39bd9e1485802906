package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 3*time.Second, cfg.LoadBudget)
	assert.True(t, cfg.Headless)
	assert.Equal(t, 1280, cfg.Width)
	assert.Equal(t, 800, cfg.Height)
	assert.Empty(t, cfg.RecordDir)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("INTERNETCHECK_BASE_URL", "http://127.0.0.1:8080")
	t.Setenv("INTERNETCHECK_TIMEOUT", "2s")
	t.Setenv("INTERNETCHECK_HEADLESS", "false")
	t.Setenv("INTERNETCHECK_WIDTH", "375")
	t.Setenv("INTERNETCHECK_UPLOAD_FILE", "/tmp/image.webp")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8080", cfg.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.False(t, cfg.Headless)
	assert.Equal(t, 375, cfg.Width)
	assert.Equal(t, "/tmp/image.webp", cfg.UploadFile)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("INTERNETCHECK_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid, err := Load()
	require.NoError(t, err)

	cases := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"relative url", func(c *Config) { c.BaseURL = "/login" }, "scheme"},
		{"ftp url", func(c *Config) { c.BaseURL = "ftp://example.com" }, "scheme"},
		{"missing host", func(c *Config) { c.BaseURL = "http://" }, "missing host"},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, "timeout"},
		{"negative budget", func(c *Config) { c.LoadBudget = -time.Second }, "load budget"},
		{"zero width", func(c *Config) { c.Width = 0 }, "viewport"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}
