package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/brand-content-engine/internal/llm"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"PORT", "DATABASE_URL", "REDIS_ADDR", "GEMINI_API_KEY",
		"CONTENT_PORT", "CONTENT_DATABASE_URL", "CONTENT_REDIS_ADDR", "CONTENT_GEMINI_API_KEY",
		"CONTENT_LOG_MODE", "CONTENT_ANALYSIS_EVICT_DELAY"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 3000, cfg.ExcerptLength)
	assert.Equal(t, 5*time.Minute, cfg.Analysis.EvictDelay)
	assert.Equal(t, 2*time.Minute, cfg.Analysis.WallClock)
	assert.Equal(t, 24*time.Hour, cfg.Analysis.PageCacheTTL)
	assert.False(t, cfg.Analysis.UseBrowser)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 120, cfg.RateLimit.Generation)
	assert.True(t, cfg.MockMode())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	content := `
port: 9090
log_mode: production
models:
  advanced: gemini-exp
analysis:
  evict_delay: 90s
  use_browser: true
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "production", cfg.LogMode)
	assert.Equal(t, 90*time.Second, cfg.Analysis.EvictDelay)
	assert.True(t, cfg.Analysis.UseBrowser)
	assert.Equal(t, "gemini-exp", cfg.LLMConfig().GetModel(llm.TierAdvanced))
	assert.Equal(t, llm.DefaultConfig().GetModel(llm.TierLite), cfg.LLMConfig().GetModel(llm.TierLite))
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "key-from-alias")
	t.Setenv("CONTENT_PORT", "7070")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CONTENT_ANALYSIS_EVICT_DELAY", "10m")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "key-from-alias", cfg.GeminiAPIKey)
	assert.False(t, cfg.MockMode())
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 10*time.Minute, cfg.Analysis.EvictDelay)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"negative port", func(c *Config) { c.Port = -1 }, "port"},
		{"port too large", func(c *Config) { c.Port = 70000 }, "port"},
		{"negative excerpt", func(c *Config) { c.ExcerptLength = -5 }, "excerpt_length"},
		{"negative evict delay", func(c *Config) { c.Analysis.EvictDelay = -time.Second }, "analysis.evict_delay"},
		{"negative sweep", func(c *Config) { c.Analysis.SweepInterval = -time.Second }, "analysis.sweep_interval"},
		{"negative rate limit", func(c *Config) { c.RateLimit.Generation = -1 }, "rate limits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Port: 8080, ExcerptLength: 3000}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
