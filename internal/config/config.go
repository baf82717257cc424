// Package config loads service configuration from an optional file and the
// environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonathan/brand-content-engine/internal/llm"
)

// EnvPrefix prefixes every environment override, e.g. CONTENT_PORT.
const EnvPrefix = "CONTENT"

// Config is the service configuration.
type Config struct {
	Port         int    `mapstructure:"port"`
	DatabaseURL  string `mapstructure:"database_url"`
	RedisAddr    string `mapstructure:"redis_addr"`
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	LogMode      string `mapstructure:"log_mode"`

	// ExcerptLength caps the website excerpt kept on a normalized brand voice.
	ExcerptLength int `mapstructure:"excerpt_length"`

	Models    Models    `mapstructure:"models"`
	Analysis  Analysis  `mapstructure:"analysis"`
	RateLimit RateLimit `mapstructure:"rate_limit"`
}

// Models overrides the model name per tier. Empty values keep the defaults.
type Models struct {
	Lite     string `mapstructure:"lite"`
	Standard string `mapstructure:"standard"`
	Advanced string `mapstructure:"advanced"`
}

// Analysis configures the background website analysis jobs.
type Analysis struct {
	EvictDelay    time.Duration `mapstructure:"evict_delay"`
	WallClock     time.Duration `mapstructure:"wall_clock"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	PageCacheTTL  time.Duration `mapstructure:"page_cache_ttl"`
	UseBrowser    bool          `mapstructure:"use_browser"`
}

// RateLimit throttles API clients. Generation applies per hour to the
// model-backed routes; Default applies per Window to everything else.
type RateLimit struct {
	Enabled    bool          `mapstructure:"enabled"`
	Default    int           `mapstructure:"default"`
	Window     time.Duration `mapstructure:"window"`
	Generation int           `mapstructure:"generation"`
	Exempt     []string      `mapstructure:"exempt"`
}

// Conventional variable names accepted next to the prefixed ones.
var envAliases = map[string]string{
	"port":           "PORT",
	"database_url":   "DATABASE_URL",
	"redis_addr":     "REDIS_ADDR",
	"gemini_api_key": "GEMINI_API_KEY",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("database_url", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("log_mode", "development")
	v.SetDefault("excerpt_length", 3000)
	v.SetDefault("models.lite", "")
	v.SetDefault("models.standard", "")
	v.SetDefault("models.advanced", "")
	v.SetDefault("analysis.evict_delay", 5*time.Minute)
	v.SetDefault("analysis.wall_clock", 2*time.Minute)
	v.SetDefault("analysis.sweep_interval", time.Minute)
	v.SetDefault("analysis.page_cache_ttl", 24*time.Hour)
	v.SetDefault("analysis.use_browser", false)
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.default", 600)
	v.SetDefault("rate_limit.window", time.Minute)
	v.SetDefault("rate_limit.generation", 120)
	v.SetDefault("rate_limit.exempt", []string{})
}

// Load reads configuration. path may be empty, in which case only defaults
// and the environment apply. The file format follows its extension.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, alias := range envAliases {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(key), alias); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values. A missing API key
// is valid and selects mock mode.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.ExcerptLength < 0 {
		return fmt.Errorf("config error: 'excerpt_length' must be non-negative")
	}
	durations := map[string]time.Duration{
		"analysis.evict_delay":    c.Analysis.EvictDelay,
		"analysis.wall_clock":     c.Analysis.WallClock,
		"analysis.sweep_interval": c.Analysis.SweepInterval,
		"analysis.page_cache_ttl": c.Analysis.PageCacheTTL,
		"rate_limit.window":       c.RateLimit.Window,
	}
	for name, d := range durations {
		if d < 0 {
			return fmt.Errorf("config error: '%s' must be non-negative", name)
		}
	}
	if c.RateLimit.Default < 0 || c.RateLimit.Generation < 0 {
		return fmt.Errorf("config error: rate limits must be non-negative")
	}
	return nil
}

// MockMode reports whether no model credentials are configured.
func (c *Config) MockMode() bool {
	return strings.TrimSpace(c.GeminiAPIKey) == ""
}

// LLMConfig returns the model configuration with tier overrides applied.
func (c *Config) LLMConfig() *llm.Config {
	cfg := llm.DefaultConfig()
	overrides := map[llm.ModelTier]string{
		llm.TierLite:     c.Models.Lite,
		llm.TierStandard: c.Models.Standard,
		llm.TierAdvanced: c.Models.Advanced,
	}
	for tier, model := range overrides {
		if model != "" {
			cfg = cfg.WithModel(tier, model)
		}
	}
	return cfg
}
