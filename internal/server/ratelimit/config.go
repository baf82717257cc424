package ratelimit

import (
	"strings"
	"time"

	"github.com/jonathan/brand-content-engine/internal/config"
)

// Rule limits requests for one method and path. A Path ending in "/" matches
// by prefix; a "*" segment matches any single path segment.
type Rule struct {
	Method string
	Path   string
	Limit  int
	Window time.Duration
	Burst  int // defaults to Limit
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	// IdleTTL is how long an unused bucket is kept.
	IdleTTL time.Duration
	Exempt  map[string]bool
	Rules   []Rule
}

// FromConfig builds the limiter configuration from service configuration.
func FromConfig(c config.RateLimit) *Config {
	exempt := make(map[string]bool, len(c.Exempt))
	for _, ip := range c.Exempt {
		exempt[ip] = true
	}
	return &Config{
		Enabled:         c.Enabled,
		DefaultLimit:    c.Default,
		DefaultWindow:   c.Window,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Exempt:          exempt,
		Rules:           GenerationRules(c.Generation),
	}
}

// GenerationRules limits the routes that call the model service or start
// background analysis. perHour <= 0 leaves them on the default limit.
func GenerationRules(perHour int) []Rule {
	if perHour <= 0 {
		return nil
	}
	burst := max(1, perHour/10)
	rule := func(method, path string) Rule {
		return Rule{Method: method, Path: path, Limit: perHour, Window: time.Hour, Burst: burst}
	}
	return []Rule{
		rule("POST", "/hooks"),
		rule("POST", "/posts"),
		rule("POST", "/rewrite"),
		rule("POST", "/image-prompt"),
		rule("POST", "/analysis"),
		// regenerate
		rule("POST", "/tenants/"),
		// a cache miss generates the template
		rule("GET", "/tenants/*/prompts/*"),
	}
}

// match finds the rule for a request: exact paths first, then prefixes.
// GET /health is never limited.
func match(rules []Rule, method, path string) (Rule, bool) {
	if method == "GET" && path == "/health" {
		return Rule{}, true
	}
	for _, r := range rules {
		if r.Method == method && (r.Path == path || segmentsMatch(r.Path, path)) {
			return r, true
		}
	}
	for _, r := range rules {
		if r.Method == method && strings.HasSuffix(r.Path, "/") && len(path) > len(r.Path) && strings.HasPrefix(path, r.Path) {
			return r, true
		}
	}
	return Rule{}, false
}

func segmentsMatch(pattern, path string) bool {
	if !strings.Contains(pattern, "*") {
		return false
	}
	want := strings.Split(pattern, "/")
	got := strings.Split(path, "/")
	if len(want) != len(got) {
		return false
	}
	for i, seg := range want {
		if seg != got[i] && (seg != "*" || got[i] == "") {
			return false
		}
	}
	return true
}
