package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Rule is one endpoint rate limit. A Limit of zero or less means unlimited.
type Rule struct {
	Method     string // empty matches any method
	PathPrefix string
	Limit      int
	Window     time.Duration
	Burst      int
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Rules           []Rule
}

// DefaultConfig returns the stock configuration: a generous global limit,
// a tight limit on portal generation (it fans out to external services) and
// an unlimited health check.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    300,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Rules: []Rule{
			{Method: "GET", PathPrefix: "/healthz", Limit: 0},
			{Method: "POST", PathPrefix: "/api/portals/generate", Limit: 5, Window: time.Minute, Burst: 2},
		},
	}
}

// LoadConfig builds a Config from environment variables, falling back to
// defaults. RATE_LIMIT_ENABLED=false disables throttling entirely;
// RATE_LIMIT_DEFAULT overrides the global per-minute limit.
func LoadConfig() *Config {
	cfg := DefaultConfig()

	if v := os.Getenv("RATE_LIMIT_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Enabled = enabled
		}
	}
	if v := os.Getenv("RATE_LIMIT_DEFAULT"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			cfg.DefaultLimit = limit
		}
	}
	return cfg
}

// match returns the first rule matching the endpoint, or the global default.
func (c *Config) match(endpoint, method string) Rule {
	for _, rule := range c.Rules {
		if rule.Method != "" && !strings.EqualFold(rule.Method, method) {
			continue
		}
		if strings.HasPrefix(endpoint, rule.PathPrefix) {
			return rule
		}
	}
	return Rule{Limit: c.DefaultLimit, Window: c.DefaultWindow, Burst: c.DefaultLimit}
}
