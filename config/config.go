// Package config loads service settings from the environment and the
// optional YAML policy file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"genie/conversation"
	"genie/finmath"
	"genie/session"
	"genie/store"
)

type Config struct {
	RedisURL       string
	Port           string
	AllowedOrigins []string

	LogLevel  string
	LogFormat string

	TypingDelay     time.Duration
	NavigationDelay time.Duration
	SessionIdleTTL  time.Duration

	RateLimitRPS   float64
	RateLimitBurst int
	ActivityLimit  int

	PolicyFile string
	Currency   string
}

// Load reads .env when present, then the environment. Unset variables take
// their defaults; malformed ones are an error.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		RedisURL:   get("REDIS_URL", "redis://localhost:6379"),
		Port:       get("PORT", "8080"),
		LogLevel:   get("GENIE_LOG_LEVEL", "info"),
		LogFormat:  get("GENIE_LOG_FORMAT", "json"),
		PolicyFile: get("GENIE_POLICY_FILE", ""),
		Currency:   strings.ToUpper(get("GENIE_CURRENCY", "USD")),
	}
	if origins := get("ALLOWED_ORIGINS", ""); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	var errs []error
	duration := func(key string, def time.Duration) time.Duration {
		raw := get(key, "")
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			errs = append(errs, fmt.Errorf("%s: invalid duration %q", key, raw))
			return def
		}
		return d
	}
	integer := func(key string, def int) int {
		raw := get(key, "")
		if raw == "" {
			return def
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			errs = append(errs, fmt.Errorf("%s: invalid integer %q", key, raw))
			return def
		}
		return n
	}

	cfg.TypingDelay = duration("GENIE_TYPING_DELAY", conversation.DefaultTypingDelay)
	cfg.NavigationDelay = duration("GENIE_NAVIGATION_DELAY", conversation.DefaultNavigationDelay)
	cfg.SessionIdleTTL = duration("GENIE_SESSION_IDLE_TTL", session.DefaultIdleTTL)
	cfg.RateLimitBurst = integer("GENIE_RATE_LIMIT_BURST", 5)
	cfg.ActivityLimit = integer("GENIE_ACTIVITY_LIMIT", store.DefaultActivityLimit)

	cfg.RateLimitRPS = 2
	if raw := get("GENIE_RATE_LIMIT_RPS", ""); raw != "" {
		rps, err := strconv.ParseFloat(raw, 64)
		if err != nil || rps < 0 {
			errs = append(errs, fmt.Errorf("GENIE_RATE_LIMIT_RPS: invalid number %q", raw))
		} else {
			cfg.RateLimitRPS = rps
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConversationOptions returns the delays for new conversations.
func (c *Config) ConversationOptions() conversation.Options {
	return conversation.Options{
		TypingDelay:     c.TypingDelay,
		NavigationDelay: c.NavigationDelay,
	}
}

// Policy returns the configured policy, or the default when no file is set.
func (c *Config) Policy() (finmath.Policy, error) {
	if c.PolicyFile == "" {
		return finmath.DefaultPolicy(), nil
	}
	return LoadPolicy(c.PolicyFile)
}

// LoadPolicy reads a YAML policy file. Keys it omits keep their defaults.
func LoadPolicy(path string) (finmath.Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return finmath.Policy{}, fmt.Errorf("failed to read policy: %w", err)
	}
	return ParsePolicy(data)
}

// ParsePolicy decodes and validates YAML policy bytes.
func ParsePolicy(data []byte) (finmath.Policy, error) {
	p := finmath.DefaultPolicy()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return finmath.Policy{}, fmt.Errorf("failed to parse policy: %w", err)
	}
	if err := p.Validate(); err != nil {
		return finmath.Policy{}, fmt.Errorf("invalid policy: %w", err)
	}
	return p, nil
}
