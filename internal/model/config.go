package model

import (
	"time"

	"github.com/ppiankov/claimcheck/internal/calendar"
)

// Config is the complete claimcheck configuration.
// Keys are shared by the YAML config file, viper and CLAIMCHECK_* environment variables.
type Config struct {
	Features     FeatureConfig      `yaml:"features" mapstructure:"features"`
	Rules        RulesConfig        `yaml:"rules" mapstructure:"rules"`
	Backend      BackendConfig      `yaml:"backend" mapstructure:"backend"`
	Events       EventsConfig       `yaml:"events" mapstructure:"events"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Session      SessionConfig      `yaml:"session" mapstructure:"session"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	Logging      LoggingConfig      `yaml:"logging" mapstructure:"logging"`
}

// FeatureConfig holds the go-live gates
type FeatureConfig struct {
	MultiSpecies   FeatureGate `yaml:"multi_species" mapstructure:"multi_species"`
	MultiHerds     FeatureGate `yaml:"multi_herds" mapstructure:"multi_herds"`
	DairyFollowUp  FeatureGate `yaml:"dairy_follow_up" mapstructure:"dairy_follow_up"`
	OptionalPIHunt FeatureGate `yaml:"optional_pi_hunt" mapstructure:"optional_pi_hunt"`
}

// FeatureGate switches a feature on from a release date, judged against the claim's own date
type FeatureGate struct {
	Enabled     bool          `yaml:"enabled" mapstructure:"enabled"`
	ReleaseDate calendar.Date `yaml:"release_date" mapstructure:"release_date"`
}

// RulesConfig tunes the temporal rules
type RulesConfig struct {
	SpacingMonths int `yaml:"spacing_months" mapstructure:"spacing_months"` // Minimum months between claims of the same kind
}

// BackendConfig configures the applications and claims API client
type BackendConfig struct {
	ApplicationsURL string        `yaml:"applications_url" mapstructure:"applications_url"`
	ClaimsURL       string        `yaml:"claims_url" mapstructure:"claims_url"`
	Timeout         time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent       string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxRetries      int           `yaml:"max_retries" mapstructure:"max_retries"`
	HTTPProxy       string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy      string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy         string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// EventsConfig configures where ineligibility and invalid-data events are sent.
// An empty URL logs events instead of posting them.
type EventsConfig struct {
	URL     string        `yaml:"url" mapstructure:"url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// CacheConfig configures caching of backend lookups
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
}

// SessionConfig configures the in-memory session store
type SessionConfig struct {
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// RateLimitingConfig limits calls to each backend host
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`

	// Claims API quota when it is stricter than the default; 0 keeps the default
	ClaimsRequestsPerSecond float64 `yaml:"claims_requests_per_second" mapstructure:"claims_requests_per_second"`
}

// ConcurrencyConfig sizes the batch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// LoggingConfig selects the slog handler
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // text or json
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Features: FeatureConfig{
			MultiSpecies:   FeatureGate{Enabled: true, ReleaseDate: calendar.MustParse("2025-02-26")},
			MultiHerds:     FeatureGate{Enabled: true, ReleaseDate: calendar.MustParse("2025-05-01")},
			DairyFollowUp:  FeatureGate{Enabled: true, ReleaseDate: calendar.MustParse("2025-01-21")},
			OptionalPIHunt: FeatureGate{Enabled: true, ReleaseDate: calendar.MustParse("2025-01-21")},
		},
		Rules: RulesConfig{
			SpacingMonths: 10,
		},
		Backend: BackendConfig{
			ApplicationsURL: "http://localhost:3001",
			ClaimsURL:       "http://localhost:3003",
			Timeout:         10 * time.Second,
			UserAgent:       "claimcheck/0.1",
			MaxRetries:      3,
		},
		Events: EventsConfig{
			Timeout: 5 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 5 * time.Minute,
			DiskTTL:   time.Hour,
			Dir:       ".claimcheck-cache",
		},
		Session: SessionConfig{
			TTL: 4 * time.Hour,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 10,
			BurstSize:         20,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
