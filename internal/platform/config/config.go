// Package config loads service configuration by layering defaults, an
// optional YAML file, and environment variables.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config captures every tunable of the retail-check service.
type Config struct {
	Addr     string `koanf:"addr"`
	LogLevel string `koanf:"log_level"`

	Provider ProviderConfig `koanf:"provider"`
	Breaker  BreakerConfig  `koanf:"breaker"`
	TTL      TTLConfig      `koanf:"ttl"`

	// RedisURL enables the shared results store when set; empty means
	// in-process caching only.
	RedisURL string `koanf:"redis_url"`

	// Stores maps operators to their provider advertiser ids. Lists don't
	// layer well through env vars, so these come from the YAML file.
	Stores []StoreEntry `koanf:"stores"`
}

// StoreEntry is one operator's provider-side identity.
type StoreEntry struct {
	OperatorID   string `koanf:"operator_id"`
	AdvertiserID string `koanf:"advertiser_id"`
}

// ProviderConfig describes the upstream vehicle-data provider.
type ProviderConfig struct {
	BaseURL string `koanf:"base_url"`
	Key     string `koanf:"key"`
	Secret  string `koanf:"secret"`
}

// BreakerConfig tunes the circuit guarding provider calls.
type BreakerConfig struct {
	FailureThreshold int           `koanf:"failure_threshold"`
	ResetTimeout     time.Duration `koanf:"reset_timeout"`
	CallTimeout      time.Duration `koanf:"call_timeout"`
}

// TTLConfig sets per-data-class cache lifetimes. Fallback trend data expires
// faster than real provider data so the real source is retried sooner.
type TTLConfig struct {
	AuthToken     time.Duration `koanf:"auth_token"`
	StoreConfig   time.Duration `koanf:"store_config"`
	Results       time.Duration `koanf:"results"`
	Trend         time.Duration `koanf:"trend"`
	TrendFallback time.Duration `koanf:"trend_fallback"`
}

// Defaults returns the baseline configuration before file/env layering.
func Defaults() Config {
	return Config{
		Addr:     ":8080",
		LogLevel: "info",
		Breaker: BreakerConfig{
			FailureThreshold: 5,
			ResetTimeout:     60 * time.Second,
			CallTimeout:      30 * time.Second,
		},
		TTL: TTLConfig{
			AuthToken:     10 * time.Minute,
			StoreConfig:   time.Hour,
			Results:       15 * time.Minute,
			Trend:         time.Hour,
			TrendFallback: 5 * time.Minute,
		},
	}
}

// Load builds a Config by layering, lowest precedence first:
//  1. Defaults()
//  2. YAML file named by FORECOURT_CONFIG, when set
//  3. environment variables with the FORECOURT_ prefix, where
//     FORECOURT_PROVIDER_BASE_URL maps to provider.base_url
func Load() (Config, error) {
	cfg := Defaults()

	k := koanf.New(".")

	if path := os.Getenv("FORECOURT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, err
		}
	}

	envProvider := env.Provider("FORECOURT_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "FORECOURT_"))
		// First underscore separates the section from the key:
		// provider_base_url -> provider.base_url
		for _, section := range []string{"provider", "breaker", "ttl"} {
			if strings.HasPrefix(s, section+"_") {
				return section + "." + strings.TrimPrefix(s, section+"_")
			}
		}
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, err
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, err
	}

	if cfg.Addr == "" {
		return Config{}, errors.New("addr must not be empty")
	}
	if cfg.Provider.BaseURL == "" {
		return Config{}, errors.New("provider.base_url must not be empty")
	}
	return cfg, nil
}
