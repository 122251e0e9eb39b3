// Package config provides the apiprobe configuration loader.
// Configuration is resolved from command-line flags → environment variables →
// factory defaults. No configuration file is read.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	v1 "github.com/f9-o/apiprobe/api/v1"
	"github.com/f9-o/apiprobe/pkg/netutil"
)

// EnvPrefix is prepended to every apiprobe-specific variable.
const EnvPrefix = "APIPROBE"

// BaseURLEnv lists the variables consulted for the base URL, highest
// precedence first. Empty values are treated as unset.
var BaseURLEnv = []string{"NEXT_PUBLIC_BACKEND_URL", "BACKEND_URL"}

// Defaults contains factory-default values applied before anything else.
var Defaults = map[string]any{
	"base_url":         v1.DefaultBaseURL,
	"fallback_urls":    v1.DefaultFallbackURLs,
	"cold_start_delay": 60 * time.Second,
	"timeout":          time.Duration(0),
	"log.level":        "warn",
	"log.format":       "text",
	"log.file":         "",
}

// FlagKeys maps config keys to the flag names that override them.
var FlagKeys = map[string]string{
	"base_url":         "base-url",
	"fallback_urls":    "fallback",
	"cold_start_delay": "cold-start",
	"timeout":          "timeout",
}

// ─────────────────────────────────────────────────────────────────────────────
// Config types
// ─────────────────────────────────────────────────────────────────────────────

// Config is the fully-resolved runtime configuration.
type Config struct {
	BaseURL        string        `mapstructure:"base_url"`
	FallbackURLs   []string      `mapstructure:"fallback_urls"`
	ColdStartDelay time.Duration `mapstructure:"cold_start_delay"` // wait before the final ping retry
	Timeout        time.Duration `mapstructure:"timeout"`          // per-request; 0 means none
	Log            LogConfig     `mapstructure:"log"`

	// BaseURLSource names where BaseURL came from: a flag, an environment
	// variable name, or "default".
	BaseURLSource string `mapstructure:"-"`
}

// LogConfig controls logging behaviour.
type LogConfig struct {
	Level  string `mapstructure:"level"` // debug | info | warn | error
	File   string `mapstructure:"file"`
	Format string `mapstructure:"format"` // json | text
}

// ─────────────────────────────────────────────────────────────────────────────
// Loader
// ─────────────────────────────────────────────────────────────────────────────

// Load resolves the configuration. flags may be nil; when given, any flag in
// FlagKeys that was set explicitly overrides the environment.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	for k, val := range Defaults {
		v.SetDefault(k, val)
	}

	// APIPROBE_LOG_LEVEL → log.level, APIPROBE_COLD_START_DELAY → cold_start_delay
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindArgs := append([]string{"base_url"}, BaseURLEnv...)
	if err := v.BindEnv(bindArgs...); err != nil {
		return nil, fmt.Errorf("bind base url env: %w", err)
	}

	if flags != nil {
		for key, name := range FlagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag --%s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.BaseURLSource = baseURLSource(flags)

	if err := normalize(&cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return &cfg, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ─────────────────────────────────────────────────────────────────────────────

func baseURLSource(flags *pflag.FlagSet) string {
	if flags != nil {
		if f := flags.Lookup(FlagKeys["base_url"]); f != nil && f.Changed {
			return "--" + f.Name
		}
	}
	for _, name := range BaseURLEnv {
		if os.Getenv(name) != "" {
			return name
		}
	}
	return "default"
}

// normalize canonicalises URLs and checks durations.
func normalize(cfg *Config) error {
	base, err := netutil.NormalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return err
	}
	cfg.BaseURL = base

	alts := netutil.SplitList(cfg.FallbackURLs)
	normalized := make([]string, 0, len(alts))
	for _, raw := range alts {
		u, err := netutil.NormalizeBaseURL(raw)
		if err != nil {
			return fmt.Errorf("fallback url: %w", err)
		}
		normalized = append(normalized, u)
	}
	cfg.FallbackURLs = normalized

	if cfg.ColdStartDelay < 0 {
		return fmt.Errorf("cold start delay must not be negative (got %s)", cfg.ColdStartDelay)
	}
	if cfg.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative (got %s)", cfg.Timeout)
	}
	return nil
}
