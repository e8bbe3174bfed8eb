// Package config loads the application configuration from a TOML file.
// Every section has working defaults: an empty or missing file yields a
// fully usable in-memory configuration.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/framefold/remap/pkg/engine"
	"github.com/framefold/remap/pkg/errors"
)

// Config is the root configuration document.
type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Synth   SynthConfig   `toml:"synth"`
	Cache   CacheConfig   `toml:"cache"`
	Redis   RedisConfig   `toml:"redis"`
	Mongo   MongoConfig   `toml:"mongo"`
	Credits CreditsConfig `toml:"credits"`
	Server  ServerConfig  `toml:"server"`
}

// EngineConfig tunes the transform engine.
type EngineConfig struct {
	// MaxBoundaryViolationPercent widens the vertical clamp corridor as a
	// fraction of the target slot height.
	MaxBoundaryViolationPercent float64 `toml:"max_boundary_violation_percent"`

	// StretchThreshold is the scale factor above which an unconfirmed
	// mapping is routed to the confirmation gate.
	StretchThreshold float64 `toml:"stretch_threshold"`
}

// SynthConfig configures the preview synthesis backend.
type SynthConfig struct {
	// Backend selects the image client: "openai" or "mock".
	Backend string `toml:"backend"`
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
}

// CacheConfig selects the preview cache backend.
type CacheConfig struct {
	// Backend is "file", "redis", or "none".
	Backend string `toml:"backend"`

	// Dir is the file backend's directory. Empty means the user cache dir.
	Dir string `toml:"dir"`
}

// RedisConfig configures Redis, used by the redis cache backend and the
// payload mirror.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`

	// MirrorPayloads enables publishing registry payloads to Redis.
	MirrorPayloads bool `toml:"mirror_payloads"`
}

// MongoConfig configures the node state store.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// CreditsConfig sets the generation budget.
type CreditsConfig struct {
	Balance int `toml:"balance"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns a configuration with all defaults applied.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			MaxBoundaryViolationPercent: engine.DefaultMaxBoundaryViolationPercent,
			StretchThreshold:            engine.DefaultStretchThreshold,
		},
		Synth:   SynthConfig{Backend: "mock", Model: "dall-e-3"},
		Cache:   CacheConfig{Backend: "file"},
		Redis:   RedisConfig{Addr: "localhost:6379"},
		Mongo:   MongoConfig{Database: "remap"},
		Credits: CreditsConfig{Balance: 10},
		Server:  ServerConfig{Addr: ":8080"},
	}
}

// Load reads a TOML config file and merges it over the defaults. A missing
// path returns the defaults without error; a malformed file does not.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the rest of the system cannot work with.
func (c *Config) Validate() error {
	if c.Engine.MaxBoundaryViolationPercent < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "engine.max_boundary_violation_percent must be >= 0")
	}
	if c.Engine.StretchThreshold <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "engine.stretch_threshold must be > 0")
	}
	switch c.Synth.Backend {
	case "openai", "mock":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "synth.backend must be openai or mock, got %q", c.Synth.Backend)
	}
	switch c.Cache.Backend {
	case "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be file, redis, or none, got %q", c.Cache.Backend)
	}
	if c.Credits.Balance < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "credits.balance must be >= 0")
	}
	return nil
}

// EngineOptions converts the engine section to engine options.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		MaxBoundaryViolationPercent: c.Engine.MaxBoundaryViolationPercent,
		StretchThreshold:            c.Engine.StretchThreshold,
	}
}
