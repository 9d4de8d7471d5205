// Package config loads server and engine configuration.
//
// Configuration comes from three layers, later layers overriding earlier
// ones:
//   - built-in defaults
//   - an optional TOML file
//   - TANKLAB_* environment variables
package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/proaptus/tanklab/pkg/errors"
)

// Config is the complete runtime configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
	Engine EngineConfig `toml:"engine"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	// Addr is the listen address, host:port.
	Addr string `toml:"addr"`

	// ReadTimeoutSec and WriteTimeoutSec bound request handling.
	ReadTimeoutSec  int `toml:"read_timeout_sec"`
	WriteTimeoutSec int `toml:"write_timeout_sec"`
}

// StoreConfig selects the design storage backend.
type StoreConfig struct {
	// Backend is one of memory, file, redis, mongo.
	Backend string `toml:"backend"`

	// Dir is the base directory for the file backend.
	Dir string `toml:"dir"`

	// RedisAddr is the host:port of the Redis server.
	RedisAddr string `toml:"redis_addr"`

	// MongoURI and MongoDatabase configure the mongo backend.
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// EngineConfig tunes the analysis engine. Zero values select the engine
// defaults.
type EngineConfig struct {
	AllowableMPa float64 `toml:"allowable_mpa"`
	StrengthMPa  float64 `toml:"strength_mpa"`
	StrengthCOV  float64 `toml:"strength_cov"`
	StressCOV    float64 `toml:"stress_cov"`
	Slices       int     `toml:"slices"`
	BurstRatio   float64 `toml:"burst_ratio"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeoutSec:  15,
			WriteTimeoutSec: 60,
		},
		Store: StoreConfig{
			Backend: "memory",
		},
	}
}

// Load builds the configuration from defaults, an optional TOML file, and
// environment overrides. An empty path skips the file layer.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config file %s", path)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config file %s", path)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv overrides fields from TANKLAB_* environment variables.
func applyEnv(cfg *Config) {
	setString(&cfg.Server.Addr, "TANKLAB_ADDR")
	setString(&cfg.Store.Backend, "TANKLAB_STORE_BACKEND")
	setString(&cfg.Store.Dir, "TANKLAB_STORE_DIR")
	setString(&cfg.Store.RedisAddr, "TANKLAB_REDIS_ADDR")
	setString(&cfg.Store.MongoURI, "TANKLAB_MONGO_URI")
	setString(&cfg.Store.MongoDatabase, "TANKLAB_MONGO_DATABASE")
	setFloat(&cfg.Engine.AllowableMPa, "TANKLAB_ALLOWABLE_MPA")
	setFloat(&cfg.Engine.StrengthMPa, "TANKLAB_STRENGTH_MPA")
	setInt(&cfg.Engine.Slices, "TANKLAB_SLICES")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
