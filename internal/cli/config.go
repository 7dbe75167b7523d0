package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	apperrors "github.com/matzehuels/wellpos/pkg/errors"
	"github.com/matzehuels/wellpos/pkg/pipeline"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// envRedisURL overrides cache.redis_url from the config file.
const envRedisURL = "WELLPOS_REDIS_URL"

// defaultAddr is the listen address of the serve command.
const defaultAddr = ":8080"

// Config is the optional config file:
//
//	tolerance = 0.01
//	exhaustive = true
//	workers = 4
//	max_frontier = 100000
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[serve]
//	addr = ":9090"
type Config struct {
	Tolerance   float64     `toml:"tolerance"`
	Exhaustive  bool        `toml:"exhaustive"`
	Workers     int         `toml:"workers"`
	MaxFrontier int         `toml:"max_frontier"`
	Cache       CacheConfig `toml:"cache"`
	Serve       ServeConfig `toml:"serve"`
}

// CacheConfig selects the result cache.
type CacheConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
}

// ServeConfig configures the HTTP API.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() Config {
	return Config{
		Cache: CacheConfig{Backend: BackendFile},
		Serve: ServeConfig{Addr: defaultAddr},
	}
}

// configPath returns the config file location ($XDG_CONFIG_HOME/wellpos/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// LoadConfig reads the config file at path, or the default location when
// path is empty. A missing default file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			cfg.applyEnv()
			return cfg, cfg.validate()
		}
		path = p
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		case errors.Is(err, fs.ErrNotExist):
			return cfg, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "config %s not found", path)
		default:
			return cfg, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "config %s", path)
		}
	}

	cfg.applyEnv()
	return cfg, cfg.validate()
}

func (cfg *Config) applyEnv() {
	if url := os.Getenv(envRedisURL); url != "" {
		cfg.Cache.RedisURL = url
	}
}

func (cfg *Config) validate() error {
	if cfg.Tolerance != 0 {
		if err := apperrors.ValidateTolerance(cfg.Tolerance); err != nil {
			return err
		}
	}
	if cfg.Workers < 0 || cfg.MaxFrontier < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "config: workers and max_frontier must not be negative")
	}
	switch cfg.Cache.Backend {
	case "":
		cfg.Cache.Backend = BackendFile
	case BackendFile, BackendNone:
	case BackendRedis:
		if cfg.Cache.RedisURL == "" {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "config: redis backend needs cache.redis_url or %s", envRedisURL)
		}
	default:
		return apperrors.New(apperrors.ErrCodeInvalidInput,
			"config: unknown cache backend %q (must be one of: file, redis, none)", cfg.Cache.Backend)
	}
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = defaultAddr
	}
	return nil
}

// applySolve fills solver options that were not set by flags. The
// tolerance falls back to the survey's own tolerance before the config.
func (cfg Config) applySolve(changed func(string) bool, opts *pipeline.Options, surveyTolerance float64) {
	if !changed("tolerance") {
		switch {
		case surveyTolerance > 0:
			opts.Tolerance = surveyTolerance
		case cfg.Tolerance > 0:
			opts.Tolerance = cfg.Tolerance
		}
	}
	if !changed("exhaustive") && cfg.Exhaustive {
		opts.Exhaustive = true
	}
	if !changed("workers") && cfg.Workers > 0 {
		opts.Workers = cfg.Workers
	}
	if !changed("max-frontier") && cfg.MaxFrontier > 0 {
		opts.MaxFrontier = cfg.MaxFrontier
	}
}
