package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	apperr "github.com/matzehuels/colortrade/pkg/errors"
)

// configValidate is shared by every LoadConfig call.
var configValidate = validator.New()

// Config is the optional TOML configuration file.
//
//	workers = 8
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "168h"
//	namespace = "staging"
//
//	[server]
//	addr = "0.0.0.0:8080"
//
//	[metrics]
//	textfile = "/var/lib/node_exporter/colortrade.prom"
type Config struct {
	Workers int           `toml:"workers" validate:"gte=0,lte=256"`
	Cache   CacheConfig   `toml:"cache"`
	Server  ServerConfig  `toml:"server"`
	Metrics MetricsConfig `toml:"metrics"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend   string        `toml:"backend" validate:"omitempty,oneof=file badger redis mongo none"`
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr" validate:"required_if=Backend redis"`
	MongoURI  string        `toml:"mongo_uri" validate:"required_if=Backend mongo"`
	TTL       time.Duration `toml:"ttl" validate:"gte=0"`

	// Namespace prefixes every key so several deployments can share one
	// Redis or Mongo backend.
	Namespace string `toml:"namespace" validate:"omitempty,max=64,printascii"`
}

// ServerConfig configures `colortrade serve`.
type ServerConfig struct {
	Addr         string        `toml:"addr" validate:"omitempty,hostname_port"`
	SolveTimeout time.Duration `toml:"solve_timeout" validate:"gte=0"`
}

// MetricsConfig configures the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `toml:"textfile"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() Config {
	return Config{Cache: CacheConfig{Backend: "file"}}
}

// defaultConfigPath returns $XDG_CONFIG_HOME/colortrade/config.toml.
func defaultConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LoadConfig reads the config file at path. An empty path selects the
// default location, which may be absent; an explicit path must exist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := defaultConfigPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return cfg, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, apperr.New(apperr.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := configValidate.Struct(cfg); err != nil {
		return cfg, apperr.Wrap(apperr.ErrCodeInvalidConfig, configErrors(err), "%s", path)
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "file"
	}
	return cfg, nil
}

// configErrors rewrites validator errors in terms of TOML keys.
func configErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s: failed %s", tomlKey(fe.Namespace()), fe.Tag())
	}
	return errors.New(strings.Join(msgs, "; "))
}

var tomlKeys = map[string]string{
	"Config.Workers":             "workers",
	"Config.Cache.Backend":       "cache.backend",
	"Config.Cache.RedisAddr":     "cache.redis_addr",
	"Config.Cache.MongoURI":      "cache.mongo_uri",
	"Config.Cache.TTL":           "cache.ttl",
	"Config.Cache.Namespace":     "cache.namespace",
	"Config.Server.Addr":         "server.addr",
	"Config.Server.SolveTimeout": "server.solve_timeout",
}

func tomlKey(ns string) string {
	if k, ok := tomlKeys[ns]; ok {
		return k
	}
	return ns
}
