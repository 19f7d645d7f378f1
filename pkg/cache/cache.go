// Package cache provides the caching layer for solve results.
//
// Solving is deterministic: the same instance with the same options always
// yields the same colorings in the same order. That makes every stage of the
// pipeline safe to cache for a long time, keyed by a fingerprint of the
// instance.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [BadgerCache]: an embedded badger database, for large result sets
//   - [RedisCache]: a shared cache for several API servers
//   - [MongoCache]: a document store with a TTL index
//   - [NullCache]: caching disabled
//
// [Open] picks a backend from a [Config].
//
// # Keys
//
// A [Keyer] derives cache keys from instance fingerprints and options.
// [NewScopedKeyer] prefixes every key, which keeps tenants or schema
// versions apart inside one backend.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// TTLs for each cached stage.
const (
	// TTLSolve is the lifetime of an enumerated solution set.
	TTLSolve = 30 * 24 * time.Hour

	// TTLTrade is the lifetime of trade graph statistics.
	TTLTrade = 30 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A missing or expired key is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero keeps the entry until it is
	// deleted.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// Config selects and configures a backend.
type Config struct {
	Backend   string
	Dir       string // file and badger
	RedisAddr string
	MongoURI  string
	Logger    *log.Logger
}

// Open creates the backend named by cfg.Backend. An empty backend means
// file.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch cfg.Backend {
	case BackendFile, "":
		c, err = asCache(NewFileCache(cfg.Dir))
	case BackendBadger:
		c, err = asCache(NewBadgerCache(BadgerConfig{Dir: cfg.Dir, Logger: cfg.Logger}))
	case BackendRedis:
		c, err = asCache(NewRedisCache(ctx, RedisConfig{Addr: cfg.RedisAddr}))
	case BackendMongo:
		c, err = asCache(NewMongoCache(ctx, MongoConfig{URI: cfg.MongoURI}))
	case BackendNone:
		c = NewNullCache()
	default:
		err = fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", cfg.Backend, err)
	}
	return c, nil
}

// asCache converts a typed constructor result without turning a nil
// pointer into a non-nil interface.
func asCache[T Cache](c T, err error) (Cache, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}
