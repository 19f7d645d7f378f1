package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v4"
)

// BadgerConfig configures a [BadgerCache].
type BadgerConfig struct {
	// Dir holds the database files. Ignored when InMemory is set.
	Dir string

	// InMemory keeps everything in RAM. Used by tests.
	InMemory bool

	// Logger receives badger's own log output. Nil silences it.
	Logger *log.Logger
}

// BadgerCache is a Cache on an embedded badger database. Entry expiry is
// handled by badger's native TTL support.
type BadgerCache struct {
	db     *badger.DB
	closed atomic.Bool
}

// NewBadgerCache opens (or creates) the database described by cfg.
func NewBadgerCache(cfg BadgerConfig) (*BadgerCache, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Dir == "" {
			return nil, errors.New("badger cache: dir is required")
		}
		if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
			return nil, fmt.Errorf("create badger dir %s: %w", cfg.Dir, err)
		}
		opts = badger.DefaultOptions(cfg.Dir)
	}
	opts = opts.WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{cfg.Logger.WithPrefix("badger")})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerCache{db: db}, nil
}

// Get reads key; expired entries are invisible to badger reads.
func (c *BadgerCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if c.closed.Load() {
		return nil, false, ErrClosed
	}
	var data []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set writes key with an optional TTL.
func (c *BadgerCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrClosed
	}
	return c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), data)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

// Delete removes key.
func (c *BadgerCache) Delete(ctx context.Context, key string) error {
	if c.closed.Load() {
		return ErrClosed
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Clear counts the live keys and drops the whole database.
func (c *BadgerCache) Clear(ctx context.Context) (int, error) {
	if c.closed.Load() {
		return 0, ErrClosed
	}
	count := 0
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if err := c.db.DropAll(); err != nil {
		return 0, fmt.Errorf("drop badger data: %w", err)
	}
	return count, nil
}

// Close closes the database. Further calls return ErrClosed.
func (c *BadgerCache) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	return c.db.Close()
}

// badgerLogger adapts a charm logger to badger.Logger.
type badgerLogger struct {
	l *log.Logger
}

func (b *badgerLogger) Errorf(format string, args ...any)   { b.l.Errorf(format, args...) }
func (b *badgerLogger) Warningf(format string, args ...any) { b.l.Warnf(format, args...) }
func (b *badgerLogger) Infof(format string, args ...any)    { b.l.Debugf(format, args...) }
func (b *badgerLogger) Debugf(format string, args ...any)   { b.l.Debugf(format, args...) }

var (
	_ Cache   = (*BadgerCache)(nil)
	_ Clearer = (*BadgerCache)(nil)
)
