package httpcache

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Backend enumerates supported cache stores.
type Backend string

const (
	BackendBolt   Backend = "bolt"
	BackendSQLite Backend = "sqlite"
	BackendRedis  Backend = "redis"
	BackendMemory Backend = "memory"
	BackendNone   Backend = "none"
)

// Config selects and configures a store.
type Config struct {
	Backend Backend       `mapstructure:"backend"`
	Path    string        `mapstructure:"path"`
	TTL     time.Duration `mapstructure:"ttl"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

// Open returns the store selected by cfg. BackendNone yields a nil Store,
// which Transport treats as caching disabled.
func Open(cfg Config) (Store, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(string(cfg.Backend)))) {
	case BackendBolt, "":
		store, err := NewBoltStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendSQLite:
		store, err := NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendRedis:
		store, err := NewRedisStore(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendNone:
		return nil, nil
	default:
		return nil, errors.Errorf("unknown cache backend %q (supported: %s, %s, %s, %s, %s)",
			cfg.Backend, BackendBolt, BackendSQLite, BackendRedis, BackendMemory, BackendNone)
	}
}
