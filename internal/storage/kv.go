package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	EngineRedis    = "redis"
	EnginePostgres = "postgres"
	EngineSqlite   = "sqlite"
)

var ErrUnsupportedEngine = errors.New("unsupported storage engine")

// KV is a flat string key/value store holding the serialized tracker state.
type KV interface {
	// Get returns the stored value, found is false when the key was never written.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	// Close releases what the store opened itself, shared clients are left open.
	Close() error
}

// Backends holds the connections a KV engine can be built on.
// Only the one matching the selected engine has to be set.
type Backends struct {
	Redis      *redis.Client
	DBPool     *pgxpool.Pool
	SqlitePath string
}

func NewByEngine(ctx context.Context, engine string, backends Backends) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineRedis:
		if backends.Redis == nil {
			return nil, errors.New("redis engine selected, but redis client not set")
		}
		return NewRedisKV(backends.Redis), nil
	case EnginePostgres:
		if backends.DBPool == nil {
			return nil, errors.New("postgres engine selected, but db pool not set")
		}
		psqlKV := NewPsqlKV(backends.DBPool)
		if err := psqlKV.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("ensure psql schema: %w", err)
		}
		return psqlKV, nil
	case EngineSqlite:
		return NewSqliteKV(backends.SqlitePath)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEngine, engine)
	}
}
