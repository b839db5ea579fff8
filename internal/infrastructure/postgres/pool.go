package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/eventplanner/config"
)

const pingTimeout = 5 * time.Second

// PoolOptions are the pool knobs exposed through DB_* settings.
// Zero values keep pgxpool's own defaults.
type PoolOptions struct {
	DSN               string
	AppName           string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

// OptionsFromConfig maps the DB_* settings onto PoolOptions.
func OptionsFromConfig(cfg *config.Config) PoolOptions {
	return PoolOptions{
		DSN:               cfg.PostgresDSN(),
		AppName:           cfg.AppName,
		MaxConns:          cfg.DBMaxConns,
		MinConns:          cfg.DBMinConns,
		MaxConnLifetime:   cfg.DBMaxConnLife,
		MaxConnIdleTime:   cfg.DBMaxConnIdle,
		HealthCheckPeriod: cfg.DBHealthCheck,
	}
}

// PoolConfig parses the DSN and applies the options. It does not connect.
func (o PoolOptions) PoolConfig() (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(o.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if o.MaxConns > 0 {
		pc.MaxConns = o.MaxConns
	}
	if o.MinConns > 0 {
		if o.MinConns > pc.MaxConns {
			return nil, fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", o.MinConns, pc.MaxConns)
		}
		pc.MinConns = o.MinConns
	}
	if o.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = o.MaxConnLifetime
	}
	if o.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = o.MaxConnIdleTime
	}
	if o.HealthCheckPeriod > 0 {
		pc.HealthCheckPeriod = o.HealthCheckPeriod
	}
	// shows up in pg_stat_activity; an explicit application_name in the DSN wins
	if o.AppName != "" {
		if _, ok := pc.ConnConfig.RuntimeParams["application_name"]; !ok {
			pc.ConnConfig.RuntimeParams["application_name"] = o.AppName
		}
	}
	return pc, nil
}

// NewPool opens the pool and pings it once so a bad DSN fails at startup.
func NewPool(ctx context.Context, o PoolOptions) (*pgxpool.Pool, error) {
	pc, err := o.PoolConfig()
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}
