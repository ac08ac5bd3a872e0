package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgConfig struct {
	Database string
	Host     string
	Password string
	Port     string
	User     string
}

func (c PgConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s database=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Database)
}

// NewPostgresConnectionPool opens the pool holding the override workflow
// records.
func NewPostgresConnectionPool(ctx context.Context, conf PgConfig) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(conf.ConnectionString())
	if err != nil {
		return nil, errors.Wrap(err, "could not parse connection string")
	}
	cfg.ConnConfig.Tracer = otelpgx.NewTracer()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create connection pool")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		return nil, errors.Wrap(err, "could not ping database")
	}

	return pool, nil
}
