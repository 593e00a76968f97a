// Package postgres is the connection provider: it turns the database section
// of the configuration into a ready pgx pool, and holds the small conversion
// helpers every repository shares.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/config"
)

// DateLayout is the canonical wire form of calendar dates.
const DateLayout = "2006-01-02"

const foreignKeyViolation = "23503"

// PoolConfig maps the configuration onto pgxpool settings.
func PoolConfig(cfg config.DB) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse db.url (%s): %w", RedactDSN(cfg.DSN()), err)
	}
	if cfg.User != "" {
		poolCfg.ConnConfig.User = cfg.User
	}
	if cfg.Password != "" {
		poolCfg.ConnConfig.Password = cfg.Password
	}
	poolCfg.MaxConns = cfg.PoolSize
	poolCfg.MinConns = cfg.MinIdle
	if cfg.IdleTimeout > 0 {
		poolCfg.MaxConnIdleTime = cfg.IdleTimeout
	}
	if cfg.MaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxLifetime
	}
	if cfg.ConnectionTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectionTimeout
	}
	return poolCfg, nil
}

// Open creates the pool and pings it once so startup fails fast.
func Open(ctx context.Context, cfg config.DB) (*pgxpool.Pool, error) {
	poolCfg, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}

	timeout := cfg.ConnectionTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database (%s): %w", RedactDSN(cfg.DSN()), err)
	}
	return pool, nil
}

// IsForeignKeyViolation reports whether err carries SQLSTATE 23503.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}

// ParseDate converts a YYYY-MM-DD string into a date parameter. The empty
// string is SQL NULL.
func ParseDate(s string) (pgtype.Date, error) {
	if s == "" {
		return pgtype.Date{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return pgtype.Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return pgtype.Date{Time: t, Valid: true}, nil
}

// FormatDate is the inverse of ParseDate; NULL becomes "".
func FormatDate(d pgtype.Date) string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(DateLayout)
}

// RedactDSN hides credentials before a DSN reaches a log line.
func RedactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	u.User = url.User("***")
	return u.String()
}
