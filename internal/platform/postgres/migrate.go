package postgres

import (
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/lock"
)

// NewMigrationProvider opens a dedicated database/sql handle for goose and
// guards runs with a Postgres advisory lock, so concurrent callers apply each
// migration once. Closing the provider closes the handle.
func NewMigrationProvider(poolCfg *pgxpool.Config, migrations fs.FS) (*goose.Provider, error) {
	db := stdlib.OpenDB(*poolCfg.ConnConfig)

	locker, err := lock.NewPostgresSessionLocker()
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create migration locker")
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations, goose.WithSessionLocker(locker))
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create migration provider")
	}
	return provider, nil
}
