package database

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// Connect opens the SQLite database at dsn. SQLite allows a single writer,
// so the pool is pinned to one connection; this also keeps ":memory:"
// databases alive for the lifetime of the handle.
func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "connect database")
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		`PRAGMA foreign_keys = ON`,
		`PRAGMA busy_timeout = 5000`,
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, errors.Wrapf(err, "apply %q", pragma)
		}
	}
	return db, nil
}
