package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"zackiepharma/m/domain"
)

var (
	// ErrDuplicate is returned when an insert violates a uniqueness constraint.
	ErrDuplicate = errors.New("record already exists")
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidReference is returned when a foreign key points nowhere.
	ErrInvalidReference = errors.New("referenced record does not exist")
	// ErrConstraint is returned for CHECK and NOT NULL violations.
	ErrConstraint = errors.New("value violates a constraint")
)

// Store is the record access layer over the SQLite database.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// New constructs a Store.
func New(db *sqlx.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// SetClock overrides the time source used for stored timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// DB exposes the underlying handle.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(domain.SaleTimeLayout)
}

// Tx is a unit of work spanning several statements.
type Tx struct {
	tx  *sqlx.Tx
	now string
}

// WithTx runs fn inside a transaction, committing only when fn returns nil.
func (s *Store) WithTx(ctx context.Context, fn func(*Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	if err := fn(&Tx{tx: tx, now: s.timestamp()}); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "commit transaction")
}

// classify maps driver constraint failures onto the store sentinels.
func classify(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return ErrDuplicate
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return ErrInvalidReference
		case sqlite3.SQLITE_CONSTRAINT_CHECK, sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return ErrConstraint
		}
		if se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			// Primary code only; fall back to the message.
			msg := se.Error()
			switch {
			case strings.Contains(msg, "UNIQUE"):
				return ErrDuplicate
			case strings.Contains(msg, "FOREIGN KEY"):
				return ErrInvalidReference
			default:
				return ErrConstraint
			}
		}
	}
	return errors.Wrap(err, op)
}
