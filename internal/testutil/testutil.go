package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"zackiepharma/m/domain"
	"zackiepharma/m/internal/database"
	"zackiepharma/m/internal/migrations"
	"zackiepharma/m/internal/store"
)

// NewDB opens a migrated in-memory database closed when t finishes.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.Connect(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := migrations.Run(context.Background(), db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// NewStore returns a Store over a fresh database.
func NewStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(NewDB(t))
}

// FixedClock returns a clock that always reports at.
func FixedClock(at string) func() time.Time {
	ts, err := time.Parse(domain.SaleTimeLayout, at)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return ts }
}

// MustProduct inserts a product and returns its id.
func MustProduct(t *testing.T, s *store.Store, name string, price float64, qty int64) int64 {
	t.Helper()
	id, err := s.CreateProduct(context.Background(), domain.Product{Name: name, Price: price, Quantity: qty, ReorderLevel: 5})
	if err != nil {
		t.Fatalf("create product %s: %v", name, err)
	}
	return id
}

// MustCustomer inserts a customer and returns its id.
func MustCustomer(t *testing.T, s *store.Store, name string) int64 {
	t.Helper()
	id, err := s.CreateCustomer(context.Background(), domain.Customer{Name: name})
	if err != nil {
		t.Fatalf("create customer %s: %v", name, err)
	}
	return id
}
