package migrations

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrUnversionedSchema is returned for a database that already holds tables
// but has never been migrated, such as a file written by the earlier
// release. Its layout differs from version 1 and cannot be adopted in place.
var ErrUnversionedSchema = errors.New("database has tables but no schema version")

// Migration is one numbered schema step. Versions are applied in order and
// recorded in schema_migrations so each runs at most once.
type Migration struct {
	Version    int
	Name       string
	Statements []string
}

// All is the canonical schema history for the POS backend.
var All = []Migration{
	{
		Version: 1,
		Name:    "core tables",
		Statements: []string{
			`CREATE TABLE users (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            username TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            role TEXT NOT NULL CHECK (role IN ('admin', 'cashier', 'staff')),
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        );`,
			`CREATE TABLE categories (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL UNIQUE
        );`,
			`CREATE TABLE products (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            category_id INTEGER,
            price REAL NOT NULL CHECK (price >= 0),
            quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY(category_id) REFERENCES categories(id)
        );`,
			`CREATE TABLE customers (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            phone TEXT,
            email TEXT,
            address TEXT,
            date_of_birth TEXT,
            medical_history TEXT,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        );`,
			`CREATE TABLE sales (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            customer_id INTEGER,
            total_amount REAL NOT NULL,
            payment_method TEXT NOT NULL DEFAULT 'cash',
            discount REAL NOT NULL DEFAULT 0,
            tax REAL NOT NULL DEFAULT 0,
            sale_date DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY(customer_id) REFERENCES customers(id)
        );`,
			`CREATE TABLE sale_items (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            sale_id INTEGER NOT NULL,
            product_id INTEGER NOT NULL,
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            price REAL NOT NULL,
            FOREIGN KEY(sale_id) REFERENCES sales(id),
            FOREIGN KEY(product_id) REFERENCES products(id)
        );`,
			`CREATE TABLE prescriptions (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            customer_id INTEGER NOT NULL,
            doctor_name TEXT,
            product_id INTEGER NOT NULL,
            quantity INTEGER NOT NULL,
            date_prescribed TEXT,
            instructions TEXT,
            FOREIGN KEY(customer_id) REFERENCES customers(id),
            FOREIGN KEY(product_id) REFERENCES products(id)
        );`,
			`CREATE TABLE audit_logs (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            action TEXT NOT NULL,
            table_name TEXT NOT NULL,
            record_id INTEGER,
            timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`,
		},
	},
	{
		Version: 2,
		Name:    "suppliers, inventory movements and notifications",
		Statements: []string{
			`CREATE TABLE suppliers (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            phone TEXT,
            email TEXT,
            address TEXT,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        );`,
			`CREATE TABLE inventory_movements (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            product_id INTEGER NOT NULL,
            change INTEGER NOT NULL CHECK (change <> 0),
            reason TEXT,
            supplier_id INTEGER,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY(product_id) REFERENCES products(id),
            FOREIGN KEY(supplier_id) REFERENCES suppliers(id)
        );`,
			`CREATE TABLE notifications (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            message TEXT NOT NULL,
            is_read INTEGER NOT NULL DEFAULT 0,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`,
		},
	},
	{
		Version: 3,
		Name:    "receipts, cashiers and reorder levels",
		Statements: []string{
			`ALTER TABLE sales ADD COLUMN receipt_no TEXT;`,
			`ALTER TABLE sales ADD COLUMN user_id INTEGER REFERENCES users(id);`,
			`CREATE UNIQUE INDEX idx_sales_receipt_no ON sales(receipt_no);`,
			`CREATE INDEX idx_sales_sale_date ON sales(sale_date);`,
			`CREATE INDEX idx_sale_items_sale_id ON sale_items(sale_id);`,
			`ALTER TABLE products ADD COLUMN reorder_level INTEGER NOT NULL DEFAULT 5;`,
			`ALTER TABLE audit_logs ADD COLUMN user_id INTEGER;`,
		},
	},
	{
		Version: 4,
		Name:    "product notifications",
		Statements: []string{
			`ALTER TABLE notifications ADD COLUMN product_id INTEGER REFERENCES products(id);`,
			`CREATE INDEX idx_notifications_product_unread ON notifications(product_id, is_read);`,
		},
	},
}

// Run applies every pending migration in All.
func Run(ctx context.Context, db *sqlx.DB) error {
	return Apply(ctx, db, All)
}

// Apply applies the pending subset of list, each version in its own
// transaction.
func Apply(ctx context.Context, db *sqlx.DB, list []Migration) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
            version INTEGER PRIMARY KEY,
            name TEXT NOT NULL,
            applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`); err != nil {
		return errors.Wrap(err, "create schema_migrations")
	}

	current, err := Version(ctx, db)
	if err != nil {
		return err
	}
	if current == 0 {
		var tables []string
		if err := db.SelectContext(ctx, &tables, `SELECT name FROM sqlite_master
                WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND name <> 'schema_migrations'
                ORDER BY name`); err != nil {
			return errors.Wrap(err, "inspect schema")
		}
		if len(tables) > 0 {
			return errors.Wrapf(ErrUnversionedSchema, "found %v", tables)
		}
	}

	for _, m := range list {
		if m.Version <= current {
			continue
		}
		if err := apply(ctx, db, m); err != nil {
			return err
		}
		zap.S().Infof("applied migration %d (%s)", m.Version, m.Name)
	}
	return nil
}

// Version reports the highest applied migration, 0 for a fresh database.
func Version(ctx context.Context, db *sqlx.DB) (int, error) {
	var v int
	if err := db.GetContext(ctx, &v, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`); err != nil {
		return 0, errors.Wrap(err, "read schema version")
	}
	return v, nil
}

func apply(ctx context.Context, db *sqlx.DB, m Migration) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrapf(err, "begin migration %d", m.Version)
	}
	defer tx.Rollback()

	for _, stmt := range m.Statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "migration %d (%s)", m.Version, m.Name)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, m.Version, m.Name); err != nil {
		return errors.Wrapf(err, "record migration %d", m.Version)
	}
	return errors.Wrapf(tx.Commit(), "commit migration %d", m.Version)
}
