package seed

import (
	"context"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ProductRow is one line of the catalog CSV.
type ProductRow struct {
	Name         string  `csv:"name"`
	Category     string  `csv:"category"`
	Price        float64 `csv:"price"`
	Quantity     int64   `csv:"quantity"`
	ReorderLevel int64   `csv:"reorder_level"`
}

// LoadProducts imports the catalog CSV at csvPath, skipping products whose
// name already exists. It returns the number of inserted rows.
func LoadProducts(ctx context.Context, db *sqlx.DB, csvPath string) (int, error) {
	file, err := os.Open(csvPath)
	if err != nil {
		return 0, errors.Wrapf(err, "open product catalog %s", csvPath)
	}
	defer file.Close()

	var records []*ProductRow
	if err := gocsv.UnmarshalFile(file, &records); err != nil {
		return 0, errors.Wrap(err, "read product catalog")
	}
	return insertProducts(ctx, db, records)
}

func insertProducts(ctx context.Context, db *sqlx.DB, records []*ProductRow) (int, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "start product seed")
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `INSERT INTO products (name, category_id, price, quantity, reorder_level)
                SELECT ?, ?, ?, ?, ?
                WHERE NOT EXISTS (SELECT 1 FROM products WHERE name = ?)`)
	if err != nil {
		return 0, errors.Wrap(err, "prepare product insert")
	}
	defer stmt.Close()

	categories := map[string]int64{}
	rows := 0
	for _, rec := range records {
		name := strings.TrimSpace(rec.Name)
		if name == "" || rec.Price < 0 || rec.Quantity < 0 {
			zap.S().Warnf("skipping invalid catalog row %q", rec.Name)
			continue
		}

		var categoryID *int64
		if category := strings.TrimSpace(rec.Category); category != "" {
			id, ok := categories[category]
			if !ok {
				if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO categories (name) VALUES (?)`, category); err != nil {
					return 0, errors.Wrapf(err, "insert category %s", category)
				}
				if err := tx.GetContext(ctx, &id, `SELECT id FROM categories WHERE name = ?`, category); err != nil {
					return 0, errors.Wrapf(err, "lookup category %s", category)
				}
				categories[category] = id
			}
			categoryID = &id
		}

		reorder := rec.ReorderLevel
		if reorder <= 0 {
			reorder = 5
		}
		res, err := stmt.ExecContext(ctx, name, categoryID, rec.Price, rec.Quantity, reorder, name)
		if err != nil {
			zap.S().Warnf("unable to insert product %s: %v", name, err)
			continue
		}
		if n, _ := res.RowsAffected(); n > 0 {
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "commit product seed")
	}
	zap.S().Infof("seeded product catalog with %d rows", rows)
	return rows, nil
}
