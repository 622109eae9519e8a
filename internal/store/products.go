package store

import (
	"context"

	"github.com/pkg/errors"

	"zackiepharma/m/domain"
)

const productColumns = `p.id, p.name, p.category_id, c.name AS category_name, p.price, p.quantity, p.reorder_level, p.created_at`

// CreateCategory inserts a category; duplicate names yield ErrDuplicate.
func (s *Store) CreateCategory(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx, `INSERT INTO categories (name) VALUES (?) RETURNING id`, name).Scan(&id)
	return id, classify(err, "create category")
}

// ListCategories returns every category ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories := []domain.Category{}
	err := s.db.SelectContext(ctx, &categories, `SELECT id, name FROM categories ORDER BY name`)
	return categories, classify(err, "list categories")
}

// CreateProduct inserts a product and returns its id.
func (s *Store) CreateProduct(ctx context.Context, p domain.Product) (int64, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx, `INSERT INTO products (name, category_id, price, quantity, reorder_level, created_at) VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		p.Name, p.CategoryID, p.Price, p.Quantity, p.ReorderLevel, s.timestamp()).Scan(&id)
	return id, classify(err, "create product")
}

// ListProducts returns the catalog with category names.
func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products := []domain.Product{}
	err := s.db.SelectContext(ctx, &products, `SELECT `+productColumns+`
                FROM products p
                LEFT JOIN categories c ON c.id = p.category_id
                ORDER BY p.name`)
	return products, classify(err, "list products")
}

// ProductByID loads one product; unknown ids yield ErrNotFound.
func (s *Store) ProductByID(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := s.db.GetContext(ctx, &p, `SELECT `+productColumns+`
                FROM products p
                LEFT JOIN categories c ON c.id = p.category_id
                WHERE p.id = ?`, id)
	return p, classify(err, "get product")
}

// LowStockProducts lists products at or below their reorder level, or below
// threshold when threshold is positive.
func (s *Store) LowStockProducts(ctx context.Context, threshold int) ([]domain.Product, error) {
	products := []domain.Product{}
	query := `SELECT ` + productColumns + `
                FROM products p
                LEFT JOIN categories c ON c.id = p.category_id
                WHERE p.quantity <= p.reorder_level`
	args := []any{}
	if threshold > 0 {
		query += ` OR p.quantity < ?`
		args = append(args, threshold)
	}
	query += ` ORDER BY p.quantity ASC, p.name`
	err := s.db.SelectContext(ctx, &products, query, args...)
	return products, classify(err, "list low stock products")
}

// AdjustStock applies change to a product's quantity and records the
// movement. Quantity may never go below zero.
func (s *Store) AdjustStock(ctx context.Context, productID, change int64, reason string, supplierID *int64) (domain.InventoryMovement, error) {
	var movement domain.InventoryMovement
	if change == 0 {
		return movement, ErrConstraint
	}
	err := s.WithTx(ctx, func(tx *Tx) error {
		var qty int64
		if err := tx.tx.GetContext(ctx, &qty, `SELECT quantity FROM products WHERE id = ?`, productID); err != nil {
			return classify(err, "get product quantity")
		}
		if qty+change < 0 {
			return errors.Wrapf(ErrConstraint, "stock of product %d would drop to %d", productID, qty+change)
		}
		if _, err := tx.tx.ExecContext(ctx, `UPDATE products SET quantity = quantity + ? WHERE id = ?`, change, productID); err != nil {
			return classify(err, "update product quantity")
		}
		var id int64
		if err := tx.tx.QueryRowxContext(ctx, `INSERT INTO inventory_movements (product_id, change, reason, supplier_id, created_at)
                VALUES (?, ?, ?, ?, ?) RETURNING id`,
			productID, change, reason, supplierID, tx.now).Scan(&id); err != nil {
			return classify(err, "record inventory movement")
		}
		return classify(tx.tx.GetContext(ctx, &movement, `SELECT id, product_id, change, reason, supplier_id, created_at
                FROM inventory_movements WHERE id = ?`, id), "get inventory movement")
	})
	return movement, err
}

// ListMovements returns the stock history of a product, oldest first.
func (s *Store) ListMovements(ctx context.Context, productID int64) ([]domain.InventoryMovement, error) {
	movements := []domain.InventoryMovement{}
	err := s.db.SelectContext(ctx, &movements, `SELECT id, product_id, change, reason, supplier_id, created_at
                FROM inventory_movements WHERE product_id = ? ORDER BY id`, productID)
	return movements, classify(err, "list inventory movements")
}
