package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"zackiepharma/m/domain"
)

// ProductPrices returns the current unit price of each id that exists.
func (t *Tx) ProductPrices(ctx context.Context, ids []int64) (map[int64]float64, error) {
	prices := make(map[int64]float64, len(ids))
	if len(ids) == 0 {
		return prices, nil
	}
	query, args, err := sqlx.In(`SELECT id, price FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, classify(err, "prepare price lookup")
	}
	rows := []struct {
		ID    int64   `db:"id"`
		Price float64 `db:"price"`
	}{}
	if err := t.tx.SelectContext(ctx, &rows, t.tx.Rebind(query), args...); err != nil {
		return nil, classify(err, "lookup prices")
	}
	for _, row := range rows {
		prices[row.ID] = row.Price
	}
	return prices, nil
}

// InsertSale writes a sale header stamped with the transaction time and
// returns its id. SaleDate on sale is updated to the stored value.
func (t *Tx) InsertSale(ctx context.Context, sale *domain.Sale) (int64, error) {
	var id int64
	err := t.tx.QueryRowxContext(ctx, `INSERT INTO sales (receipt_no, customer_id, user_id, total_amount, payment_method, discount, tax, sale_date)
                VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		sale.ReceiptNo, sale.CustomerID, sale.UserID, sale.TotalAmount, sale.PaymentMethod, sale.Discount, sale.Tax, t.now).Scan(&id)
	if err != nil {
		return 0, classify(err, "insert sale")
	}
	return id, nil
}

// InsertSaleItem writes one line item of a sale header inserted on t.
func (t *Tx) InsertSaleItem(ctx context.Context, item domain.SaleItem) (int64, error) {
	var id int64
	err := t.tx.QueryRowxContext(ctx, `INSERT INTO sale_items (sale_id, product_id, quantity, price) VALUES (?, ?, ?, ?) RETURNING id`,
		item.SaleID, item.ProductID, item.Quantity, item.Price).Scan(&id)
	return id, classify(err, "insert sale item")
}

// Now is the timestamp stamped on rows written through t.
func (t *Tx) Now() string {
	return t.now
}

const saleColumns = `id, receipt_no, customer_id, user_id, total_amount, payment_method, discount, tax, sale_date`

// SaleByID loads a sale with its line items; unknown ids yield ErrNotFound.
func (s *Store) SaleByID(ctx context.Context, id int64) (domain.Sale, error) {
	var sale domain.Sale
	if err := s.db.GetContext(ctx, &sale, `SELECT `+saleColumns+` FROM sales WHERE id = ?`, id); err != nil {
		return sale, classify(err, "get sale")
	}
	items, err := s.SaleItems(ctx, []int64{id})
	if err != nil {
		return sale, err
	}
	sale.Items = items[id]
	return sale, nil
}

// ListSales returns the most recent sales first, at most limit rows.
func (s *Store) ListSales(ctx context.Context, limit int) ([]domain.Sale, error) {
	sales := []domain.Sale{}
	err := s.db.SelectContext(ctx, &sales, `SELECT `+saleColumns+` FROM sales ORDER BY sale_date DESC, id DESC LIMIT ?`, limit)
	return sales, classify(err, "list sales")
}

// CountSales returns the number of recorded sales.
func (s *Store) CountSales(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM sales`)
	return n, classify(err, "count sales")
}

// SaleItems loads the line items of the given sales keyed by sale id.
func (s *Store) SaleItems(ctx context.Context, saleIDs []int64) (map[int64][]domain.SaleItem, error) {
	bySale := make(map[int64][]domain.SaleItem)
	if len(saleIDs) == 0 {
		return bySale, nil
	}
	query, args, err := sqlx.In(`SELECT si.id, si.sale_id, si.product_id, p.name AS product_name, si.quantity, si.price
                FROM sale_items si
                JOIN products p ON p.id = si.product_id
                WHERE si.sale_id IN (?)
                ORDER BY si.id`, saleIDs)
	if err != nil {
		return nil, classify(err, "prepare sale items query")
	}
	var rows []domain.SaleItem
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, classify(err, "load sale items")
	}
	for _, row := range rows {
		bySale[row.SaleID] = append(bySale[row.SaleID], row)
	}
	return bySale, nil
}
