package store

import (
	"context"
	"strings"
	"time"

	"zackiepharma/m/domain"
)

// DateRange bounds a report; a nil end is open. Bounds are inclusive.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

func (r DateRange) where(column string) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if r.From != nil {
		clauses = append(clauses, column+" >= ?")
		args = append(args, r.From.UTC().Format(domain.SaleTimeLayout))
	}
	if r.To != nil {
		clauses = append(clauses, column+" <= ?")
		args = append(args, r.To.UTC().Format(domain.SaleTimeLayout))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// SalesSummary aggregates revenue, sale count and units sold in r. An empty
// range yields zeros.
func (s *Store) SalesSummary(ctx context.Context, r DateRange) (domain.SalesSummary, error) {
	var summary domain.SalesSummary
	where, args := r.where("sale_date")
	err := s.db.QueryRowxContext(ctx, `SELECT COALESCE(SUM(total_amount), 0), COUNT(*) FROM sales`+where, args...).
		Scan(&summary.TotalSales, &summary.SaleCount)
	if err != nil {
		return summary, classify(err, "sum sales")
	}

	where, args = r.where("s.sale_date")
	err = s.db.GetContext(ctx, &summary.UnitsSold, `SELECT COALESCE(SUM(si.quantity), 0)
                FROM sale_items si
                JOIN sales s ON s.id = si.sale_id`+where, args...)
	return summary, classify(err, "sum units sold")
}

// SalesInRange lists every sale in r, oldest first.
func (s *Store) SalesInRange(ctx context.Context, r DateRange) ([]domain.Sale, error) {
	sales := []domain.Sale{}
	where, args := r.where("sale_date")
	err := s.db.SelectContext(ctx, &sales, `SELECT `+saleColumns+` FROM sales`+where+` ORDER BY sale_date, id`, args...)
	return sales, classify(err, "list sales in range")
}
