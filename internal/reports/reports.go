package reports

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"zackiepharma/m/domain"
	"zackiepharma/m/internal/store"
)

// ErrInvalidDate is returned for unparseable or inverted bounds.
var ErrInvalidDate = errors.New("invalid date")

// Service answers the reporting view.
type Service struct {
	store *store.Store
}

// NewService returns a Service reading from s.
func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// ParseRange turns the optional start and end strings into a DateRange.
// A date without a time of day on the end bound covers that whole day.
func ParseRange(start, end string) (store.DateRange, error) {
	var r store.DateRange
	from, err := parseBound(start, false)
	if err != nil {
		return r, errors.Wrap(err, "start date")
	}
	to, err := parseBound(end, true)
	if err != nil {
		return r, errors.Wrap(err, "end date")
	}
	if from != nil && to != nil && from.After(*to) {
		return r, errors.Wrap(ErrInvalidDate, "start date is after end date")
	}
	r.From, r.To = from, to
	return r, nil
}

func parseBound(v string, endOfDay bool) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if day, err := time.Parse("2006-01-02", v); err == nil {
		if endOfDay {
			day = day.Add(24*time.Hour - time.Second)
		}
		return &day, nil
	}
	t, err := dateparse.ParseIn(v, time.UTC)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidDate, "%q", v)
	}
	return &t, nil
}

// Summary aggregates total revenue, sale count and units sold in r.
func (s *Service) Summary(ctx context.Context, r store.DateRange) (domain.SalesSummary, error) {
	return s.store.SalesSummary(ctx, r)
}

// ExportRow is one CSV line of the sales export.
type ExportRow struct {
	SaleID        int64   `csv:"sale_id"`
	ReceiptNo     string  `csv:"receipt_no"`
	SaleDate      string  `csv:"sale_date"`
	CustomerID    string  `csv:"customer_id"`
	PaymentMethod string  `csv:"payment_method"`
	Units         int64   `csv:"units"`
	Discount      float64 `csv:"discount"`
	Tax           float64 `csv:"tax"`
	TotalAmount   float64 `csv:"total_amount"`
}

// Export writes every sale in r as CSV to w and returns the number of rows.
func (s *Service) Export(ctx context.Context, r store.DateRange, w io.Writer) (int, error) {
	sales, err := s.store.SalesInRange(ctx, r)
	if err != nil {
		return 0, err
	}
	ids := make([]int64, len(sales))
	for i, sale := range sales {
		ids[i] = sale.ID
	}
	items, err := s.store.SaleItems(ctx, ids)
	if err != nil {
		return 0, err
	}

	rows := make([]*ExportRow, 0, len(sales))
	for _, sale := range sales {
		row := &ExportRow{
			SaleID:        sale.ID,
			ReceiptNo:     sale.ReceiptNo,
			SaleDate:      sale.SaleDate.UTC().Format(domain.SaleTimeLayout),
			PaymentMethod: sale.PaymentMethod,
			Discount:      sale.Discount,
			Tax:           sale.Tax,
			TotalAmount:   sale.TotalAmount,
		}
		if sale.CustomerID != nil {
			row.CustomerID = strconv.FormatInt(*sale.CustomerID, 10)
		}
		for _, item := range items[sale.ID] {
			row.Units += item.Quantity
		}
		rows = append(rows, row)
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return 0, errors.Wrap(err, "write csv")
	}
	return len(rows), nil
}
