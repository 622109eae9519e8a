package sales

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"zackiepharma/m/domain"
	"zackiepharma/m/internal/audit"
	"zackiepharma/m/internal/store"
)

// DefaultPaymentMethod is used when a sale names none.
const DefaultPaymentMethod = "cash"

// ValidationError is a rejected submission; nothing was written.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Request is one checkout submission.
type Request struct {
	CustomerID    *int64
	UserID        *int64
	PaymentMethod string
	Discount      float64
	Tax           float64
	// Quantities maps product id to the selected quantity; zero entries are
	// ignored.
	Quantities map[int64]int64
}

// Service records sales.
type Service struct {
	store      *store.Store
	audit      *audit.Logger
	newReceipt func() string
}

// NewService returns a Service writing through s and auditing through a.
func NewService(s *store.Store, a *audit.Logger) *Service {
	return &Service{
		store:      s,
		audit:      a,
		newReceipt: func() string { return uuid.NewString() },
	}
}

// Total is Σ(quantity × price) − discount + tax. A discount larger than the
// subtotal gives a negative total.
func Total(items []domain.SaleItem, discount, tax float64) float64 {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Subtotal()
	}
	return subtotal - discount + tax
}

// Record validates req, prices the selected products and writes the sale
// header with its line items in one transaction.
func (s *Service) Record(ctx context.Context, req Request) (domain.Sale, error) {
	ids, err := selected(req.Quantities)
	if err != nil {
		return domain.Sale{}, err
	}
	if !finite(req.Discount) || !finite(req.Tax) {
		return domain.Sale{}, invalid("discount and tax must be finite numbers")
	}
	if req.Discount < 0 {
		return domain.Sale{}, invalid("discount must not be negative")
	}
	if req.Tax < 0 {
		return domain.Sale{}, invalid("tax must not be negative")
	}
	if req.CustomerID != nil && *req.CustomerID <= 0 {
		req.CustomerID = nil
	}
	method := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	if method == "" {
		method = DefaultPaymentMethod
	}

	sale := domain.Sale{
		ReceiptNo:     s.newReceipt(),
		CustomerID:    req.CustomerID,
		UserID:        req.UserID,
		PaymentMethod: method,
		Discount:      req.Discount,
		Tax:           req.Tax,
	}

	err = s.store.WithTx(ctx, func(tx *store.Tx) error {
		prices, err := tx.ProductPrices(ctx, ids)
		if err != nil {
			return err
		}
		items := make([]domain.SaleItem, 0, len(ids))
		for _, id := range ids {
			price, ok := prices[id]
			if !ok {
				return invalid("product %d does not exist", id)
			}
			items = append(items, domain.SaleItem{ProductID: id, Quantity: req.Quantities[id], Price: price})
		}
		sale.TotalAmount = Total(items, sale.Discount, sale.Tax)

		saleID, err := tx.InsertSale(ctx, &sale)
		if err != nil {
			return err
		}
		for i := range items {
			items[i].SaleID = saleID
			itemID, err := tx.InsertSaleItem(ctx, items[i])
			if err != nil {
				return errors.Wrapf(err, "line item for product %d", items[i].ProductID)
			}
			items[i].ID = itemID
		}
		sale.ID = saleID
		sale.Items = items
		sale.SaleDate, err = time.Parse(domain.SaleTimeLayout, tx.Now())
		return err
	})
	if err != nil {
		return domain.Sale{}, err
	}

	s.audit.Log(ctx, domain.ActionInsert, "sales", sale.ID)
	return sale, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// selected returns the ids with a positive quantity, ascending.
func selected(quantities map[int64]int64) ([]int64, error) {
	ids := make([]int64, 0, len(quantities))
	for id, qty := range quantities {
		if qty < 0 {
			return nil, invalid("quantity for product %d must not be negative", id)
		}
		if qty > 0 {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, invalid("select at least one product with a quantity above zero")
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
