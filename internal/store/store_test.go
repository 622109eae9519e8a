package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zackiepharma/m/domain"
	"zackiepharma/m/internal/store"
	"zackiepharma/m/internal/testutil"
)

func TestCreateUserDuplicateUsername(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	id, err := s.CreateUser(ctx, "amina", "hash", domain.RoleCashier)
	require.NoError(t, err)
	assert.Positive(t, id)

	_, err = s.CreateUser(ctx, "amina", "other", domain.RoleStaff)
	assert.ErrorIs(t, err, store.ErrDuplicate)

	n, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	user, err := s.UserByUsername(ctx, "amina")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, domain.RoleCashier, user.Role)

	_, err = s.UserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	s := testutil.NewStore(t)
	_, err := s.CreateUser(context.Background(), "x", "hash", "janitor")
	assert.ErrorIs(t, err, store.ErrConstraint)
}

func TestProductsAndCategories(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	catID, err := s.CreateCategory(ctx, "Painkillers")
	require.NoError(t, err)
	_, err = s.CreateCategory(ctx, "Painkillers")
	assert.ErrorIs(t, err, store.ErrDuplicate)

	id, err := s.CreateProduct(ctx, domain.Product{Name: "Panadol", CategoryID: &catID, Price: 2.5, Quantity: 10, ReorderLevel: 3})
	require.NoError(t, err)

	p, err := s.ProductByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Panadol", p.Name)
	require.NotNil(t, p.CategoryName)
	assert.Equal(t, "Painkillers", *p.CategoryName)

	_, err = s.CreateProduct(ctx, domain.Product{Name: "Bad", Price: -1})
	assert.ErrorIs(t, err, store.ErrConstraint)

	missing := int64(77)
	_, err = s.CreateProduct(ctx, domain.Product{Name: "Orphan", CategoryID: &missing, Price: 1})
	assert.ErrorIs(t, err, store.ErrInvalidReference)

	products, err := s.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestAdjustStock(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	id := testutil.MustProduct(t, s, "Panadol", 2.5, 4)

	m, err := s.AdjustStock(ctx, id, 6, "delivery", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(6), m.Change)

	_, err = s.AdjustStock(ctx, id, -11, "shrinkage", nil)
	assert.ErrorIs(t, err, store.ErrConstraint)

	_, err = s.AdjustStock(ctx, id, 0, "noop", nil)
	assert.ErrorIs(t, err, store.ErrConstraint)

	_, err = s.AdjustStock(ctx, 999, 1, "ghost", nil)
	assert.ErrorIs(t, err, store.ErrNotFound)

	p, err := s.ProductByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(10), p.Quantity)

	movements, err := s.ListMovements(ctx, id)
	require.NoError(t, err)
	assert.Len(t, movements, 1)
}

func TestLowStockProducts(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	testutil.MustProduct(t, s, "Plenty", 1, 100)
	low := testutil.MustProduct(t, s, "Scarce", 1, 2)

	products, err := s.LowStockProducts(ctx, 0)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, low, products[0].ID)

	products, err = s.LowStockProducts(ctx, 1000)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestFailedLineItemRollsBackHeader(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	id := testutil.MustProduct(t, s, "Panadol", 2.5, 4)

	err := s.WithTx(ctx, func(tx *store.Tx) error {
		saleID, err := tx.InsertSale(ctx, &domain.Sale{ReceiptNo: "r-1", PaymentMethod: "cash", TotalAmount: 5})
		if err != nil {
			return err
		}
		if _, err := tx.InsertSaleItem(ctx, domain.SaleItem{SaleID: saleID, ProductID: id, Quantity: 2, Price: 2.5}); err != nil {
			return err
		}
		_, err = tx.InsertSaleItem(ctx, domain.SaleItem{SaleID: saleID, ProductID: 12345, Quantity: 1, Price: 1})
		return err
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrInvalidReference))

	n, err := s.CountSales(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSalesSummary(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	id := testutil.MustProduct(t, s, "Panadol", 50, 40)

	record := func(at string, qty int64) {
		s.SetClock(testutil.FixedClock(at))
		err := s.WithTx(ctx, func(tx *store.Tx) error {
			saleID, err := tx.InsertSale(ctx, &domain.Sale{ReceiptNo: at, PaymentMethod: "cash", TotalAmount: float64(qty) * 50})
			if err != nil {
				return err
			}
			_, err = tx.InsertSaleItem(ctx, domain.SaleItem{SaleID: saleID, ProductID: id, Quantity: qty, Price: 50})
			return err
		})
		require.NoError(t, err)
	}
	record("2026-01-10 09:00:00", 2)
	record("2026-02-10 09:00:00", 3)

	all, err := s.SalesSummary(ctx, store.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, domain.SalesSummary{TotalSales: 250, SaleCount: 2, UnitsSold: 5}, all)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)
	jan, err := s.SalesSummary(ctx, store.DateRange{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, domain.SalesSummary{TotalSales: 100, SaleCount: 1, UnitsSold: 2}, jan)

	empty := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	none, err := s.SalesSummary(ctx, store.DateRange{From: &empty})
	require.NoError(t, err)
	assert.Equal(t, domain.SalesSummary{}, none)

	sales, err := s.SalesInRange(ctx, store.DateRange{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "2026-01-10 09:00:00", sales[0].SaleDate.UTC().Format(domain.SaleTimeLayout))
}

func TestPrescriptionsRequireKnownReferences(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	product := testutil.MustProduct(t, s, "Amoxil", 12, 10)
	customer := testutil.MustCustomer(t, s, "Neema")

	_, err := s.CreatePrescription(ctx, domain.Prescription{CustomerID: customer, ProductID: product, Quantity: 1, DoctorName: "Dr. Mushi"})
	require.NoError(t, err)

	_, err = s.CreatePrescription(ctx, domain.Prescription{CustomerID: 999, ProductID: product, Quantity: 1})
	assert.ErrorIs(t, err, store.ErrInvalidReference)

	list, err := s.ListPrescriptions(ctx, customer)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Neema", list[0].CustomerName)
	assert.Equal(t, "Amoxil", list[0].ProductName)
}

func TestNotifications(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	panadol := testutil.MustProduct(t, s, "Panadol", 1, 1)
	other := testutil.MustProduct(t, s, "Amoxil", 1, 1)
	id, err := s.CreateProductNotification(ctx, panadol, "Panadol is low")
	require.NoError(t, err)

	exists, err := s.HasUnreadProductNotification(ctx, panadol)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = s.HasUnreadProductNotification(ctx, other)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.CreateProductNotification(ctx, 999, "ghost")
	assert.ErrorIs(t, err, store.ErrInvalidReference)

	require.NoError(t, s.MarkNotificationRead(ctx, id))
	assert.ErrorIs(t, s.MarkNotificationRead(ctx, 999), store.ErrNotFound)

	unread, err := s.ListNotifications(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, unread)
}
