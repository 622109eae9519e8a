package sales

import (
	"context"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"zackiepharma/m/domain"
	"zackiepharma/m/internal/audit"
	"zackiepharma/m/internal/store"
	"zackiepharma/m/internal/testutil"
)

type SaleServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *store.Store
	service *Service
	panadol int64
	amoxil  int64
}

func (s *SaleServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = testutil.NewStore(s.T())
	s.store.SetClock(testutil.FixedClock("2026-03-01 10:00:00"))
	s.service = NewService(s.store, audit.New(s.store))
	s.panadol = testutil.MustProduct(s.T(), s.store, "Panadol", 2.50, 100)
	s.amoxil = testutil.MustProduct(s.T(), s.store, "Amoxil", 12.75, 40)
}

func TestSaleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SaleServiceTestSuite))
}

func (s *SaleServiceTestSuite) TestRecordComputesTotal() {
	sale, err := s.service.Record(s.ctx, Request{
		PaymentMethod: "Card",
		Discount:      1.5,
		Tax:           4,
		Quantities:    map[int64]int64{s.panadol: 4, s.amoxil: 2},
	})
	s.Require().NoError(err)

	want := 4*2.50 + 2*12.75 - 1.5 + 4
	s.Equal(want, sale.TotalAmount)
	s.Equal("card", sale.PaymentMethod)
	s.NotEmpty(sale.ReceiptNo)
	s.Require().Len(sale.Items, 2)
	s.Equal(s.panadol, sale.Items[0].ProductID)
	s.Equal(2.50, sale.Items[0].Price)
	s.Equal(s.amoxil, sale.Items[1].ProductID)
	s.Equal("2026-03-01 10:00:00", sale.SaleDate.Format(domain.SaleTimeLayout))

	stored, err := s.store.SaleByID(s.ctx, sale.ID)
	s.Require().NoError(err)
	s.Equal(want, stored.TotalAmount)
	s.Len(stored.Items, 2)
	s.Equal(sale.ReceiptNo, stored.ReceiptNo)
}

func (s *SaleServiceTestSuite) TestRecordIgnoresZeroQuantities() {
	sale, err := s.service.Record(s.ctx, Request{Quantities: map[int64]int64{s.panadol: 0, s.amoxil: 1}})
	s.Require().NoError(err)
	s.Require().Len(sale.Items, 1)
	s.Equal(s.amoxil, sale.Items[0].ProductID)
	s.Equal(DefaultPaymentMethod, sale.PaymentMethod)
}

func (s *SaleServiceTestSuite) TestRecordRejectsEmptySelection() {
	_, err := s.service.Record(s.ctx, Request{Quantities: map[int64]int64{s.panadol: 0}})

	var verr *ValidationError
	s.Require().True(errors.As(err, &verr))

	count, err := s.store.CountSales(s.ctx)
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *SaleServiceTestSuite) TestRecordRejectsInvalidInput() {
	cases := map[string]Request{
		"negative quantity": {Quantities: map[int64]int64{s.panadol: -1}},
		"negative discount": {Discount: -1, Quantities: map[int64]int64{s.panadol: 1}},
		"negative tax":      {Tax: -1, Quantities: map[int64]int64{s.panadol: 1}},
		"unknown product":   {Quantities: map[int64]int64{9999: 1}},
		"infinite tax":      {Tax: math.Inf(1), Quantities: map[int64]int64{s.panadol: 1}},
		"infinite discount": {Discount: math.Inf(-1), Quantities: map[int64]int64{s.panadol: 1}},
		"NaN discount":      {Discount: math.NaN(), Quantities: map[int64]int64{s.panadol: 1}},
		"NaN tax":           {Tax: math.NaN(), Quantities: map[int64]int64{s.panadol: 1}},
	}
	for name, req := range cases {
		_, err := s.service.Record(s.ctx, req)
		var verr *ValidationError
		s.True(errors.As(err, &verr), name)
	}

	count, err := s.store.CountSales(s.ctx)
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *SaleServiceTestSuite) TestDiscountLargerThanSubtotalIsNotClamped() {
	sale, err := s.service.Record(s.ctx, Request{Discount: 10, Quantities: map[int64]int64{s.panadol: 1}})
	s.Require().NoError(err)
	s.Equal(-7.5, sale.TotalAmount)
}

func (s *SaleServiceTestSuite) TestUnknownCustomerRollsBack() {
	missing := int64(404)
	_, err := s.service.Record(s.ctx, Request{CustomerID: &missing, Quantities: map[int64]int64{s.panadol: 1}})
	s.ErrorIs(err, store.ErrInvalidReference)

	count, err := s.store.CountSales(s.ctx)
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *SaleServiceTestSuite) TestResubmissionCreatesSecondSale() {
	req := Request{Quantities: map[int64]int64{s.panadol: 1}}
	first, err := s.service.Record(s.ctx, req)
	s.Require().NoError(err)
	second, err := s.service.Record(s.ctx, req)
	s.Require().NoError(err)
	s.NotEqual(first.ID, second.ID)
	s.NotEqual(first.ReceiptNo, second.ReceiptNo)
}

func (s *SaleServiceTestSuite) TestRecordDoesNotDecrementStock() {
	_, err := s.service.Record(s.ctx, Request{Quantities: map[int64]int64{s.panadol: 3}})
	s.Require().NoError(err)

	p, err := s.store.ProductByID(s.ctx, s.panadol)
	s.Require().NoError(err)
	s.Equal(int64(100), p.Quantity)
}

func (s *SaleServiceTestSuite) TestRecordWritesAuditEntry() {
	ctx := audit.WithActor(s.ctx, 1)
	sale, err := s.service.Record(ctx, Request{Quantities: map[int64]int64{s.panadol: 1}})
	s.Require().NoError(err)

	entries, err := s.store.ListAuditEntries(s.ctx, "sales", 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(domain.ActionInsert, entries[0].Action)
	s.Require().NotNil(entries[0].RecordID)
	s.Equal(sale.ID, *entries[0].RecordID)
}

func TestTotal(t *testing.T) {
	items := []domain.SaleItem{
		{Quantity: 2, Price: 50},
		{Quantity: 1, Price: 0.25},
	}
	assert.Equal(t, 100.25, Total(items, 0, 0))
	assert.Equal(t, 100.25-5+1.5, Total(items, 5, 1.5))
	assert.Equal(t, 0.0, Total(nil, 0, 0))
}

func TestSelectedSortsIDs(t *testing.T) {
	ids, err := selected(map[int64]int64{9: 1, 3: 2, 5: 0})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 9}, ids)
}
