package reports

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zackiepharma/m/domain"
	"zackiepharma/m/internal/sales"
	"zackiepharma/m/internal/store"
	"zackiepharma/m/internal/testutil"
)

func TestParseRange(t *testing.T) {
	r, err := ParseRange("", "")
	require.NoError(t, err)
	assert.Nil(t, r.From)
	assert.Nil(t, r.To)

	r, err = ParseRange("2026-01-01", "2026-01-31")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01 00:00:00", r.From.Format(domain.SaleTimeLayout))
	assert.Equal(t, "2026-01-31 23:59:59", r.To.Format(domain.SaleTimeLayout))

	r, err = ParseRange("2026-01-01 08:30:00", "2026-01-01 17:00:00")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01 08:30:00", r.From.Format(domain.SaleTimeLayout))
	assert.Equal(t, "2026-01-01 17:00:00", r.To.Format(domain.SaleTimeLayout))

	_, err = ParseRange("not a date", "")
	assert.True(t, errors.Is(err, ErrInvalidDate))

	_, err = ParseRange("2026-02-01", "2026-01-01")
	assert.True(t, errors.Is(err, ErrInvalidDate))
}

func TestSummaryAndExport(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewStore(t)
	svc := NewService(st)
	recorder := sales.NewService(st, nil)
	product := testutil.MustProduct(t, st, "Panadol", 50, 10)
	customer := testutil.MustCustomer(t, st, "Neema")

	empty, err := svc.Summary(ctx, mustRange(t, "2026-01-01", "2026-12-31"))
	require.NoError(t, err)
	assert.Equal(t, domain.SalesSummary{}, empty)

	st.SetClock(testutil.FixedClock("2026-04-02 11:15:00"))
	_, err = recorder.Record(ctx, sales.Request{CustomerID: &customer, Quantities: map[int64]int64{product: 2}})
	require.NoError(t, err)
	st.SetClock(testutil.FixedClock("2026-05-09 16:00:00"))
	_, err = recorder.Record(ctx, sales.Request{Quantities: map[int64]int64{product: 1}})
	require.NoError(t, err)

	april, err := svc.Summary(ctx, mustRange(t, "2026-04-01 00:00:00", "2026-04-30 23:59:59"))
	require.NoError(t, err)
	assert.Equal(t, domain.SalesSummary{TotalSales: 100, SaleCount: 1, UnitsSold: 2}, april)

	var buf bytes.Buffer
	n, err := svc.Export(ctx, mustRange(t, "", ""), &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var rows []*ExportRow
	require.NoError(t, gocsv.Unmarshal(strings.NewReader(buf.String()), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "2026-04-02 11:15:00", rows[0].SaleDate)
	assert.Equal(t, int64(2), rows[0].Units)
	assert.NotEmpty(t, rows[0].CustomerID)
	assert.Equal(t, 50.0, rows[1].TotalAmount)
	assert.Empty(t, rows[1].CustomerID)
}

func mustRange(t *testing.T, start, end string) store.DateRange {
	t.Helper()
	r, err := ParseRange(start, end)
	require.NoError(t, err)
	return r
}
