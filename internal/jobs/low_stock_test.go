package jobs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zackiepharma/m/internal/testutil"
)

func TestLowStockNotifierRaisesOncePerProduct(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewStore(t)
	testutil.MustProduct(t, s, "Plenty", 1, 100)
	scarce := testutil.MustProduct(t, s, "Scarce", 1, 2)

	n := NewLowStockNotifier(s, 0)
	created, err := n.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	created, err = n.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, created)

	_, err = s.AdjustStock(ctx, scarce, -1, "breakage", nil)
	require.NoError(t, err)
	created, err = n.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, created, "a quantity change must not raise a second unread notice")

	unread, err := s.ListNotifications(ctx, true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	require.NotNil(t, unread[0].ProductID)
	assert.Equal(t, scarce, *unread[0].ProductID)
	assert.Equal(t, lowStockMessage("Scarce", 2), unread[0].Message)

	require.NoError(t, s.MarkNotificationRead(ctx, unread[0].ID))
	created, err = n.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	unread, err = s.ListNotifications(ctx, true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, lowStockMessage("Scarce", 1), unread[0].Message)
}

func TestScheduleRejectsBadSpec(t *testing.T) {
	s := testutil.NewStore(t)
	_, err := Schedule(NewLowStockNotifier(s, 0), "not a cron spec")
	assert.Error(t, err)

	c, err := Schedule(NewLowStockNotifier(s, 0), "@every 1h")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
}
