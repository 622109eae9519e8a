package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"zackiepharma/m/internal/store"
)

// LowStockNotifier raises one unread notification per product that has
// fallen to its reorder level. A product is flagged again only after its
// previous notification has been read.
type LowStockNotifier struct {
	store     *store.Store
	threshold int
}

// NewLowStockNotifier returns a notifier flagging products at or below
// their reorder level, or below threshold when it is positive.
func NewLowStockNotifier(s *store.Store, threshold int) *LowStockNotifier {
	return &LowStockNotifier{store: s, threshold: threshold}
}

func lowStockMessage(name string, qty int64) string {
	return fmt.Sprintf("Low stock: %s has %d left", name, qty)
}

// Run scans the catalog once and returns the number of new notifications.
func (n *LowStockNotifier) Run(ctx context.Context) (int, error) {
	products, err := n.store.LowStockProducts(ctx, n.threshold)
	if err != nil {
		return 0, err
	}
	created := 0
	for _, p := range products {
		exists, err := n.store.HasUnreadProductNotification(ctx, p.ID)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}
		if _, err := n.store.CreateProductNotification(ctx, p.ID, lowStockMessage(p.Name, p.Quantity)); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// Schedule registers the notifier on a new cron scheduler using spec and
// returns it unstarted.
func Schedule(n *LowStockNotifier, spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		created, err := n.Run(context.Background())
		if err != nil {
			zap.L().Error("low stock scan failed", zap.Error(err))
			return
		}
		if created > 0 {
			zap.L().Info("low stock notifications raised", zap.Int("count", created))
		}
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
