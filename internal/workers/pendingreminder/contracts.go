package pendingreminder

import (
	"context"
	"time"

	"shawarma-bot/internal/notifier"
	"shawarma-bot/internal/stories/orders"
)

type (
	// OrderService provides pending orders lookup
	OrderService interface {
		ListStalePending(ctx context.Context, olderThan time.Duration) ([]*orders.Order, error)
	}

	// Notifier re-broadcasts a pending order to the notification target
	Notifier interface {
		NotifyReminder(ctx context.Context, order *orders.Order, waiting time.Duration) notifier.Report
	}
)
