package orders

import (
	"context"

	"shawarma-bot/internal/stories/cart"
	"shawarma-bot/internal/stories/menu"
)

type (
	Repository interface {
		CreateOrder(ctx context.Context, order Order) (*Order, error)
		GetOrder(ctx context.Context, id string) (*Order, error)
		// CASUpdateStatus обновляет статус, только если в БД все еще expected.
		CASUpdateStatus(ctx context.Context, id string, expected, next Status) (bool, error)
		ListOrders(ctx context.Context, criteria ListCriteria) ([]*Order, error)
	}

	CartStore interface {
		Take(userID int64) []cart.Entry
		Restore(userID int64, entries []cart.Entry)
	}

	Catalog interface {
		GetItem(ctx context.Context, itemID string) (*menu.Item, error)
	}

	StatusNotifier interface {
		NotifyStatusChange(ctx context.Context, order *Order) error
	}
)

type cartEntry = cart.Entry
