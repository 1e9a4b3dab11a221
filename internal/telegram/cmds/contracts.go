package cmds

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"shawarma-bot/internal/notifier"
	"shawarma-bot/internal/stories/cart"
	"shawarma-bot/internal/stories/menu"
	"shawarma-bot/internal/stories/orders"
)

type (
	botApi interface {
		Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
		Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	}

	catalog interface {
		GetItem(ctx context.Context, itemID string) (*menu.Item, error)
		ListByCategory(ctx context.Context, category menu.Category) ([]*menu.Item, error)
	}

	cartStore interface {
		Add(userID int64, itemID string, qty int) int
		Increase(userID int64, itemID string) int
		Decrease(userID int64, itemID string) int
		Remove(userID int64, itemID string)
		Clear(userID int64)
		QuantityOf(userID int64, itemID string) int
		Items(userID int64) []cart.Entry
		Count(userID int64) int
		Total(ctx context.Context, userID int64) (decimal.Decimal, error)
	}

	orderService interface {
		Checkout(ctx context.Context, customer orders.Customer) (*orders.Order, error)
		ListUserOrders(ctx context.Context, userID int64, limit int) ([]*orders.Order, error)
	}

	orderTransitioner interface {
		Transition(ctx context.Context, id string, action orders.Action) (*orders.TransitionResult, error)
		Get(ctx context.Context, id string) (*orders.Order, error)
		ListStalePending(ctx context.Context, olderThan time.Duration) ([]*orders.Order, error)
	}

	newOrderNotifier interface {
		NotifyNewOrder(ctx context.Context, order *orders.Order) notifier.Report
	}
)
