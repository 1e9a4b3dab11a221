package cmds

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"shawarma-bot/internal/notifier"
	"shawarma-bot/internal/stories/menu"
	"shawarma-bot/internal/stories/orders"
)

// MockBotApi записывает все отправленные сообщения и ответы на callback
type MockBotApi struct {
	mu       sync.Mutex
	messages []tgbotapi.MessageConfig
	edits    []tgbotapi.EditMessageTextConfig
	answers  []tgbotapi.CallbackConfig
}

func (m *MockBotApi) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch v := c.(type) {
	case tgbotapi.MessageConfig:
		m.messages = append(m.messages, v)
	case tgbotapi.EditMessageTextConfig:
		m.edits = append(m.edits, v)
	}
	return tgbotapi.Message{MessageID: 1}, nil
}

func (m *MockBotApi) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cb, ok := c.(tgbotapi.CallbackConfig); ok {
		m.answers = append(m.answers, cb)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func callbackQuery(from int64, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:   "cb1",
		From: &tgbotapi.User{ID: from},
		Message: &tgbotapi.Message{
			MessageID: 77,
			Chat:      &tgbotapi.Chat{ID: from},
		},
		Data: data,
	}
}

type fakeCatalog map[string]*menu.Item

func (c fakeCatalog) GetItem(_ context.Context, itemID string) (*menu.Item, error) {
	item, ok := c[itemID]
	if !ok {
		return nil, menu.ErrItemNotFound
	}
	return item, nil
}

func (c fakeCatalog) ListByCategory(_ context.Context, category menu.Category) ([]*menu.Item, error) {
	var result []*menu.Item
	for _, id := range []string{"shawarma_beef", "tea"} {
		if item, ok := c[id]; ok && item.Category == category {
			result = append(result, item)
		}
	}
	return result, nil
}

func (c fakeCatalog) PriceOf(ctx context.Context, itemID string) (decimal.Decimal, error) {
	item, err := c.GetItem(ctx, itemID)
	if err != nil {
		return decimal.Zero, err
	}
	return item.Price, nil
}

var testCatalog = fakeCatalog{
	"shawarma_beef": {
		ID:          "shawarma_beef",
		Name:        "Шаурма с говядиной",
		Description: "Говядина, овощи, соус",
		Category:    menu.CategoryShawarma,
		Price:       decimal.NewFromInt(350),
		Available:   true,
	},
	"tea": {
		ID:        "tea",
		Name:      "Чай",
		Category:  menu.CategoryDrinks,
		Price:     decimal.RequireFromString("70.50"),
		Available: true,
	},
}

type fakeTransitioner struct {
	result  *orders.TransitionResult
	err     error
	current *orders.Order
	pending []*orders.Order
}

func (f *fakeTransitioner) Transition(context.Context, string, orders.Action) (*orders.TransitionResult, error) {
	return f.result, f.err
}

func (f *fakeTransitioner) Get(_ context.Context, id string) (*orders.Order, error) {
	if f.current == nil {
		return nil, orders.ErrNotFound
	}
	return f.current, nil
}

func (f *fakeTransitioner) ListStalePending(context.Context, time.Duration) ([]*orders.Order, error) {
	return f.pending, nil
}

type fakeOrderService struct {
	order  *orders.Order
	err    error
	recent []*orders.Order
}

func (f *fakeOrderService) Checkout(context.Context, orders.Customer) (*orders.Order, error) {
	return f.order, f.err
}

func (f *fakeOrderService) ListUserOrders(context.Context, int64, int) ([]*orders.Order, error) {
	return f.recent, nil
}

type fakeNewOrderNotifier struct {
	calls int
}

func (f *fakeNewOrderNotifier) NotifyNewOrder(context.Context, *orders.Order) notifier.Report {
	f.calls++
	return notifier.Report{Results: []notifier.Result{{Recipient: notifier.Recipient{ChatID: 1}}}}
}

func testOrder(status orders.Status) *orders.Order {
	return &orders.Order{
		ID:           "0b7e4c1a-5f2d-4e8a-9c3b-1d2e3f4a5b6c",
		UserID:       42,
		CustomerName: "@ivan",
		Status:       status,
		CreatedAt:    time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC),
		Items: []orders.Item{
			{ItemID: "tea", Name: "Чай", Quantity: 2, UnitPrice: decimal.RequireFromString("70.50")},
		},
	}
}
