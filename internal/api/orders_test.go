package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shawarma-bot/internal/stories/orders"
)

type fakeOrders struct {
	orders   map[string]*orders.Order
	criteria orders.ListCriteria
	err      error
}

func (f *fakeOrders) Get(_ context.Context, id string) (*orders.Order, error) {
	if o, ok := f.orders[id]; ok {
		return o, nil
	}
	return nil, orders.ErrNotFound
}

func (f *fakeOrders) List(_ context.Context, criteria orders.ListCriteria) ([]*orders.Order, error) {
	f.criteria = criteria
	if f.err != nil {
		return nil, f.err
	}
	var result []*orders.Order
	for _, o := range f.orders {
		result = append(result, o)
	}
	return result, nil
}

func newServer(f *fakeOrders) *http.ServeMux {
	mux := http.NewServeMux()
	NewOrdersHandler(f, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(mux)
	return mux
}

func testOrder() *orders.Order {
	return &orders.Order{
		ID:           "o1",
		UserID:       42,
		CustomerName: "@ivan",
		Status:       orders.StatusPending,
		CreatedAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2024, 5, 1, 12, 5, 0, 0, time.UTC),
		Items: []orders.Item{
			{ItemID: "tea", Name: "Чай", Quantity: 2, UnitPrice: decimal.RequireFromString("70.5")},
		},
	}
}

func do(t *testing.T, mux *http.ServeMux, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func TestGetOrder(t *testing.T) {
	mux := newServer(&fakeOrders{orders: map[string]*orders.Order{"o1": testOrder()}})

	rec, body := do(t, mux, "/api/orders/o1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "o1", body["id"])
	assert.Equal(t, float64(42), body["user_id"])
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, "141.00", body["total"])
	assert.Equal(t, "2024-05-01T12:00:00Z", body["created_at"])

	items, ok := body["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, "70.50", item["unit_price"])
	assert.Equal(t, float64(2), item["quantity"])
}

func TestGetOrderNotFound(t *testing.T) {
	mux := newServer(&fakeOrders{})

	rec, body := do(t, mux, "/api/orders/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "order not found", body["error"])
}

func TestListOrders(t *testing.T) {
	f := &fakeOrders{orders: map[string]*orders.Order{"o1": testOrder()}}
	mux := newServer(f)

	rec, body := do(t, mux, "/api/orders?status=pending&limit=500")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["count"])
	require.NotNil(t, f.criteria.Status)
	assert.Equal(t, orders.StatusPending, *f.criteria.Status)
	assert.Equal(t, maxLimit, f.criteria.Limit)

	rec, _ = do(t, mux, "/api/orders")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, f.criteria.Status)
	assert.Nil(t, f.criteria.UserID)
	assert.Equal(t, defaultLimit, f.criteria.Limit)

	rec, _ = do(t, mux, "/api/orders?user_id=42")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, f.criteria.UserID)
	assert.Equal(t, int64(42), *f.criteria.UserID)
}

func TestListOrdersBadRequest(t *testing.T) {
	mux := newServer(&fakeOrders{})

	for _, target := range []string{"/api/orders?status=cooking", "/api/orders?limit=-1", "/api/orders?limit=ten", "/api/orders?user_id=abc"} {
		rec, body := do(t, mux, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.NotEmpty(t, body["error"], target)
	}
}

func TestListOrdersStorageError(t *testing.T) {
	mux := newServer(&fakeOrders{err: errors.New("database is locked")})

	rec, body := do(t, mux, "/api/orders")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", body["error"])
}
