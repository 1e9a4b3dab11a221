// Package api serves a read-only JSON view of orders for the kitchen dashboard.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-faster/jx"

	"shawarma-bot/internal/stories/orders"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

type orderService interface {
	Get(ctx context.Context, id string) (*orders.Order, error)
	List(ctx context.Context, criteria orders.ListCriteria) ([]*orders.Order, error)
}

type OrdersHandler struct {
	orders orderService
	logger *slog.Logger
}

func NewOrdersHandler(orders orderService, logger *slog.Logger) *OrdersHandler {
	return &OrdersHandler{
		orders: orders,
		logger: logger,
	}
}

// Register adds the order routes to mux.
func (h *OrdersHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/orders/{id}", h.get)
	mux.HandleFunc("GET /api/orders", h.list)
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("Failed to get order", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	var e jx.Encoder
	encodeOrder(&e, order)
	writeJSON(w, http.StatusOK, e.Bytes())
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseListCriteria(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	list, err := h.orders.List(r.Context(), criteria)
	if err != nil {
		h.logger.Error("Failed to list orders", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("orders")
	e.ArrStart()
	for _, o := range list {
		encodeOrder(&e, o)
	}
	e.ArrEnd()
	e.FieldStart("count")
	e.Int(len(list))
	e.ObjEnd()
	writeJSON(w, http.StatusOK, e.Bytes())
}

func parseListCriteria(r *http.Request) (orders.ListCriteria, error) {
	q := r.URL.Query()
	criteria := orders.ListCriteria{Limit: defaultLimit}

	if raw := q.Get("status"); raw != "" {
		status := orders.Status(raw)
		if !status.Valid() {
			return criteria, errors.New("unknown status " + strconv.Quote(raw))
		}
		criteria.Status = &status
	}

	if raw := q.Get("user_id"); raw != "" {
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return criteria, errors.New("user_id must be an integer")
		}
		criteria.UserID = &userID
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return criteria, errors.New("limit must be a positive integer")
		}
		criteria.Limit = min(limit, maxLimit)
	}

	return criteria, nil
}

func encodeOrder(e *jx.Encoder, o *orders.Order) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(o.ID)
	e.FieldStart("user_id")
	e.Int64(o.UserID)
	e.FieldStart("customer_name")
	e.Str(o.CustomerName)
	e.FieldStart("status")
	e.Str(string(o.Status))
	e.FieldStart("total")
	e.Str(o.Total().StringFixed(2))
	e.FieldStart("items")
	e.ArrStart()
	for _, item := range o.Items {
		e.ObjStart()
		e.FieldStart("item_id")
		e.Str(item.ItemID)
		e.FieldStart("name")
		e.Str(item.Name)
		e.FieldStart("quantity")
		e.Int(item.Quantity)
		e.FieldStart("unit_price")
		e.Str(item.UnitPrice.StringFixed(2))
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("created_at")
	e.Str(o.CreatedAt.UTC().Format(timeLayout))
	e.FieldStart("updated_at")
	e.Str(o.UpdatedAt.UTC().Format(timeLayout))
	e.ObjEnd()
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

func writeError(w http.ResponseWriter, status int, msg string) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("error")
	e.Str(msg)
	e.ObjEnd()
	writeJSON(w, status, e.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
