package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"shawarma-bot/internal/stories/orders"
)

const (
	ordersTable     = "orders"
	orderItemsTable = "order_items"
)

var (
	orderRowFields     = fields(orderRow{})
	orderItemRowFields = fields(orderItemRow{})
)

type orderRow struct {
	ID           string          `db:"id"`
	UserID       int64           `db:"user_id"`
	CustomerName string          `db:"customer_name"`
	TotalAmount  decimal.Decimal `db:"total_amount"`
	Status       string          `db:"status"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

type orderItemRow struct {
	OrderID   string          `db:"order_id"`
	Position  int             `db:"position"`
	ItemID    string          `db:"item_id"`
	Name      string          `db:"name"`
	Quantity  int             `db:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price"`
}

func (r orderRow) ToModel(items []orderItemRow) *orders.Order {
	return &orders.Order{
		ID:           r.ID,
		UserID:       r.UserID,
		CustomerName: r.CustomerName,
		Items: lo.Map(items, func(i orderItemRow, _ int) orders.Item {
			return orders.Item{
				ItemID:    i.ItemID,
				Name:      i.Name,
				Quantity:  i.Quantity,
				UnitPrice: i.UnitPrice,
			}
		}),
		Status:    orders.Status(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// CreateOrder сохраняет заказ и его позиции в одной транзакции
func (s *storageImpl) CreateOrder(ctx context.Context, order orders.Order) (*orders.Order, error) {
	if len(order.Items) == 0 {
		return nil, fmt.Errorf("order %s has no items", order.ID)
	}

	now := s.now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = now
	}

	params := map[string]interface{}{
		"id":            order.ID,
		"user_id":       order.UserID,
		"customer_name": order.CustomerName,
		"total_amount":  order.Total().String(),
		"status":        string(order.Status),
		"created_at":    order.CreatedAt,
		"updated_at":    order.UpdatedAt,
	}

	orderQ, orderArgs, err := s.stmpBuilder().
		Insert(ordersTable).
		SetMap(params).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	itemsInsert := s.stmpBuilder().
		Insert(orderItemsTable).
		Columns("order_id", "position", "item_id", "name", "quantity", "unit_price")
	for i, item := range order.Items {
		itemsInsert = itemsInsert.Values(order.ID, i, item.ItemID, item.Name, item.Quantity, item.UnitPrice.String())
	}
	itemsQ, itemsArgs, err := itemsInsert.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	err = s.withTx()(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, orderQ, orderArgs...); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		if _, err := tx.ExecContext(ctx, itemsQ, itemsArgs...); err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, order.ID)
}

func (s *storageImpl) GetOrder(ctx context.Context, id string) (*orders.Order, error) {
	q, args, err := s.stmpBuilder().
		Select(orderRowFields).
		From(ordersTable).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var row orderRow
	err = s.db.GetContext(ctx, &row, q, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db.GetContext: %w", err)
	}

	items, err := s.listOrderItems(ctx, []string{row.ID})
	if err != nil {
		return nil, err
	}

	return row.ToModel(items[row.ID]), nil
}

// CASUpdateStatus меняет статус только если он все еще равен expected.
// Возвращает false, если заказ успели изменить (или его нет).
func (s *storageImpl) CASUpdateStatus(ctx context.Context, id string, expected, next orders.Status) (bool, error) {
	q, args, err := s.stmpBuilder().
		Update(ordersTable).
		Set("status", string(next)).
		Set("updated_at", s.now()).
		Where(sq.Eq{"id": id, "status": string(expected)}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build sql query: %w", err)
	}

	result, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, fmt.Errorf("db.ExecContext: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("result.RowsAffected: %w", err)
	}

	return affected == 1, nil
}

func (s *storageImpl) ListOrders(ctx context.Context, criteria orders.ListCriteria) ([]*orders.Order, error) {
	query := s.stmpBuilder().
		Select(orderRowFields).
		From(ordersTable)

	if criteria.UserID != nil {
		query = query.Where(sq.Eq{"user_id": *criteria.UserID})
	}
	if criteria.Status != nil {
		query = query.Where(sq.Eq{"status": string(*criteria.Status)})
	}
	if criteria.CreatedBefore != nil {
		query = query.Where(sq.Lt{"created_at": *criteria.CreatedBefore})
	}
	if criteria.Limit > 0 {
		query = query.Limit(uint64(criteria.Limit))
	}

	if criteria.OldestFirst {
		query = query.OrderBy("created_at ASC")
	} else {
		query = query.OrderBy("created_at DESC")
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var rows []orderRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	items, err := s.listOrderItems(ctx, lo.Map(rows, func(r orderRow, _ int) string { return r.ID }))
	if err != nil {
		return nil, err
	}

	result := make([]*orders.Order, 0, len(rows))
	for _, r := range rows {
		result = append(result, r.ToModel(items[r.ID]))
	}

	return result, nil
}

func (s *storageImpl) listOrderItems(ctx context.Context, orderIDs []string) (map[string][]orderItemRow, error) {
	q, args, err := s.stmpBuilder().
		Select(orderItemRowFields).
		From(orderItemsTable).
		Where(sq.Eq{"order_id": orderIDs}).
		OrderBy("order_id", "position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var rows []orderItemRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext: %w", err)
	}

	return lo.GroupBy(rows, func(r orderItemRow) string { return r.OrderID }), nil
}
