package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"shawarma-bot/internal/stories/menu"
)

const menuItemsTable = "menu_items"

var menuItemRowFields = fields(menuItemRow{})

type menuItemRow struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Category    string          `db:"category"`
	Price       decimal.Decimal `db:"price"`
	SortOrder   int             `db:"sort_order"`
	Available   bool            `db:"available"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (r menuItemRow) ToModel() *menu.Item {
	return &menu.Item{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Category:    menu.Category(r.Category),
		Price:       r.Price,
		SortOrder:   r.SortOrder,
		Available:   r.Available,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// UpsertMenuItem создает позицию или обновляет существующую по id
func (s *storageImpl) UpsertMenuItem(ctx context.Context, item menu.Item) (*menu.Item, error) {
	now := s.now()

	q, args, err := s.stmpBuilder().
		Insert(menuItemsTable).
		Columns("id", "name", "description", "category", "price", "sort_order", "available", "created_at", "updated_at").
		Values(item.ID, item.Name, item.Description, string(item.Category), item.Price.String(), item.SortOrder, item.Available, now, now).
		Suffix("ON CONFLICT(id) DO UPDATE SET " +
			"name = excluded.name, description = excluded.description, category = excluded.category, " +
			"price = excluded.price, sort_order = excluded.sort_order, available = excluded.available, " +
			"updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("db.ExecContext: %w", err)
	}

	return s.GetMenuItem(ctx, menu.GetCriteria{ID: &item.ID})
}

func (s *storageImpl) GetMenuItem(ctx context.Context, criteria menu.GetCriteria) (*menu.Item, error) {
	query := s.stmpBuilder().
		Select(menuItemRowFields).
		From(menuItemsTable).
		Limit(1)

	if criteria.ID != nil {
		query = query.Where(sq.Eq{"id": *criteria.ID})
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var row menuItemRow
	err = s.db.GetContext(ctx, &row, q, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db.GetContext: %w", err)
	}

	return row.ToModel(), nil
}

func (s *storageImpl) ListMenuItems(ctx context.Context, criteria menu.ListCriteria) ([]*menu.Item, error) {
	query := s.stmpBuilder().
		Select(menuItemRowFields).
		From(menuItemsTable)

	if criteria.Category != nil {
		query = query.Where(sq.Eq{"category": string(*criteria.Category)})
	}
	if criteria.Available != nil {
		query = query.Where(sq.Eq{"available": *criteria.Available})
	}
	if criteria.Limit > 0 {
		query = query.Limit(uint64(criteria.Limit))
	}
	if criteria.Offset > 0 {
		query = query.Offset(uint64(criteria.Offset))
	}

	query = query.OrderBy("sort_order ASC", "id ASC")

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var rows []menuItemRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext: %w", err)
	}

	result := make([]*menu.Item, 0, len(rows))
	for _, r := range rows {
		result = append(result, r.ToModel())
	}

	return result, nil
}
