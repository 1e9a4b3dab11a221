package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"shawarma-bot/internal/stories/users"
)

const usersTable = "users"

var userRowFields = fields(userRow{})

type userRow struct {
	ID         int64     `db:"id"`
	TelegramID int64     `db:"telegram_id"`
	Username   string    `db:"username"`
	FirstName  string    `db:"first_name"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (u userRow) ToModel() *users.User {
	return &users.User{
		ID:         u.ID,
		TelegramID: u.TelegramID,
		Username:   u.Username,
		FirstName:  u.FirstName,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func (s *storageImpl) CreateUser(ctx context.Context, user users.User) (*users.User, error) {
	params := map[string]interface{}{
		"telegram_id": user.TelegramID,
		"username":    user.Username,
		"first_name":  user.FirstName,
		"created_at":  s.now(),
		"updated_at":  s.now(),
	}

	q, args, err := s.stmpBuilder().
		Insert(usersTable).
		SetMap(params).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	result, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("db.ExecContext: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("result.LastInsertId: %w", err)
	}

	return s.GetUser(ctx, users.GetCriteria{ID: &id})
}

func (s *storageImpl) GetUser(ctx context.Context, criteria users.GetCriteria) (*users.User, error) {
	query := s.stmpBuilder().
		Select(userRowFields).
		From(usersTable).
		Limit(1)

	if criteria.ID != nil {
		query = query.Where(sq.Eq{"id": *criteria.ID})
	}
	if criteria.TelegramID != nil {
		query = query.Where(sq.Eq{"telegram_id": *criteria.TelegramID})
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var u userRow
	err = s.db.GetContext(ctx, &u, q, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db.GetContext: %w", err)
	}

	return u.ToModel(), nil
}

func (s *storageImpl) UpdateUser(ctx context.Context, criteria users.GetCriteria, params users.UpdateParams) (*users.User, error) {
	query := s.stmpBuilder().
		Update(usersTable).
		Set("updated_at", s.now())

	// Добавляем условия для обновления
	if criteria.ID != nil {
		query = query.Where(sq.Eq{"id": *criteria.ID})
	}
	if criteria.TelegramID != nil {
		query = query.Where(sq.Eq{"telegram_id": *criteria.TelegramID})
	}

	// Добавляем параметры для обновления
	if params.Username != nil {
		query = query.Set("username", *params.Username)
	}
	if params.FirstName != nil {
		query = query.Set("first_name", *params.FirstName)
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	_, err = s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("db.ExecContext: %w", err)
	}

	return s.GetUser(ctx, criteria)
}
