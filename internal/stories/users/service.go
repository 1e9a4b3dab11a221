package users

import (
	"context"
	"strconv"

	"github.com/samber/lo"
)

// Service provides business logic for user operations
type Service struct {
	storage Storage
}

// NewService creates a new user service
func NewService(storage Storage) *Service {
	return &Service{
		storage: storage,
	}
}

// GetOrCreate получает пользователя по Telegram ID или создает нового.
// Если username или имя изменились в Telegram, обновляет их.
func (s *Service) GetOrCreate(ctx context.Context, profile Profile) (*User, error) {
	existingUser, err := s.storage.GetUser(ctx, GetCriteria{
		TelegramID: &profile.TelegramID,
	})
	if err != nil {
		return nil, err
	}

	if existingUser == nil {
		return s.storage.CreateUser(ctx, User{
			TelegramID: profile.TelegramID,
			Username:   profile.Username,
			FirstName:  profile.FirstName,
		})
	}

	if existingUser.Username == profile.Username && existingUser.FirstName == profile.FirstName {
		return existingUser, nil
	}

	return s.storage.UpdateUser(ctx, GetCriteria{ID: lo.ToPtr(existingUser.ID)}, UpdateParams{
		Username:  lo.ToPtr(profile.Username),
		FirstName: lo.ToPtr(profile.FirstName),
	})
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
