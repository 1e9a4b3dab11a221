package telegram

import (
	"slices"

	"shawarma-bot/internal/config"
)

// AdminChecker проверяет является ли пользователь админом
type AdminChecker struct {
	adminIDs []int64
}

// NewAdminChecker создает новый проверялка админов
func NewAdminChecker(cfg *config.TelegramConfig) *AdminChecker {
	return &AdminChecker{
		adminIDs: cfg.AdminIDs,
	}
}

// IsAdmin проверяет является ли пользователь с данным Telegram ID админом
func (a *AdminChecker) IsAdmin(telegramID int64) bool {
	return slices.Contains(a.adminIDs, telegramID)
}
