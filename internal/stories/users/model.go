package users

import "time"

type User struct {
	ID         int64
	TelegramID int64
	Username   string
	FirstName  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DisplayName возвращает имя для уведомлений администраторам
func (u *User) DisplayName() string {
	switch {
	case u.Username != "":
		return "@" + u.Username
	case u.FirstName != "":
		return u.FirstName
	default:
		return "id" + itoa(u.TelegramID)
	}
}

// Критерии для получения пользователя
type GetCriteria struct {
	ID         *int64
	TelegramID *int64
}

// Параметры для обновления пользователя
type UpdateParams struct {
	Username  *string
	FirstName *string
}

// Profile: данные Telegram-аккаунта из входящего апдейта
type Profile struct {
	TelegramID int64
	Username   string
	FirstName  string
}
