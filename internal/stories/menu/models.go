package menu

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryShawarma Category = "shawarma"
	CategoryDrinks   Category = "drinks"
)

type Item struct {
	ID          string
	Name        string
	Description string
	Category    Category
	Price       decimal.Decimal
	SortOrder   int
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Критерии для получения позиции меню
type GetCriteria struct {
	ID *string
}

// Критерии для списка позиций
type ListCriteria struct {
	Category  *Category
	Available *bool
	Limit     int
	Offset    int
}
