package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusRejected  Status = "rejected"
)

// IsTerminal returns true for statuses without outgoing transitions
func (s Status) IsTerminal() bool {
	return s == StatusReady || s == StatusRejected
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusRejected:
		return true
	}
	return false
}

// Action is an administrator command on an order.
type Action string

const (
	ActionConfirm   Action = "confirm"
	ActionReject    Action = "reject"
	ActionPreparing Action = "preparing"
	ActionReady     Action = "ready"
	ActionDetails   Action = "details"
)

func ParseAction(s string) (Action, bool) {
	switch a := Action(s); a {
	case ActionConfirm, ActionReject, ActionPreparing, ActionReady, ActionDetails:
		return a, true
	}
	return "", false
}

type Item struct {
	ItemID    string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Sum returns Quantity * UnitPrice
func (i Item) Sum() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID           string
	UserID       int64
	CustomerName string
	Items        []Item
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Sum())
	}
	return total
}

// Критерии для списка заказов
type ListCriteria struct {
	UserID        *int64
	Status        *Status
	CreatedBefore *time.Time
	Limit         int
	// По умолчанию новые первыми
	OldestFirst bool
}

// Customer: владелец корзины, оформляющий заказ
type Customer struct {
	UserID int64
	Name   string
}

// TransitionResult describes the outcome of a successful Transition call.
type TransitionResult struct {
	Order   *Order
	From    Status
	Changed bool
}
