// Package cart keeps per-user shopping carts in memory.
//
// Operations on different users never contend on the same lock; operations on one
// user serialize on that user's lock, so interleaved add/remove calls cannot lose updates.
package cart

import (
	"context"
	"sort"
	"sync"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type Entry struct {
	ItemID   string
	Quantity int
}

type PriceSource interface {
	PriceOf(ctx context.Context, itemID string) (decimal.Decimal, error)
}

type Store struct {
	mu     sync.Mutex
	carts  map[int64]*userCart
	prices PriceSource
}

type userCart struct {
	mu    sync.Mutex
	items map[string]int
}

func NewStore(prices PriceSource) *Store {
	return &Store{
		carts:  make(map[int64]*userCart),
		prices: prices,
	}
}

// cartFor returns the user's cart, creating it on first use.
// Carts are never removed from the map: a goroutine holding the pointer must not end up
// writing into a detached cart after Clear.
func (s *Store) cartFor(userID int64) *userCart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[userID]
	if !ok {
		c = &userCart{items: make(map[string]int)}
		s.carts[userID] = c
	}
	return c
}

func (s *Store) withCart(userID int64, fn func(items map[string]int)) {
	c := s.cartFor(userID)
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.items)
}

// Add increments the quantity of itemID by qty (at least 1) and returns the new quantity.
func (s *Store) Add(userID int64, itemID string, qty int) int {
	if qty < 1 {
		qty = 1
	}

	var result int
	s.withCart(userID, func(items map[string]int) {
		items[itemID] += qty
		result = items[itemID]
	})
	return result
}

func (s *Store) Increase(userID int64, itemID string) int {
	return s.Add(userID, itemID, 1)
}

// Decrease removes one unit. The entry is deleted when the last unit goes.
func (s *Store) Decrease(userID int64, itemID string) int {
	var result int
	s.withCart(userID, func(items map[string]int) {
		qty, ok := items[itemID]
		if !ok {
			return
		}
		if qty <= 1 {
			delete(items, itemID)
			return
		}
		items[itemID] = qty - 1
		result = qty - 1
	})
	return result
}

func (s *Store) Remove(userID int64, itemID string) {
	s.withCart(userID, func(items map[string]int) {
		delete(items, itemID)
	})
}

func (s *Store) Clear(userID int64) {
	s.withCart(userID, func(items map[string]int) {
		clear(items)
	})
}

func (s *Store) QuantityOf(userID int64, itemID string) int {
	var result int
	s.withCart(userID, func(items map[string]int) {
		result = items[itemID]
	})
	return result
}

// Items returns a snapshot of the cart sorted by item id.
func (s *Store) Items(userID int64) []Entry {
	var result []Entry
	s.withCart(userID, func(items map[string]int) {
		result = snapshot(items)
	})
	return result
}

// Count returns the number of units in the cart.
func (s *Store) Count(userID int64) int {
	return lo.SumBy(s.Items(userID), func(e Entry) int { return e.Quantity })
}

// Take empties the cart and returns what it held, atomically.
func (s *Store) Take(userID int64) []Entry {
	var result []Entry
	s.withCart(userID, func(items map[string]int) {
		result = snapshot(items)
		clear(items)
	})
	return result
}

// Restore adds entries back, e.g. after a failed checkout.
func (s *Store) Restore(userID int64, entries []Entry) {
	s.withCart(userID, func(items map[string]int) {
		for _, e := range entries {
			if e.Quantity > 0 {
				items[e.ItemID] += e.Quantity
			}
		}
	})
}

// Total returns the sum of quantity * unit price. Prices are resolved outside the user lock.
func (s *Store) Total(ctx context.Context, userID int64) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range s.Items(userID) {
		price, err := s.prices.PriceOf(ctx, e.ItemID)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(e.Quantity))))
	}
	return total, nil
}

func snapshot(items map[string]int) []Entry {
	result := make([]Entry, 0, len(items))
	for id, qty := range items {
		result = append(result, Entry{ItemID: id, Quantity: qty})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ItemID < result[j].ItemID })
	return result
}
