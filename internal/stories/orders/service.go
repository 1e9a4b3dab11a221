package orders

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"shawarma-bot/internal/metrics"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrStale             = errors.New("order status already changed")
	ErrEmptyCart         = errors.New("cart is empty")
)

type Service struct {
	repo     Repository
	cart     CartStore
	catalog  Catalog
	notifier StatusNotifier
	tracer   trace.Tracer
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, cart CartStore, catalog Catalog, notifier StatusNotifier, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		cart:     cart,
		catalog:  catalog,
		notifier: notifier,
		tracer:   otel.Tracer("shawarma-bot/orders"),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Get returns the order or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.Wrapf(ErrNotFound, "order %s", id)
	}
	return order, nil
}

// Transition applies an administrator action to the order.
//
// The write is conditioned on the status observed on read, so of two admins acting
// on the same order only one wins; the other gets ErrStale. The status notification
// runs after the write and its failure does not undo the transition.
func (s *Service) Transition(ctx context.Context, id string, action Action) (*TransitionResult, error) {
	ctx, span := s.tracer.Start(ctx, "orders.Transition", trace.WithAttributes(
		attribute.String("order.id", id),
		attribute.String("order.action", string(action)),
	))
	defer span.End()

	res, err := s.transition(ctx, id, action)
	metrics.OrderTransitions.WithLabelValues(string(action), transitionResult(err)).Inc()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return res, nil
}

func (s *Service) transition(ctx context.Context, id string, action Action) (*TransitionResult, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if action == ActionDetails {
		return &TransitionResult{Order: order, From: order.Status}, nil
	}

	from := order.Status
	next, err := NextStatus(from, action)
	if err != nil {
		return nil, errors.Wrapf(err, "%s on %s order %s", action, from, id)
	}

	ok, err := s.repo.CASUpdateStatus(ctx, id, from, next)
	if err != nil {
		return nil, errors.Wrap(err, "update status")
	}
	if !ok {
		return nil, errors.Wrapf(ErrStale, "order %s left %s", id, from)
	}

	order.Status = next
	order.UpdatedAt = s.now()

	s.logger.Info("Order status changed",
		"order_id", id,
		"from", from,
		"to", next)

	if err := s.notifier.NotifyStatusChange(ctx, order); err != nil {
		s.logger.Warn("Status notification failed",
			"order_id", id,
			"status", next,
			"error", err)
	}

	return &TransitionResult{Order: order, From: from, Changed: true}, nil
}

func transitionResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrStale):
		return "stale"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// Checkout converts the customer's cart into a pending order.
// On failure the cart contents are put back.
func (s *Service) Checkout(ctx context.Context, customer Customer) (*Order, error) {
	ctx, span := s.tracer.Start(ctx, "orders.Checkout", trace.WithAttributes(
		attribute.Int64("user.id", customer.UserID),
	))
	defer span.End()

	entries := s.cart.Take(customer.UserID)
	if len(entries) == 0 {
		return nil, ErrEmptyCart
	}

	order, err := s.createFromEntries(ctx, customer, entries)
	if err != nil {
		s.cart.Restore(customer.UserID, entries)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	metrics.OrdersCreated.Inc()
	s.logger.Info("Order created",
		"order_id", order.ID,
		"user_id", order.UserID,
		"items", len(order.Items),
		"total", order.Total().String())

	return order, nil
}

func (s *Service) createFromEntries(ctx context.Context, customer Customer, entries []cartEntry) (*Order, error) {
	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		menuItem, err := s.catalog.GetItem(ctx, e.ItemID)
		if err != nil {
			return nil, errors.Wrap(err, "resolve cart item")
		}
		items = append(items, Item{
			ItemID:    e.ItemID,
			Name:      menuItem.Name,
			Quantity:  e.Quantity,
			UnitPrice: menuItem.Price,
		})
	}

	now := s.now()
	created, err := s.repo.CreateOrder(ctx, Order{
		ID:           uuid.NewString(),
		UserID:       customer.UserID,
		CustomerName: customer.Name,
		Items:        items,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	return created, nil
}

// ListUserOrders returns the latest orders of a customer, newest first.
func (s *Service) ListUserOrders(ctx context.Context, userID int64, limit int) ([]*Order, error) {
	return s.repo.ListOrders(ctx, ListCriteria{
		UserID: lo.ToPtr(userID),
		Limit:  limit,
	})
}

// ListStalePending returns orders that have been pending for longer than olderThan,
// oldest first, so a backlog is worked off from the longest waiting order.
func (s *Service) ListStalePending(ctx context.Context, olderThan time.Duration) ([]*Order, error) {
	return s.repo.ListOrders(ctx, ListCriteria{
		Status:        lo.ToPtr(StatusPending),
		CreatedBefore: lo.ToPtr(s.now().Add(-olderThan)),
		Limit:         100,
		OldestFirst:   true,
	})
}

// List returns orders matching criteria.
func (s *Service) List(ctx context.Context, criteria ListCriteria) ([]*Order, error) {
	return s.repo.ListOrders(ctx, criteria)
}
