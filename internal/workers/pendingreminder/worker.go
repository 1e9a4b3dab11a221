package pendingreminder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Worker periodically reminds administrators about orders stuck in pending
type Worker struct {
	orders       OrderService
	notifier     Notifier
	schedule     string
	pendingAfter time.Duration
	logger       *slog.Logger
	cron         *cron.Cron
	now          func() time.Time

	// заказы, о которых уже напомнили, и время последнего напоминания
	mu       sync.Mutex
	reminded map[string]time.Time
}

// NewWorker creates a new pending reminder worker
func NewWorker(
	orders OrderService,
	notifier Notifier,
	schedule string,
	pendingAfter time.Duration,
	logger *slog.Logger,
) *Worker {
	return &Worker{
		orders:       orders,
		notifier:     notifier,
		schedule:     schedule,
		pendingAfter: pendingAfter,
		logger:       logger,
		cron:         cron.New(),
		now:          time.Now,
		reminded:     make(map[string]time.Time),
	}
}

// Name returns the worker name
func (w *Worker) Name() string {
	return "pending-reminder"
}

// Start schedules the worker
func (w *Worker) Start() error {
	_, err := w.cron.AddFunc(w.schedule, func() {
		ctx := context.Background()
		if err := w.run(ctx); err != nil {
			w.logger.Error("Pending reminder worker failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule pending reminder worker: %w", err)
	}

	w.cron.Start()
	return nil
}

// Stop stops the worker and waits for a running job
func (w *Worker) Stop() {
	w.logger.Info("Stopping pending reminder worker")
	<-w.cron.Stop().Done()
}

// run sends one reminder per stale pending order. An order is reminded again
// only after another pendingAfter interval has passed.
func (w *Worker) run(ctx context.Context) error {
	pending, err := w.orders.ListStalePending(ctx, w.pendingAfter)
	if err != nil {
		return fmt.Errorf("list stale pending orders: %w", err)
	}

	now := w.now()
	w.mu.Lock()
	defer w.mu.Unlock()

	alive := make(map[string]struct{}, len(pending))
	sent := 0
	for _, order := range pending {
		alive[order.ID] = struct{}{}

		if last, ok := w.reminded[order.ID]; ok && now.Sub(last) < w.pendingAfter {
			continue
		}

		report := w.notifier.NotifyReminder(ctx, order, now.Sub(order.CreatedAt))
		if report.Sent() == 0 {
			w.logger.Warn("Reminder was not delivered to anyone", "order_id", order.ID)
			continue
		}
		w.reminded[order.ID] = now
		sent++
	}

	// Заказ ушел из pending, забываем про него
	for id := range w.reminded {
		if _, ok := alive[id]; !ok {
			delete(w.reminded, id)
		}
	}

	if len(pending) > 0 {
		w.logger.Info("Pending reminders processed",
			"pending", len(pending),
			"reminded", sent)
	}
	return nil
}
