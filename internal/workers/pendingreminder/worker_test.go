package pendingreminder

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shawarma-bot/internal/notifier"
	"shawarma-bot/internal/stories/orders"
)

type fakeOrders struct {
	pending []*orders.Order
	err     error
}

func (f *fakeOrders) ListStalePending(context.Context, time.Duration) ([]*orders.Order, error) {
	return f.pending, f.err
}

type fakeNotifier struct {
	waits map[string][]time.Duration
	fail  bool
}

func (f *fakeNotifier) NotifyReminder(_ context.Context, order *orders.Order, waiting time.Duration) notifier.Report {
	if f.waits == nil {
		f.waits = make(map[string][]time.Duration)
	}
	f.waits[order.ID] = append(f.waits[order.ID], waiting)

	res := notifier.Result{Recipient: notifier.Recipient{ChatID: 1}}
	if f.fail {
		res.Err = errors.New("Forbidden")
	}
	return notifier.Report{Results: []notifier.Result{res}}
}

func newTestWorker(o *fakeOrders, n *fakeNotifier, now *time.Time) *Worker {
	w := NewWorker(o, n, "@every 1m", 15*time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	w.now = func() time.Time { return *now }
	return w
}

func TestRunRemindsOncePerInterval(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	now := created.Add(20 * time.Minute)

	o := &fakeOrders{pending: []*orders.Order{{ID: "o1", CreatedAt: created}}}
	n := &fakeNotifier{}
	w := newTestWorker(o, n, &now)
	ctx := context.Background()

	require.NoError(t, w.run(ctx))
	assert.Equal(t, []time.Duration{20 * time.Minute}, n.waits["o1"])

	// через 5 минут еще рано
	now = now.Add(5 * time.Minute)
	require.NoError(t, w.run(ctx))
	assert.Len(t, n.waits["o1"], 1)

	now = now.Add(10 * time.Minute)
	require.NoError(t, w.run(ctx))
	assert.Equal(t, []time.Duration{20 * time.Minute, 35 * time.Minute}, n.waits["o1"])
}

func TestRunForgetsConfirmedOrders(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	now := created.Add(20 * time.Minute)

	o := &fakeOrders{pending: []*orders.Order{{ID: "o1", CreatedAt: created}}}
	n := &fakeNotifier{}
	w := newTestWorker(o, n, &now)

	require.NoError(t, w.run(context.Background()))
	assert.Contains(t, w.reminded, "o1")

	o.pending = nil
	require.NoError(t, w.run(context.Background()))
	assert.Empty(t, w.reminded)
}

func TestRunRetriesUndelivered(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	now := created.Add(20 * time.Minute)

	o := &fakeOrders{pending: []*orders.Order{{ID: "o1", CreatedAt: created}}}
	n := &fakeNotifier{fail: true}
	w := newTestWorker(o, n, &now)

	require.NoError(t, w.run(context.Background()))
	require.NoError(t, w.run(context.Background()))
	assert.Len(t, n.waits["o1"], 2, "nobody got the reminder, so the next run tries again")
}

func TestRunListError(t *testing.T) {
	now := time.Now()
	w := newTestWorker(&fakeOrders{err: errors.New("database is locked")}, &fakeNotifier{}, &now)

	require.Error(t, w.run(context.Background()))
}

func TestStartRejectsBadSchedule(t *testing.T) {
	w := NewWorker(&fakeOrders{}, &fakeNotifier{}, "every five minutes", time.Minute,
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.Error(t, w.Start())
	assert.Equal(t, "pending-reminder", w.Name())
}
