package healthcheck

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"shawarma-bot/internal/notifier"
)

const pingTimeout = 5 * time.Second

type status struct {
	isUp         bool
	failureCount int
	downSince    time.Time
}

// Worker пингует хранилище и сообщает администраторам о падении и восстановлении.
// Повторные неудачные проверки только увеличивают счетчик, без новых сообщений.
type Worker struct {
	db       Pinger
	notifier Notifier
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu    sync.Mutex
	state *status

	stopCh chan struct{}
	doneCh chan struct{}
}

func NewWorker(db Pinger, notifier Notifier, interval time.Duration, logger *slog.Logger) *Worker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Worker{
		db:       db,
		notifier: notifier,
		interval: interval,
		logger:   logger,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (w *Worker) Name() string {
	return "healthcheck"
}

func (w *Worker) Start() error {
	w.logger.Info("Starting health check worker", "interval", w.interval)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				w.logger.Error("Panic in healthcheck worker goroutine", "panic", r)
			}
		}()
		w.run()
	}()
	return nil
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping health check worker")
	close(w.stopCh)
	<-w.doneCh
}

func (w *Worker) run() {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	ctx := context.Background()

	for {
		select {
		case <-ticker.C:
			w.check(ctx)
		case <-w.stopCh:
			return
		}
	}
}

func (w *Worker) check(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := w.db.PingContext(pingCtx)
	cancel()

	if err != nil {
		w.logger.Warn("Storage health check failed", "error", err)
	} else {
		w.logger.Debug("Storage health check passed")
	}

	if msg, ok := w.updateStatus(err == nil); ok {
		w.notifier.Notify(ctx, msg)
	}
}

// updateStatus returns the message to broadcast when the status flips.
func (w *Worker) updateStatus(isUp bool) (notifier.Message, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()

	if w.state == nil {
		w.state = &status{isUp: isUp}
		if !isUp {
			w.state.failureCount = 1
			w.state.downSince = now
			return downMessage(now), true
		}
		return notifier.Message{}, false
	}

	switch {
	case w.state.isUp && !isUp:
		w.state.isUp = false
		w.state.failureCount = 1
		w.state.downSince = now
		return downMessage(now), true
	case !w.state.isUp && !isUp:
		w.state.failureCount++
		return notifier.Message{}, false
	case !w.state.isUp && isUp:
		downtime := now.Sub(w.state.downSince)
		failures := w.state.failureCount
		w.state.isUp = true
		w.state.failureCount = 0
		return recoveredMessage(now, downtime, failures), true
	default:
		return notifier.Message{}, false
	}
}

func downMessage(at time.Time) notifier.Message {
	return notifier.Message{
		Kind: "health_down",
		Text: fmt.Sprintf("🚨 База данных недоступна\n\nЗаказы не сохраняются.\nВремя: %s",
			at.Format("02.01.2006 15:04:05")),
	}
}

func recoveredMessage(at time.Time, downtime time.Duration, failures int) notifier.Message {
	return notifier.Message{
		Kind: "health_recovered",
		Text: fmt.Sprintf("✅ База данных снова доступна\n\nПростой: %s\nНеудачных проверок: %d\nВремя: %s",
			formatDuration(downtime), failures, at.Format("02.01.2006 15:04:05")),
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d сек", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%d мин %d сек", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%d ч %d мин", int(d.Hours()), int(d.Minutes())%60)
}
