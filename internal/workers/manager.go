package workers

import (
	"fmt"
	"log/slog"

	"github.com/samber/lo"
)

// Manager starts workers in order and stops them in reverse order
type Manager struct {
	workers []Worker
	started []Worker
	logger  *slog.Logger
}

func NewManager(logger *slog.Logger, workers ...Worker) *Manager {
	return &Manager{
		workers: workers,
		logger:  logger,
	}
}

// Names returns worker names in start order
func (m *Manager) Names() []string {
	return lo.Map(m.workers, func(w Worker, _ int) string { return w.Name() })
}

// Start starts all workers. If one fails, the already started ones are stopped.
func (m *Manager) Start() error {
	m.logger.Info("Starting workers", "workers", m.Names())

	for _, worker := range m.workers {
		if err := worker.Start(); err != nil {
			m.stop()
			return fmt.Errorf("start worker %s: %w", worker.Name(), err)
		}
		m.started = append(m.started, worker)
		m.logger.Info("Worker started", "worker", worker.Name())
	}

	return nil
}

// Stop stops the started workers. Calling it again is a no-op.
func (m *Manager) Stop() {
	m.logger.Info("Stopping workers", "workers", m.Names())
	m.stop()
	m.logger.Info("All workers stopped")
}

func (m *Manager) stop() {
	for i := len(m.started) - 1; i >= 0; i-- {
		m.started[i].Stop()
		m.logger.Info("Worker stopped", "worker", m.started[i].Name())
	}
	m.started = nil
}
