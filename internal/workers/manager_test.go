package workers

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWorker struct {
	name     string
	startErr error
	events   *[]string
}

func (w fakeWorker) Start() error {
	if w.startErr != nil {
		return w.startErr
	}
	*w.events = append(*w.events, "start "+w.name)
	return nil
}

func (w fakeWorker) Stop() {
	*w.events = append(*w.events, "stop "+w.name)
}

func (w fakeWorker) Name() string {
	return w.name
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestManagerStartStop(t *testing.T) {
	var events []string
	m := NewManager(discardLogger(),
		fakeWorker{name: "pending-reminder", events: &events},
		fakeWorker{name: "healthcheck", events: &events},
	)

	assert.Equal(t, []string{"pending-reminder", "healthcheck"}, m.Names())

	require.NoError(t, m.Start())
	m.Stop()

	assert.Equal(t, []string{
		"start pending-reminder",
		"start healthcheck",
		"stop healthcheck",
		"stop pending-reminder",
	}, events)
}

func TestManagerStartFailureStopsStarted(t *testing.T) {
	var events []string
	m := NewManager(discardLogger(),
		fakeWorker{name: "pending-reminder", events: &events},
		fakeWorker{name: "healthcheck", startErr: errors.New("bad schedule"), events: &events},
	)

	err := m.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "healthcheck")
	assert.Equal(t, []string{"start pending-reminder", "stop pending-reminder"}, events)

	// Повторная остановка при завершении процесса ничего не делает
	m.Stop()
	assert.Len(t, events, 2)
}
