package telegram

import (
	"fmt"
	"log/slog"

	"shawarma-bot/internal/metrics"
)

// pollingLogger implements tgbotapi.BotLogger. The library reports failed getUpdates
// calls through it and retries on its own, so logging here is all we need to do.
type pollingLogger struct {
	logger *slog.Logger
}

func newPollingLogger(logger *slog.Logger) *pollingLogger {
	return &pollingLogger{logger: logger.With("component", "telegram-polling")}
}

func (l *pollingLogger) Println(v ...interface{}) {
	for _, arg := range v {
		if err, ok := arg.(error); ok {
			metrics.PollingErrors.Inc()
			l.logger.Error("Telegram polling error", "error", err)
			return
		}
	}
	l.logger.Warn(fmt.Sprint(v...))
}

func (l *pollingLogger) Printf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}
