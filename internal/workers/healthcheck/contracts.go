package healthcheck

import (
	"context"

	"shawarma-bot/internal/notifier"
)

type (
	Pinger interface {
		PingContext(ctx context.Context) error
	}

	Notifier interface {
		Notify(ctx context.Context, msg notifier.Message) notifier.Report
	}
)
