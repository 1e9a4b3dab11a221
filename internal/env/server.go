package environment

import (
	"context"
	"log/slog"
	"net/http"

	"shawarma-bot/internal/config"
)

type Servers struct {
	HTTP struct {
		Observability *http.Server
	}
}

func newServers(ctx context.Context, cfg config.Config, logger *slog.Logger, clients *Clients, services *Services) *Servers {
	var servers Servers

	servers.HTTP.Observability = initObservability(ctx, logger.WithGroup("http"), clients, services, cfg)

	return &servers
}
