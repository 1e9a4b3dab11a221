package environment

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"shawarma-bot/internal/config"
	"shawarma-bot/internal/notifier"
	"shawarma-bot/internal/storage"
	"shawarma-bot/internal/stories/cart"
	"shawarma-bot/internal/stories/menu"
	"shawarma-bot/internal/stories/orders"
	"shawarma-bot/internal/stories/users"
	"shawarma-bot/internal/telegram"
	"shawarma-bot/internal/telegram/cmds"
	"shawarma-bot/internal/workers"
	"shawarma-bot/internal/workers/healthcheck"
	"shawarma-bot/internal/workers/pendingreminder"
)

type Services struct {
	TelegramRouter *telegram.Router
	OrderService   *orders.Service
	Notifier       *notifier.Fanout
	WorkerService  *workers.Manager
}

func newServices(ctx context.Context, clients *Clients, cfg *config.Config, logger *slog.Logger) (*Services, error) {
	var s Services

	if clients.TelegramBot == nil {
		return nil, errors.New("telegram bot не инициализирован")
	}

	// Получатели уведомлений проверяются до старта: бот с каналом-заглушкой не запускается
	target, err := notifier.NewTarget(cfg.Telegram.NotificationChannel, cfg.Telegram.AdminIDs)
	if err != nil {
		return nil, errors.Wrap(err, "notification target (TELEGRAM_NOTIFICATION_CHANNEL, TELEGRAM_ADMIN_IDS)")
	}

	storageImpl := storage.New(clients.SQLiteDB.DB)

	menuService := menu.NewService(storageImpl)
	seeded, err := menuService.Seed(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "seed menu")
	}
	logger.Info("Menu seeded", "items", seeded)

	userService := users.NewService(storageImpl)
	cartStore := cart.NewStore(menuService)

	fanout, err := notifier.New(clients.TelegramBot, target, logger.With("component", "notifier"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create notifier")
	}
	s.Notifier = fanout
	logger.Info("Notification target configured", "recipients", len(target.Recipients()))

	orderService := orders.NewService(storageImpl, cartStore, menuService, fanout, logger.With("component", "orders"))
	s.OrderService = orderService

	adminChecker := telegram.NewAdminChecker(&cfg.Telegram)

	menuCommand := cmds.NewMenuCommand(clients.TelegramBot, menuService, cartStore, logger)
	cartCommand := cmds.NewCartCommand(clients.TelegramBot, menuService, cartStore, logger)
	ordersCommand := cmds.NewOrdersCommand(clients.TelegramBot, orderService, fanout, logger)
	adminOrdersCommand := cmds.NewAdminOrdersCommand(clients.TelegramBot, orderService, logger)

	s.TelegramRouter = telegram.NewRouter(
		clients.TelegramBot,
		userService,
		adminChecker,
		menuCommand,
		cartCommand,
		ordersCommand,
		adminOrdersCommand,
		logger.With("component", "router"),
	)

	var ws []workers.Worker
	if cfg.Reminder.Enabled {
		ws = append(ws, pendingreminder.NewWorker(
			orderService,
			fanout,
			cfg.Reminder.Schedule,
			cfg.Reminder.PendingAfter,
			logger.With("worker", "pending-reminder"),
		))
	}
	if cfg.HealthCheck.Enabled {
		ws = append(ws, healthcheck.NewWorker(
			clients.SQLiteDB,
			fanout,
			cfg.HealthCheck.Interval,
			logger.With("worker", "healthcheck"),
		))
	}
	s.WorkerService = workers.NewManager(logger, ws...)

	return &s, nil
}
