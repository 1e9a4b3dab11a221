package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	environment "shawarma-bot/internal/env"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize environment
	env, err := environment.Setup(ctx)
	if err != nil {
		log.Fatalf("Failed to setup environment: %v", err)
	}

	logger := env.Logger
	logger.Info("Starting shawarma-bot application")

	// Start observability server in background
	if env.Servers.HTTP.Observability != nil {
		go func() {
			logger.Info("Starting observability server", slog.String("addr", env.Servers.HTTP.Observability.Addr))
			if err := env.Servers.HTTP.Observability.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Observability server error", slog.Any("error", err))
			}
		}()
	}

	// Запускаем Telegram бота
	dispatcherDone, err := startTelegramBot(ctx, env)
	if err != nil {
		logger.Error("Failed to start telegram bot", slog.Any("error", err))
		closeAll(env)
		return
	}

	// Запускаем worker service
	if err := env.Services.WorkerService.Start(); err != nil {
		logger.Error("Failed to start worker service", slog.Any("error", err))
	}

	logger.Info("Bot started successfully. Press Ctrl+C to stop.")
	<-ctx.Done()

	logger.Info("Shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), env.Config.ShutdownDuration)
	defer cancel()

	env.Clients.TelegramBot.Stop()

	// Ждем обработчики, которые уже взяли обновление в работу
	select {
	case <-dispatcherDone:
	case <-shutdownCtx.Done():
		logger.Warn("Shutdown timeout: in-flight handlers did not finish",
			slog.Duration("timeout", env.Config.ShutdownDuration))
	}

	env.Services.WorkerService.Stop()

	if env.Servers.HTTP.Observability != nil {
		if err := env.Servers.HTTP.Observability.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Observability server shutdown error", slog.Any("error", err))
		}
	}

	closeAll(env)

	logger.Info("Application stopped")
}

func closeAll(env *environment.Env) {
	for _, closer := range env.Closers {
		closer()
	}
}

func startTelegramBot(ctx context.Context, env *environment.Env) (<-chan struct{}, error) {
	logger := env.Logger
	bot := env.Clients.TelegramBot
	router := env.Services.TelegramRouter

	// Запускаем telegram клиент
	if err := bot.Start(ctx); err != nil {
		return nil, err
	}

	// Устанавливаем команды для меню бота
	if err := router.SetupBotCommands(); err != nil {
		logger.Error("Failed to setup bot commands", slog.Any("error", err))
		// Не возвращаем ошибку, т.к. это не критично
	} else {
		logger.Info("Bot commands set up successfully")
	}

	logger.Info("Started listening for updates with router...",
		slog.Int("max_in_flight", env.Config.Dispatcher.MaxInFlight),
		slog.Duration("handler_timeout", env.Config.Dispatcher.HandlerTimeout))

	done := make(chan struct{})
	go func() {
		defer close(done)
		started := time.Now()
		router.Serve(ctx, bot.GetUpdates(), env.Config.Dispatcher.MaxInFlight, env.Config.Dispatcher.HandlerTimeout)
		logger.Info("Dispatcher finished", slog.Duration("uptime", time.Since(started)))
	}()

	return done, nil
}
