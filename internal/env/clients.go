package environment

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"shawarma-bot/internal/config"
	"shawarma-bot/internal/infra/sqlite3"
	"shawarma-bot/internal/infra/telegram"
)

type Clients struct {
	SQLiteDB    *sqlite3.DB
	TelegramBot *telegram.Client
}

func newClients(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Clients, error) {
	sqliteDB, err := provideSQLiteDB(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "sqlite")
	}

	telegramBot, err := provideTelegramBot(cfg, logger)
	if err != nil {
		_ = sqliteDB.Close()
		return nil, errors.Wrap(err, "telegram")
	}

	return &Clients{
		SQLiteDB:    sqliteDB,
		TelegramBot: telegramBot,
	}, nil
}

func provideSQLiteDB(ctx context.Context, cfg config.Config) (*sqlite3.DB, error) {
	maxLifetimeStr := cfg.DB.MaxLifetime
	if maxLifetimeStr == "" {
		maxLifetimeStr = "5m"
	}
	maxLifetime, err := time.ParseDuration(maxLifetimeStr)
	if err != nil {
		return nil, errors.Wrap(err, "parse DB_MAX_LIFETIME")
	}

	// SQLite создает файл, но не каталог
	if path := cfg.DB.Path; path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(err, "create db directory")
		}
	}

	opts := []sqlite3.Option{
		sqlite3.WithDSN(cfg.DB.Path),
		sqlite3.WithMaxOpenConns(cfg.DB.MaxOpenConns),
		sqlite3.WithMaxIdleConns(cfg.DB.MaxIdleConns),
		sqlite3.WithConnMaxLifetime(maxLifetime),
	}

	return sqlite3.New(ctx, opts...)
}

func provideTelegramBot(cfg config.Config, logger *slog.Logger) (*telegram.Client, error) {
	if cfg.Telegram.BotToken == "" {
		return nil, errors.New("TELEGRAM_BOT_TOKEN is empty")
	}

	return telegram.NewClient(
		cfg.Telegram.BotToken,
		cfg.Telegram.RateLimit,
		cfg.Telegram.Timeout,
		logger.With("component", "telegram"),
	)
}
