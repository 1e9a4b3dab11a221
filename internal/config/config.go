package config

import (
	"fmt"
	"time"
)

type Config struct {
	Env              string                  `env:"ENV,default=local"`
	Logger           LoggerConfig            `env:",prefix=LOGGER_"`
	Observability    ObservabilityHTTPConfig `env:",prefix=OBSERVABILITY_"`
	ShutdownDuration time.Duration           `env:"SHUTDOWN_DURATION,default=30s"`
	DB               SQLiteConfig            `env:",prefix=DB_"`
	Telegram         TelegramConfig          `env:",prefix=TELEGRAM_"`
	Dispatcher       DispatcherConfig        `env:",prefix=DISPATCHER_"`
	Reminder         ReminderConfig          `env:",prefix=REMINDER_"`
	HealthCheck      HealthCheckConfig       `env:",prefix=HEALTHCHECK_"`
}

type TelegramConfig struct {
	BotToken string        `env:"BOT_TOKEN,required"`
	Timeout  time.Duration `env:"TIMEOUT,default=60s"`
	AdminIDs []int64       `env:"ADMIN_IDS"`
	// Числовой chat id (-100...) или @username канала для уведомлений о заказах
	NotificationChannel string  `env:"NOTIFICATION_CHANNEL"`
	RateLimit           float64 `env:"RATE_LIMIT,default=30"`
}

type DispatcherConfig struct {
	MaxInFlight    int           `env:"MAX_IN_FLIGHT,default=64"`
	HandlerTimeout time.Duration `env:"HANDLER_TIMEOUT,default=30s"`
}

type ReminderConfig struct {
	Enabled      bool          `env:"ENABLED,default=true"`
	Schedule     string        `env:"SCHEDULE,default=@every 5m"`
	PendingAfter time.Duration `env:"PENDING_AFTER,default=15m"`
}

type HealthCheckConfig struct {
	Enabled  bool          `env:"ENABLED,default=true"`
	Interval time.Duration `env:"INTERVAL,default=30s"`
}

type LoggerConfig struct {
	Level string `env:"LEVEL,default=debug"`
}

type ObservabilityHTTPConfig struct {
	Host         string        `env:"HOST,default=127.0.0.1"`
	Port         uint16        `env:"PORT,default=8383"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT,default=30s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT,default=30s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT,default=1m"`
}

func (a ObservabilityHTTPConfig) ADDR() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

type SQLiteConfig struct {
	Path         string `env:"PATH,default=./data/shawarma.db"`
	MaxOpenConns int    `env:"MAX_OPEN_CONNS,default=1"`
	MaxIdleConns int    `env:"MAX_IDLE_CONNS,default=1"`
	MaxLifetime  string `env:"MAX_LIFETIME,default=5m"`
}
