package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

const requestTimeoutMargin = 10 * time.Second

type Client struct {
	api     *tgbotapi.BotAPI
	logger  *slog.Logger
	limiter *rate.Limiter
	timeout time.Duration
	updates tgbotapi.UpdatesChannel
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewClient(token string, rps float64, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	// Ошибки long polling библиотека пишет в свой логгер, перенаправляем их в slog
	if err := tgbotapi.SetLogger(newPollingLogger(logger)); err != nil {
		return nil, fmt.Errorf("установка логгера telegram: %w", err)
	}

	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, newHTTPClient(timeout))
	if err != nil {
		return nil, fmt.Errorf("создание telegram бота: %w", err)
	}

	if rps <= 0 {
		rps = 30
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		api:     bot,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// newHTTPClient ограничивает каждый запрос к API. Таймаут больше таймаута long polling.
func newHTTPClient(pollTimeout time.Duration) *http.Client {
	return &http.Client{Timeout: pollTimeout + requestTimeoutMargin}
}

// Start начинает получение обновлений (long polling).
// Отправка сообщений не привязана к ctx: обработчики должны успеть ответить во время остановки.
func (c *Client) Start(_ context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(c.timeout.Seconds())
	u.AllowedUpdates = []string{"message", "callback_query"}

	c.updates = c.api.GetUpdatesChan(u)

	c.logger.Info("Telegram бот запущен", slog.String("username", c.api.Self.UserName))
	return nil
}

// Stop останавливает получение обновлений
func (c *Client) Stop() {
	c.api.StopReceivingUpdates()
	c.logger.Info("Telegram бот остановлен")
}

// Close прерывает ожидающие лимитера отправки
func (c *Client) Close() {
	c.cancel()
}

// GetUpdates возвращает канал с обновлениями
func (c *Client) GetUpdates() tgbotapi.UpdatesChannel {
	return c.updates
}

// Send отправляет любое сообщение с rate limiting
func (c *Client) Send(chattable tgbotapi.Chattable) (tgbotapi.Message, error) {
	if err := c.limiter.Wait(c.ctx); err != nil {
		return tgbotapi.Message{}, fmt.Errorf("rate limiting: %w", err)
	}

	message, err := c.api.Send(chattable)
	if err != nil {
		c.logger.Error("ошибка отправки", slog.Any("error", err))
		return tgbotapi.Message{}, fmt.Errorf("отправка: %w", err)
	}

	return message, nil
}

// Request отправляет запрос к API (ответы на callback, команды меню)
func (c *Client) Request(chattable tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	if err := c.limiter.Wait(c.ctx); err != nil {
		return nil, fmt.Errorf("rate limiting: %w", err)
	}

	resp, err := c.api.Request(chattable)
	if err != nil {
		c.logger.Error("ошибка запроса к API", slog.Any("error", err))
		return nil, fmt.Errorf("запрос к API: %w", err)
	}

	return resp, nil
}
