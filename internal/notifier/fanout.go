// Package notifier delivers order notifications to the admin channel, administrators and customers.
package notifier

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-faster/errors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"shawarma-bot/internal/metrics"
	"shawarma-bot/internal/stories/orders"
	"shawarma-bot/internal/telegram/messages"
)

type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Message struct {
	Kind     string
	Text     string
	Keyboard *tgbotapi.InlineKeyboardMarkup
}

type Result struct {
	Recipient Recipient
	MessageID int
	Err       error
}

// Report holds one Result per recipient, in recipient order.
type Report struct {
	Results []Result
}

func (r Report) Sent() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil {
			n++
		}
	}
	return n
}

func (r Report) Failed() int {
	return len(r.Results) - r.Sent()
}

// FailedRecipients returns the recipients a caller may want to retry.
func (r Report) FailedRecipients() []Recipient {
	var failed []Recipient
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res.Recipient)
		}
	}
	return failed
}

type Fanout struct {
	bot    Sender
	target Target
	logger *slog.Logger
}

func New(bot Sender, target Target, logger *slog.Logger) (*Fanout, error) {
	if len(target.Recipients()) == 0 {
		return nil, ErrNotConfigured
	}
	return &Fanout{
		bot:    bot,
		target: target,
		logger: logger,
	}, nil
}

// Notify sends msg to every recipient of the target. A failed recipient is logged and
// recorded in the report; the remaining recipients are still attempted.
func (f *Fanout) Notify(ctx context.Context, msg Message) Report {
	return f.deliver(ctx, msg, f.target.Recipients())
}

// NotifyRecipients sends msg to an explicit subset, e.g. the failed part of an earlier report.
func (f *Fanout) NotifyRecipients(ctx context.Context, msg Message, recipients []Recipient) Report {
	return f.deliver(ctx, msg, recipients)
}

func (f *Fanout) deliver(ctx context.Context, msg Message, recipients []Recipient) Report {
	report := Report{Results: make([]Result, 0, len(recipients))}

	for _, r := range recipients {
		res := Result{Recipient: r}
		if err := ctx.Err(); err != nil {
			res.Err = err
		} else {
			sent, err := f.bot.Send(buildMessage(r, msg))
			res.Err = err
			res.MessageID = sent.MessageID
		}

		if res.Err != nil {
			metrics.Deliveries.WithLabelValues(msg.Kind, "failed").Inc()
			f.logger.Error("Failed to deliver notification",
				"kind", msg.Kind,
				"recipient", r.String(),
				"error", res.Err)
		} else {
			metrics.Deliveries.WithLabelValues(msg.Kind, "sent").Inc()
		}

		report.Results = append(report.Results, res)
	}

	if failed := report.Failed(); failed > 0 {
		f.logger.Warn("Notification partially delivered",
			"kind", msg.Kind,
			"sent", report.Sent(),
			"failed", failed)
	}

	return report
}

func buildMessage(r Recipient, msg Message) tgbotapi.MessageConfig {
	var m tgbotapi.MessageConfig
	if r.Channel != "" {
		m = tgbotapi.NewMessageToChannel(r.Channel, msg.Text)
	} else {
		m = tgbotapi.NewMessage(r.ChatID, msg.Text)
	}
	if msg.Keyboard != nil {
		m.ReplyMarkup = *msg.Keyboard
	}
	return m
}

// NewOrderMessage renders the admin notification for an order. Same order, same message.
func NewOrderMessage(order *orders.Order) Message {
	kb := messages.AdminOrderKeyboard(order)
	return Message{
		Kind:     "new_order",
		Text:     messages.FormatAdminOrder(order),
		Keyboard: &kb,
	}
}

func (f *Fanout) NotifyNewOrder(ctx context.Context, order *orders.Order) Report {
	return f.Notify(ctx, NewOrderMessage(order))
}

// NotifyReminder re-sends a pending order with how long it has been waiting.
func (f *Fanout) NotifyReminder(ctx context.Context, order *orders.Order, waiting time.Duration) Report {
	kb := messages.AdminOrderKeyboard(order)
	return f.Notify(ctx, Message{
		Kind:     "reminder",
		Text:     messages.FormatAdminReminder(order, waiting),
		Keyboard: &kb,
	})
}

// NotifyStatusChange tells the customer about the new status and posts a status line
// to the channel. The returned error reports the customer delivery only.
func (f *Fanout) NotifyStatusChange(ctx context.Context, order *orders.Order) error {
	customer := f.deliver(ctx, Message{
		Kind: "status_customer",
		Text: messages.FormatCustomerStatus(order),
	}, []Recipient{{ChatID: order.UserID}})

	if f.target.Channel != nil {
		f.deliver(ctx, Message{
			Kind: "status_channel",
			Text: messages.FormatChannelStatus(order),
		}, []Recipient{*f.target.Channel})
	}

	if customer.Failed() > 0 {
		return errors.Wrapf(customer.Results[0].Err, "notify customer %d", order.UserID)
	}
	return nil
}
