package notifier

import (
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/samber/lo"
)

var ErrNotConfigured = errors.New("notification target is not configured")

// Recipient is either a numeric chat id or a public channel username.
type Recipient struct {
	ChatID  int64
	Channel string
}

func (r Recipient) String() string {
	if r.Channel != "" {
		return r.Channel
	}
	return strconv.FormatInt(r.ChatID, 10)
}

var placeholders = []string{"your", "change_me", "changeme", "todo", "xxx", "channel_id"}

// ParseRecipient parses "-1001234567890" or "@channel". Empty values, zero ids and
// template leftovers like "<CHANNEL_ID>" or "your_channel_id" return ErrNotConfigured.
func ParseRecipient(raw string) (Recipient, error) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "0" {
		return Recipient{}, errors.Wrap(ErrNotConfigured, "empty value")
	}

	lower := strings.ToLower(s)
	if strings.ContainsAny(s, "<>{}") || lo.SomeBy(placeholders, func(p string) bool {
		return strings.Contains(lower, p)
	}) {
		return Recipient{}, errors.Wrapf(ErrNotConfigured, "placeholder %q", s)
	}

	if strings.HasPrefix(s, "@") {
		if len(s) < 2 {
			return Recipient{}, errors.Wrapf(ErrNotConfigured, "bad channel %q", s)
		}
		return Recipient{Channel: s}, nil
	}

	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Recipient{}, errors.Wrapf(ErrNotConfigured, "bad chat id %q", s)
	}

	return Recipient{ChatID: id}, nil
}

// Target is the set of recipients for admin notifications.
type Target struct {
	Channel *Recipient
	Admins  []int64
}

// NewTarget validates the configured channel and admin ids.
// An empty channel is allowed as long as there is at least one admin; a placeholder is not.
func NewTarget(channel string, adminIDs []int64) (Target, error) {
	var t Target

	if strings.TrimSpace(channel) != "" {
		r, err := ParseRecipient(channel)
		if err != nil {
			return Target{}, errors.Wrap(err, "notification channel")
		}
		t.Channel = &r
	}

	t.Admins = lo.Uniq(lo.Filter(adminIDs, func(id int64, _ int) bool { return id != 0 }))

	if t.Channel == nil && len(t.Admins) == 0 {
		return Target{}, errors.Wrap(ErrNotConfigured, "no channel and no admin ids")
	}

	return t, nil
}

// Recipients returns the channel (if any) followed by admins, without duplicates.
func (t Target) Recipients() []Recipient {
	var result []Recipient
	if t.Channel != nil {
		result = append(result, *t.Channel)
	}
	for _, id := range t.Admins {
		r := Recipient{ChatID: id}
		if t.Channel != nil && *t.Channel == r {
			continue
		}
		result = append(result, r)
	}
	return result
}
