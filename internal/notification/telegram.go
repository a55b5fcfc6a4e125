package notification

import (
	"context"
	"fmt"
	"sort"
	"strings"

	pkgTelegram "staticman-gateway/pkg/telegram"
)

// Sender is the part of the Telegram bot the notifier uses.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

var _ Sender = (*pkgTelegram.Bot)(nil)

type telegramNotifier struct {
	bot    Sender
	chatID int64
}

// NewTelegramNotifier posts a summary of every merged entry to chatID.
func NewTelegramNotifier(bot Sender, chatID int64) Notifier {
	return &telegramNotifier{bot: bot, chatID: chatID}
}

func (n *telegramNotifier) Notify(ctx context.Context, input NotifyInput) error {
	if err := n.bot.SendMessage(ctx, n.chatID, formatMessage(input)); err != nil {
		return fmt.Errorf("notification: telegram: %w", err)
	}
	return nil
}

func formatMessage(input NotifyInput) string {
	p := input.Payload.Parameters

	var b strings.Builder
	fmt.Fprintf(&b, "New entry published on %s/%s (%s)\n", p.Username, p.Repository, p.Branch)
	fmt.Fprintf(&b, "Pull request #%d: %s\n", input.PullRequest.Number, input.PullRequest.Title)

	keys := make([]string, 0, len(input.Payload.Fields))
	for k := range input.Payload.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %v\n", k, input.Payload.Fields[k])
	}

	return strings.TrimRight(b.String(), "\n")
}
