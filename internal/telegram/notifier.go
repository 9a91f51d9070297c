// Package telegram sends support-team notifications through the Telegram Bot API.
package telegram

import (
	"complaintdedup/backend/internal/models"
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sender is the part of *tgbotapi.BotAPI the notifier uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier posts a message to a support chat whenever a duplicate complaint is linked.
type Notifier struct {
	Bot    Sender
	ChatID int64
	log    *zap.Logger
}

// NewNotifier authorizes the bot token and returns a notifier for chatID.
func NewNotifier(token string, chatID int64, log *zap.Logger) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram authorization failed: %w", err)
	}
	bot.Debug = false
	log.Info("Telegram notifier authorized", zap.String("account", bot.Self.UserName))

	return &Notifier{Bot: bot, ChatID: chatID, log: log}, nil
}

// NotifyDuplicate implements complaint.Notifier.
func (n *Notifier) NotifyDuplicate(ctx context.Context, duplicate *models.Complaint, originalID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.ChatID, DuplicateMessage(duplicate, originalID))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.LinkPreviewOptions.IsDisabled = true

	if _, err := n.Bot.Send(msg); err != nil {
		return fmt.Errorf("send duplicate notification: %w", err)
	}
	return nil
}

// DuplicateMessage renders the notification text.
func DuplicateMessage(duplicate *models.Complaint, originalID string) string {
	var b strings.Builder
	b.WriteString("*Repeated complaint*\n")
	fmt.Fprintf(&b, "Customer: %s\n", tgbotapi.EscapeText(tgbotapi.ModeMarkdown, duplicate.CustomerEmail))
	fmt.Fprintf(&b, "Subject: %s\n", tgbotapi.EscapeText(tgbotapi.ModeMarkdown, duplicate.Subject))
	if duplicate.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", tgbotapi.EscapeText(tgbotapi.ModeMarkdown, duplicate.Category))
	}
	fmt.Fprintf(&b, "Duplicate: `%s`\n", duplicate.ID)
	fmt.Fprintf(&b, "Original: `%s`", originalID)
	return b.String()
}
