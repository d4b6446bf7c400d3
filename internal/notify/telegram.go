package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/community_scheduler/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// MessageSender часть *bot.Bot, которая нужна для отправки сообщений
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// TelegramNotifier пишет события в чат администраторов
type TelegramNotifier struct {
	sender MessageSender
	chatID int64
	logger *zap.Logger
}

func NewTelegramNotifier(sender MessageSender, chatID int64, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		sender: sender,
		chatID: chatID,
		logger: logger,
	}
}

// NewTelegramBot создаёт клиента Bot API без обработчиков обновлений
func NewTelegramBot(token string) (*bot.Bot, error) {
	b, err := bot.New(token, bot.WithSkipGetMe())
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return b, nil
}

var eventIcons = map[model.EventType]string{
	model.EventBookingCreated:   "✅",
	model.EventBookingCancelled: "❌",
	model.EventBlockDeleted:     "🗑",
	model.EventSeriesUpdated:    "✏️",
	model.EventSeriesDeleted:    "🗑",
}

// formatEvent текст сообщения для чата
func formatEvent(event model.Event) string {
	var sb strings.Builder

	if icon, ok := eventIcons[event.Type]; ok {
		sb.WriteString(icon)
		sb.WriteString(" ")
	}
	sb.WriteString(event.Summary)

	if event.UserID != "" {
		sb.WriteString("\n👤 ")
		sb.WriteString(event.UserID)
	}
	sb.WriteString("\n🕐 ")
	sb.WriteString(event.OccurredAt.Format("02.01.2006 15:04 MST"))

	return sb.String()
}

func (n *TelegramNotifier) Notify(ctx context.Context, event model.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	_, err := n.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   formatEvent(event),
	})
	if err != nil {
		n.logger.Warn("Failed to send telegram notification",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.Int64("chat_id", n.chatID),
		)
	}
}
