package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"memorial-platform/internal/domain/model"
	"memorial-platform/internal/domain/ports/adapter"
)

var _ adapter.AdminNotifier = (*TelegramNotifier)(nil)

// TelegramNotifier pushes review-queue events to the administrators' chats.
type TelegramNotifier struct {
	bot     *tgbotapi.BotAPI
	chatIDs []int64
	log     *zerolog.Logger
}

func NewTelegramNotifier(token string, chatIDs []int64, logger *zerolog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	notifyLog := logger.With().Str("component", "TelegramNotifier").Logger()
	return &TelegramNotifier{bot: bot, chatIDs: chatIDs, log: &notifyLog}, nil
}

func (n *TelegramNotifier) TransactionSubmitted(ctx context.Context, t *model.Transaction) error {
	text := fmt.Sprintf(
		"New payment claim awaiting review\nid: %s\nplan: %s\nmethod: %s\namount: %d %s\nref: %s",
		t.ID, t.PlanKey, t.Method, t.Amount, t.Currency, t.ReferenceNo,
	)
	var firstErr error
	for _, chatID := range n.chatIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := n.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			n.log.Warn().Err(err).Int64("chat_id", chatID).Msg("send failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
