package telegram

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
)

// Sender is a send-only Telegram client for the delivery worker; it
// never polls for updates.
type Sender struct {
	client *bot.Bot
}

func NewSender(config Config) (*Sender, error) {
	client, err := bot.New(config.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %w", err)
	}
	return &Sender{client: client}, nil
}

func (s *Sender) Send(ctx context.Context, chatID int64, text string) error {
	_, err := s.client.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("failed to send telegram message to %d: %w", chatID, err)
	}
	return nil
}
