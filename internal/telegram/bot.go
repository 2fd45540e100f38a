// Package telegram is the chat-facing surface: it parses the command
// vocabulary, delegates to the application and formats plain-text
// replies. No scheduling logic lives here.
package telegram

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	log "github.com/sirupsen/logrus"

	"calendarbot/internal/app"
)

type Config struct {
	Token string
}

type Bot struct {
	client *bot.Bot
	app    *app.App
}

func New(config Config, application *app.App) (*Bot, error) {
	b := &Bot{app: application}
	client, err := bot.New(config.Token, bot.WithDefaultHandler(b.handleDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %w", err)
	}
	b.client = client
	b.registerHandlers()
	return b, nil
}

func (b *Bot) registerHandlers() {
	b.client.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, b.handleStart)
	b.client.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, b.handleHelp)
	b.client.RegisterHandler(bot.HandlerTypeMessageText, "/addevent", bot.MatchTypePrefix, b.handleAddEvent)
	b.client.RegisterHandler(bot.HandlerTypeMessageText, "/events", bot.MatchTypeExact, b.handleEvents)
	b.client.RegisterHandler(bot.HandlerTypeMessageText, "/myevents", bot.MatchTypeExact, b.handleMyEvents)
	b.client.RegisterHandler(bot.HandlerTypeMessageText, "/deleteevent", bot.MatchTypePrefix, b.handleDeleteEvent)
}

// Start begins long polling and blocks until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	b.client.Start(ctx)
}

// Notify implements scheduler.Notifier with a direct Telegram send.
func (b *Bot) Notify(ctx context.Context, recipient int64, text string) error {
	_, err := b.client.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: recipient,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("failed to send telegram message to %d: %w", recipient, err)
	}
	return nil
}

func (b *Bot) handleDefault(ctx context.Context, client *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	b.reply(ctx, update, "Unknown command. Use /help to see what I can do.")
}

func (b *Bot) handleStart(ctx context.Context, client *bot.Bot, update *models.Update) {
	b.reply(ctx, update, startReply)
}

func (b *Bot) handleHelp(ctx context.Context, client *bot.Bot, update *models.Update) {
	b.reply(ctx, update, helpReply)
}

func (b *Bot) handleAddEvent(ctx context.Context, client *bot.Bot, update *models.Update) {
	b.reply(ctx, update, b.addEventReply(ctx, update.Message.From.ID, commandArgs(update.Message.Text)))
}

func (b *Bot) handleEvents(ctx context.Context, client *bot.Bot, update *models.Update) {
	b.reply(ctx, update, b.eventsReply(ctx))
}

func (b *Bot) handleMyEvents(ctx context.Context, client *bot.Bot, update *models.Update) {
	b.reply(ctx, update, b.myEventsReply(ctx, update.Message.From.ID))
}

func (b *Bot) handleDeleteEvent(ctx context.Context, client *bot.Bot, update *models.Update) {
	b.reply(ctx, update, b.deleteEventReply(ctx, update.Message.From.ID, commandArgs(update.Message.Text)))
}

func (b *Bot) reply(ctx context.Context, update *models.Update, text string) {
	_, err := b.client.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   text,
	})
	if err != nil {
		log.Errorf("failed to reply in chat %d: %v", update.Message.Chat.ID, err)
	}
}
