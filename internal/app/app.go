package app

import (
	"context"
	"time"

	"calendarbot/internal/storage"
)

// Title is derived from the description and bounded to this many runes.
const titleLimit = 50

type App struct {
	storage storage.Storage
}

func New(stor storage.Storage) *App {
	return &App{storage: stor}
}

func (a *App) CreateEvent(ctx context.Context, owner int64, date time.Time, description string) (storage.Event, error) {
	e := storage.Event{
		Title:       deriveTitle(description),
		Description: description,
		EventDate:   date,
		CreatedBy:   owner,
		CreatedAt:   time.Now(),
	}
	if err := a.storage.AddEvent(ctx, &e); err != nil {
		return storage.Event{}, err
	}
	return e, nil
}

func (a *App) GetEvent(ctx context.Context, id int64) (storage.Event, bool, error) {
	return a.storage.GetEvent(ctx, id)
}

func (a *App) ListUpcoming(ctx context.Context, limit int) ([]storage.Event, error) {
	return a.storage.ListUpcoming(ctx, limit)
}

func (a *App) ListByOwner(ctx context.Context, owner int64) ([]storage.Event, error) {
	return a.storage.ListByOwner(ctx, owner)
}

// DeleteEvent returns false when the event does not exist or requester
// is not its creator.
func (a *App) DeleteEvent(ctx context.Context, id int64, requester int64) (bool, error) {
	return a.storage.DeleteEvent(ctx, id, requester)
}

func deriveTitle(description string) string {
	runes := []rune(description)
	if len(runes) > titleLimit {
		return string(runes[:titleLimit])
	}
	return description
}
