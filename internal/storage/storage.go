package storage

import (
	"context"
	"time"
)

// Storage is the durable event store shared by the command surface and
// the reminder scheduler. Absence is a normal return value, not an
// error: GetEvent reports it with the bool, DeleteEvent returns false
// for "not found or not owner".
type Storage interface {
	Connect(ctx context.Context) error
	Close(ctx context.Context) error
	// AddEvent stores the event and assigns e.ID.
	AddEvent(ctx context.Context, e *Event) error
	GetEvent(ctx context.Context, id int64) (Event, bool, error)
	// ListUpcoming returns events with event_date >= now, ascending by
	// date, at most limit of them.
	ListUpcoming(ctx context.Context, limit int) ([]Event, error)
	// ListByOwner returns all events created by owner, ascending by date.
	ListByOwner(ctx context.Context, owner int64) ([]Event, error)
	// ListDueForReminder returns unnotified events starting between now
	// and now+horizon, ascending by date.
	ListDueForReminder(ctx context.Context, horizon time.Duration) ([]Event, error)
	// DeleteEvent removes the event iff it exists and requester is its
	// creator. Returns true iff a row was removed.
	DeleteEvent(ctx context.Context, id int64, requester int64) (bool, error)
	// MarkNotified sets the notification flag. Idempotent.
	MarkNotified(ctx context.Context, id int64) error
}
