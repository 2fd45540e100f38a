package storage

import (
	"time"
)

// Event is the single persisted entity. The ID is assigned by the
// storage on creation and never reused. NotificationSent goes
// false -> true exactly once and never back.
type Event struct {
	ID               int64     `db:"id" json:"id"`
	Title            string    `db:"title" json:"title"`
	Description      string    `db:"description" json:"description"`
	EventDate        time.Time `db:"event_date" json:"eventDate"`
	CreatedBy        int64     `db:"created_by" json:"createdBy"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	NotificationSent bool      `db:"notification_sent" json:"notificationSent"`
}
