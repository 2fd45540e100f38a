package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"calendarbot/internal/dateparse"
)

const (
	upcomingLimit = 10
	dateFormat    = "02.01.2006 15:04"
)

const startReply = "Welcome to the event calendar!\n\n" +
	"Available commands:\n" +
	"/addevent - add an event\n" +
	"/events - show upcoming events\n" +
	"/myevents - show your events\n" +
	"/deleteevent - delete an event\n" +
	"/help - help"

const helpReply = "Event calendar help\n\n" +
	"/addevent - add a new event\n" +
	"  Usage: /addevent <date> <description>\n" +
	"  Example: /addevent 2024-01-15 15:00 Team meeting\n\n" +
	"/events - show upcoming events (up to 10)\n\n" +
	"/myevents - show your events\n\n" +
	"/deleteevent <id> - delete an event by ID\n" +
	"  Example: /deleteevent 5\n\n" +
	"Date formats:\n" +
	"- YYYY-MM-DD HH:MM (2024-01-15 15:00)\n" +
	"- YYYY-MM-DD (2024-01-15)\n" +
	"- today, tomorrow\n" +
	"- +N (N days from now)"

const (
	usageAddEventReply = "Wrong command format.\n\n" +
		"Usage: /addevent <date> <description>\n" +
		"Example: /addevent 2024-01-15 15:00 Team meeting"
	usageDeleteEventReply = "Wrong command format.\n\n" +
		"Usage: /deleteevent <id>\n" +
		"Example: /deleteevent 5"
	badDateReply       = "Unrecognized date. Use /help to see supported formats."
	internalErrorReply = "Something went wrong, try again later."
)

// commandArgs drops the leading /command token.
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	return fields[1:]
}

// splitDateArgs extracts the date token from the argument list. A date
// with a time-of-day spans two tokens, so that form is tried first.
func splitDateArgs(args []string, now time.Time) (time.Time, []string, bool) {
	if len(args) >= 2 {
		if date, ok := dateparse.Parse(args[0]+" "+args[1], now); ok {
			return date, args[2:], true
		}
	}
	if date, ok := dateparse.Parse(args[0], now); ok {
		return date, args[1:], true
	}
	return time.Time{}, nil, false
}

func (b *Bot) addEventReply(ctx context.Context, userID int64, args []string) string {
	if len(args) < 2 {
		return usageAddEventReply
	}
	date, rest, ok := splitDateArgs(args, time.Now())
	if !ok {
		return badDateReply
	}
	if len(rest) == 0 {
		return usageAddEventReply
	}
	description := strings.Join(rest, " ")
	event, err := b.app.CreateEvent(ctx, userID, date, description)
	if err != nil {
		log.Errorf("failed to add event: %v", err)
		return internalErrorReply
	}
	return fmt.Sprintf(
		"Event added!\n\nDate: %s\nDescription: %s\nID: %d",
		date.Format(dateFormat), description, event.ID)
}

func (b *Bot) eventsReply(ctx context.Context) string {
	events, err := b.app.ListUpcoming(ctx, upcomingLimit)
	if err != nil {
		log.Errorf("failed to list events: %v", err)
		return internalErrorReply
	}
	if len(events) == 0 {
		return "No upcoming events"
	}
	var sb strings.Builder
	sb.WriteString("Upcoming events:\n")
	for _, e := range events {
		fmt.Fprintf(&sb, "\nID: %d\nDate: %s\n%s\nCreated by: %d\n",
			e.ID, e.EventDate.Format(dateFormat), e.Title, e.CreatedBy)
	}
	return sb.String()
}

func (b *Bot) myEventsReply(ctx context.Context, userID int64) string {
	events, err := b.app.ListByOwner(ctx, userID)
	if err != nil {
		log.Errorf("failed to list events of %d: %v", userID, err)
		return internalErrorReply
	}
	if len(events) == 0 {
		return "You have no events"
	}
	var sb strings.Builder
	sb.WriteString("Your events:\n")
	for _, e := range events {
		fmt.Fprintf(&sb, "\nID: %d\nDate: %s\n%s\n",
			e.ID, e.EventDate.Format(dateFormat), e.Title)
	}
	return sb.String()
}

func (b *Bot) deleteEventReply(ctx context.Context, userID int64, args []string) string {
	if len(args) != 1 {
		return usageDeleteEventReply
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return "Event ID must be a number"
	}
	var found bool
	if _, found, err = b.app.GetEvent(ctx, id); err != nil {
		log.Errorf("failed to get event %d: %v", id, err)
		return internalErrorReply
	}
	if !found {
		return "No event with that ID"
	}
	deleted, err := b.app.DeleteEvent(ctx, id, userID)
	if err != nil {
		log.Errorf("failed to delete event %d: %v", id, err)
		return internalErrorReply
	}
	if !deleted {
		return "You can only delete your own events"
	}
	return fmt.Sprintf("Event %d deleted", id)
}
