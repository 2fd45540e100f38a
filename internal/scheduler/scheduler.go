// Package scheduler implements the reminder engine: a polling loop that
// scans the event store for events approaching their start time and
// notifies their creators. Each event is notified at most once.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"calendarbot/internal/storage"
)

// Notifier delivers a reminder text to a recipient. Fire and forget:
// a failed delivery is not retried.
type Notifier interface {
	Notify(ctx context.Context, recipient int64, text string) error
}

var ErrAlreadyStarted = errors.New("scheduler already started")

const (
	// DefaultCheckInterval is the pause between scan cycles.
	DefaultCheckInterval = time.Minute
	// DefaultHorizon is the lookahead window for candidate events.
	DefaultHorizon = 2 * time.Hour

	// A reminder fires when the time left is within this tolerance of
	// one of the thresholds. 2 minutes with a 60 s cadence means every
	// event is evaluated at least twice while inside a window; if the
	// cadence or horizon changes, this must be re-derived.
	thresholdTolerance = 2.0

	dateFormat = "02.01.2006 15:04"
)

// Reminder thresholds, in minutes before the event.
var reminderThresholds = []float64{60, 15}

type Scheduler struct {
	storage  storage.Storage
	notifier Notifier
	interval time.Duration
	horizon  time.Duration
	now      func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Scheduler)

func WithCheckInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.interval = d }
}

func WithHorizon(d time.Duration) Option {
	return func(s *Scheduler) { s.horizon = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

func New(stor storage.Storage, notifier Notifier, opts ...Option) *Scheduler {
	s := &Scheduler{
		storage:  stor,
		notifier: notifier,
		interval: DefaultCheckInterval,
		horizon:  DefaultHorizon,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the scan loop. The loop runs until Stop is called or
// ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return ErrAlreadyStarted
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx, s.done)
	return nil
}

// Stop requests the loop to finish and waits for it. The request takes
// effect at the next cycle boundary; a scan in progress is not
// interrupted. Stopping a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	log.Info("reminder scheduler started")
	for {
		// A failed scan must not end the loop; the next tick retries.
		if err := s.Scan(ctx); err != nil {
			log.Errorf("reminder scan failed: %v", err)
		}
		select {
		case <-ctx.Done():
			log.Info("reminder scheduler stopped")
			return
		case <-ticker.C:
		}
	}
}

// Scan runs one scan-and-notify cycle: fetch unnotified events within
// the horizon, notify those inside a threshold window, mark them.
func (s *Scheduler) Scan(ctx context.Context) error {
	events, err := s.storage.ListDueForReminder(ctx, s.horizon)
	if err != nil {
		return fmt.Errorf("failed to list due events: %w", err)
	}
	now := s.now()
	for _, event := range events {
		minutesLeft := event.EventDate.Sub(now).Minutes()
		if !withinThreshold(minutesLeft) {
			continue
		}
		if err := s.notifier.Notify(ctx, event.CreatedBy, reminderText(event, minutesLeft)); err != nil {
			log.Errorf("failed to send reminder for event %d to %d: %v", event.ID, event.CreatedBy, err)
		} else {
			log.Infof("reminder sent for event %d to %d", event.ID, event.CreatedBy)
		}
		// The flag is set after the delivery attempt whatever its
		// outcome: reminders are at-most-once, a failed attempt is
		// spent, not retried.
		if err := s.storage.MarkNotified(ctx, event.ID); err != nil {
			log.Errorf("failed to mark event %d as notified: %v", event.ID, err)
		}
	}
	return nil
}

func withinThreshold(minutesLeft float64) bool {
	for _, threshold := range reminderThresholds {
		if math.Abs(minutesLeft-threshold) < thresholdTolerance {
			return true
		}
	}
	return false
}

// reminderText renders the message with a coarse two-bucket label for
// the remaining time, not the exact duration.
func reminderText(e storage.Event, minutesLeft float64) string {
	label := "1 hour"
	if minutesLeft < 20 {
		label = "15 minutes"
	}
	return fmt.Sprintf(
		"Reminder!\n\n%s\nDate: %s\nStarts in: %s\n\nEvent ID: %d",
		e.Title, e.EventDate.Format(dateFormat), label, e.ID)
}
