package memorystorage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"calendarbot/internal/storage"
	memorystorage "calendarbot/internal/storage/memory"
)

func newEvent(owner int64, date time.Time) storage.Event {
	return storage.Event{
		Title:       "test",
		Description: "test description",
		EventDate:   date,
		CreatedBy:   owner,
	}
}

func TestStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("add and get round-trip", func(t *testing.T) {
		s := memorystorage.New()
		e := newEvent(100, time.Now().Add(24*time.Hour))

		require.NoError(t, s.AddEvent(ctx, &e))
		require.NotZero(t, e.ID)
		require.False(t, e.CreatedAt.IsZero())

		got, found, err := s.GetEvent(ctx, e.ID)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, e, got)
	})

	t.Run("get absent event", func(t *testing.T) {
		s := memorystorage.New()

		_, found, err := s.GetEvent(ctx, 42)
		require.NoError(t, err)
		require.False(t, found)
	})

	t.Run("ids are not reused after delete", func(t *testing.T) {
		s := memorystorage.New()
		first := newEvent(100, time.Now().Add(time.Hour))
		require.NoError(t, s.AddEvent(ctx, &first))

		deleted, err := s.DeleteEvent(ctx, first.ID, 100)
		require.NoError(t, err)
		require.True(t, deleted)

		second := newEvent(100, time.Now().Add(time.Hour))
		require.NoError(t, s.AddEvent(ctx, &second))
		require.NotEqual(t, first.ID, second.ID)
	})

	t.Run("upcoming ordered by date regardless of owner", func(t *testing.T) {
		s := memorystorage.New()
		later := newEvent(1, time.Now().Add(48*time.Hour))
		sooner := newEvent(2, time.Now().Add(24*time.Hour))
		require.NoError(t, s.AddEvent(ctx, &later))
		require.NoError(t, s.AddEvent(ctx, &sooner))

		events, err := s.ListUpcoming(ctx, 10)
		require.NoError(t, err)
		require.Len(t, events, 2)
		require.Equal(t, sooner.ID, events[0].ID)
		require.Equal(t, later.ID, events[1].ID)
	})

	t.Run("upcoming excludes past and respects limit", func(t *testing.T) {
		s := memorystorage.New()
		past := newEvent(1, time.Now().Add(-time.Hour))
		require.NoError(t, s.AddEvent(ctx, &past))
		for i := 0; i < 5; i++ {
			e := newEvent(1, time.Now().Add(time.Duration(i+1)*time.Hour))
			require.NoError(t, s.AddEvent(ctx, &e))
		}

		events, err := s.ListUpcoming(ctx, 3)
		require.NoError(t, err)
		require.Len(t, events, 3)
		for _, e := range events {
			require.NotEqual(t, past.ID, e.ID)
		}
	})

	t.Run("list by owner", func(t *testing.T) {
		s := memorystorage.New()
		mine := newEvent(1, time.Now().Add(48*time.Hour))
		mineEarlier := newEvent(1, time.Now().Add(24*time.Hour))
		other := newEvent(2, time.Now().Add(time.Hour))
		require.NoError(t, s.AddEvent(ctx, &mine))
		require.NoError(t, s.AddEvent(ctx, &mineEarlier))
		require.NoError(t, s.AddEvent(ctx, &other))

		events, err := s.ListByOwner(ctx, 1)
		require.NoError(t, err)
		require.Len(t, events, 2)
		require.Equal(t, mineEarlier.ID, events[0].ID)
		require.Equal(t, mine.ID, events[1].ID)
	})
}

func TestStorageDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong owner keeps event", func(t *testing.T) {
		s := memorystorage.New()
		e := newEvent(100, time.Now().Add(time.Hour))
		require.NoError(t, s.AddEvent(ctx, &e))

		deleted, err := s.DeleteEvent(ctx, e.ID, 200)
		require.NoError(t, err)
		require.False(t, deleted)

		_, found, err := s.GetEvent(ctx, e.ID)
		require.NoError(t, err)
		require.True(t, found)
	})

	t.Run("owner removes event", func(t *testing.T) {
		s := memorystorage.New()
		e := newEvent(100, time.Now().Add(time.Hour))
		require.NoError(t, s.AddEvent(ctx, &e))

		deleted, err := s.DeleteEvent(ctx, e.ID, 100)
		require.NoError(t, err)
		require.True(t, deleted)

		_, found, err := s.GetEvent(ctx, e.ID)
		require.NoError(t, err)
		require.False(t, found)
	})

	t.Run("absent event is not an error", func(t *testing.T) {
		s := memorystorage.New()

		deleted, err := s.DeleteEvent(ctx, 42, 100)
		require.NoError(t, err)
		require.False(t, deleted)
	})
}

func TestStorageReminders(t *testing.T) {
	ctx := context.Background()

	t.Run("due window", func(t *testing.T) {
		s := memorystorage.New()
		inWindow := newEvent(1, time.Now().Add(time.Hour))
		outOfWindow := newEvent(1, time.Now().Add(3*time.Hour))
		require.NoError(t, s.AddEvent(ctx, &inWindow))
		require.NoError(t, s.AddEvent(ctx, &outOfWindow))

		events, err := s.ListDueForReminder(ctx, 2*time.Hour)
		require.NoError(t, err)
		require.Len(t, events, 1)
		require.Equal(t, inWindow.ID, events[0].ID)
	})

	t.Run("notified events excluded", func(t *testing.T) {
		s := memorystorage.New()
		e := newEvent(1, time.Now().Add(14*time.Minute))
		require.NoError(t, s.AddEvent(ctx, &e))
		require.NoError(t, s.MarkNotified(ctx, e.ID))

		events, err := s.ListDueForReminder(ctx, 2*time.Hour)
		require.NoError(t, err)
		require.Empty(t, events)
	})

	t.Run("mark notified is idempotent", func(t *testing.T) {
		s := memorystorage.New()
		e := newEvent(1, time.Now().Add(time.Hour))
		require.NoError(t, s.AddEvent(ctx, &e))

		require.NoError(t, s.MarkNotified(ctx, e.ID))
		require.NoError(t, s.MarkNotified(ctx, e.ID))

		got, found, err := s.GetEvent(ctx, e.ID)
		require.NoError(t, err)
		require.True(t, found)
		require.True(t, got.NotificationSent)
	})

	t.Run("mark notified on absent event", func(t *testing.T) {
		s := memorystorage.New()
		require.NoError(t, s.MarkNotified(ctx, 42))
	})
}
