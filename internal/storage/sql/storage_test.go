//go:build sql

package sqlstorage_test

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"calendarbot/internal/storage"
	sqlstorage "calendarbot/internal/storage/sql"
)

var (
	host     = "127.0.0.1"
	port     = 5432
	database = "testing"
	username = "postgres"
	password = "pas"
)

func TestMain(m *testing.M) {
	pgHost := os.Getenv("POSTGRES_HOST")
	pgPort := os.Getenv("POSTGRES_PORT")
	if pgHost != "" {
		host = pgHost
	}
	if pgPort != "" {
		port, _ = strconv.Atoi(pgPort)
	}

	os.Exit(m.Run())
}

func TestStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("add and get round-trip", func(t *testing.T) {
		s := createStorage(t)
		e := newEvent(100, time.Now().Add(24*time.Hour))

		require.NoError(t, s.AddEvent(ctx, &e))
		require.NotZero(t, e.ID)

		got, found, err := s.GetEvent(ctx, e.ID)
		require.NoError(t, err)
		require.True(t, found)
		compareEvents(t, e, got)
	})

	t.Run("get absent event", func(t *testing.T) {
		s := createStorage(t)

		_, found, err := s.GetEvent(ctx, 999999999)
		require.NoError(t, err)
		require.False(t, found)
	})

	t.Run("delete is ownership gated", func(t *testing.T) {
		s := createStorage(t)
		e := newEvent(100, time.Now().Add(time.Hour))
		require.NoError(t, s.AddEvent(ctx, &e))

		deleted, err := s.DeleteEvent(ctx, e.ID, 200)
		require.NoError(t, err)
		require.False(t, deleted)

		deleted, err = s.DeleteEvent(ctx, e.ID, 100)
		require.NoError(t, err)
		require.True(t, deleted)

		_, found, err := s.GetEvent(ctx, e.ID)
		require.NoError(t, err)
		require.False(t, found)
	})

	t.Run("upcoming ordered ascending", func(t *testing.T) {
		s := createStorage(t)
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

	t.Run("due window excludes notified and far events", func(t *testing.T) {
		s := createStorage(t)
		inWindow := newEvent(1, time.Now().Add(time.Hour))
		farAway := newEvent(1, time.Now().Add(3*time.Hour))
		notified := newEvent(1, time.Now().Add(14*time.Minute))
		require.NoError(t, s.AddEvent(ctx, &inWindow))
		require.NoError(t, s.AddEvent(ctx, &farAway))
		require.NoError(t, s.AddEvent(ctx, &notified))
		require.NoError(t, s.MarkNotified(ctx, notified.ID))

		events, err := s.ListDueForReminder(ctx, 2*time.Hour)
		require.NoError(t, err)
		require.Len(t, events, 1)
		require.Equal(t, inWindow.ID, events[0].ID)
	})

	t.Run("mark notified is idempotent", func(t *testing.T) {
		s := createStorage(t)
		e := newEvent(1, time.Now().Add(time.Hour))
		require.NoError(t, s.AddEvent(ctx, &e))

		require.NoError(t, s.MarkNotified(ctx, e.ID))
		require.NoError(t, s.MarkNotified(ctx, e.ID))

		got, found, err := s.GetEvent(ctx, e.ID)
		require.NoError(t, err)
		require.True(t, found)
		require.True(t, got.NotificationSent)
	})
}

func newEvent(owner int64, date time.Time) storage.Event {
	return storage.Event{
		Title:       "test",
		Description: "description",
		EventDate:   date,
		CreatedBy:   owner,
	}
}

func compareEvents(t *testing.T, expected storage.Event, actual storage.Event) {
	t.Helper()
	require.True(t, expected.EventDate.Equal(actual.EventDate),
		"event date is not equal %q != %q", expected.EventDate, actual.EventDate)
	require.True(t, expected.CreatedAt.Equal(actual.CreatedAt),
		"created at is not equal %q != %q", expected.CreatedAt, actual.CreatedAt)
	expected.EventDate = actual.EventDate
	expected.CreatedAt = actual.CreatedAt
	require.Equal(t, expected, actual)
}

func cleanupDB() error {
	db, err := sqlx.Connect(
		"postgres",
		fmt.Sprintf("sslmode=disable host=%s port=%d dbname=%s user=%s password=%s", host, port, database, username, password),
	)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec("TRUNCATE TABLE events")
	return err
}

func createStorage(t *testing.T) *sqlstorage.Storage {
	t.Helper()
	s := sqlstorage.New(sqlstorage.Config{
		Host:     host,
		Port:     port,
		Database: database,
		Username: username,
		Password: password,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	require.NoError(t, s.Connect(ctx))
	t.Cleanup(func() {
		require.NoError(t, cleanupDB())
		s.Close(ctx)
	})
	return s
}
