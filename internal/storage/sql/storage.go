package sqlstorage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"

	"calendarbot/internal/storage"
)

var ErrConnectionFailed = errors.New("failed to connect")

type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

type Storage struct {
	host     string
	port     int
	database string
	username string
	password string
	db       *sqlx.DB
}

func New(config Config) *Storage {
	return &Storage{
		host:     config.Host,
		port:     config.Port,
		database: config.Database,
		username: config.Username,
		password: config.Password,
	}
}

func (s *Storage) Connect(ctx context.Context) error {
	db, err := sqlx.ConnectContext(
		ctx,
		"postgres",
		fmt.Sprintf(
			"sslmode=disable host=%s port=%d dbname=%s user=%s password=%s",
			s.host, s.port, s.database, s.username, s.password),
	)
	if err != nil {
		log.Errorf("failed to connect: %v", err)
		return ErrConnectionFailed
	}
	s.db = db
	if err := s.migrate(); err != nil {
		db.Close()
		s.db = nil
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func (s *Storage) Close(_ context.Context) error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

func (s *Storage) AddEvent(ctx context.Context, e *storage.Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return s.db.GetContext(
		ctx,
		&e.ID,
		"INSERT INTO events(title, description, event_date, created_by, created_at) "+
			"VALUES($1, $2, $3, $4, $5) RETURNING id",
		e.Title, e.Description, e.EventDate.UTC(), e.CreatedBy, e.CreatedAt.UTC())
}

func (s *Storage) GetEvent(ctx context.Context, id int64) (storage.Event, bool, error) {
	var e storage.Event
	err := s.db.GetContext(
		ctx,
		&e,
		"SELECT id, title, description, event_date, created_by, created_at, notification_sent "+
			"FROM events WHERE id=$1",
		id)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Event{}, false, nil
	}
	if err != nil {
		return storage.Event{}, false, err
	}
	return e, true, nil
}

func (s *Storage) ListUpcoming(ctx context.Context, limit int) ([]storage.Event, error) {
	var events []storage.Event
	err := s.db.SelectContext(
		ctx,
		&events,
		"SELECT id, title, description, event_date, created_by, created_at, notification_sent "+
			"FROM events WHERE event_date >= $1 ORDER BY event_date LIMIT $2",
		time.Now().UTC(), limit)
	return events, err
}

func (s *Storage) ListByOwner(ctx context.Context, owner int64) ([]storage.Event, error) {
	var events []storage.Event
	err := s.db.SelectContext(
		ctx,
		&events,
		"SELECT id, title, description, event_date, created_by, created_at, notification_sent "+
			"FROM events WHERE created_by = $1 ORDER BY event_date",
		owner)
	return events, err
}

func (s *Storage) ListDueForReminder(ctx context.Context, horizon time.Duration) ([]storage.Event, error) {
	now := time.Now().UTC()
	var events []storage.Event
	err := s.db.SelectContext(
		ctx,
		&events,
		"SELECT id, title, description, event_date, created_by, created_at, notification_sent "+
			"FROM events WHERE event_date BETWEEN $1 AND $2 AND NOT notification_sent "+
			"ORDER BY event_date",
		now, now.Add(horizon))
	return events, err
}

// DeleteEvent removes at most one row; zero rows means not found or not
// the owner, which is not an error.
func (s *Storage) DeleteEvent(ctx context.Context, id int64, requester int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE id=$1 AND created_by=$2", id, requester)
	if err != nil {
		return false, err
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return deleted > 0, nil
}

func (s *Storage) MarkNotified(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "UPDATE events SET notification_sent = TRUE WHERE id=$1", id)
	return err
}
