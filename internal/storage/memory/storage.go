package memorystorage

import (
	"context"
	"sort"
	"sync"
	"time"

	"calendarbot/internal/storage"
)

type Storage struct {
	mu    sync.RWMutex
	data  map[int64]storage.Event
	idSeq int64
}

func New() *Storage {
	return &Storage{data: make(map[int64]storage.Event)}
}

func (s *Storage) Connect(_ context.Context) error {
	return nil
}

func (s *Storage) Close(_ context.Context) error {
	return nil
}

func (s *Storage) AddEvent(_ context.Context, e *storage.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.ID = s.nextID()
	s.data[e.ID] = *e
	return nil
}

func (s *Storage) GetEvent(_ context.Context, id int64) (storage.Event, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.data[id]
	return e, ok, nil
}

func (s *Storage) ListUpcoming(_ context.Context, limit int) ([]storage.Event, error) {
	now := time.Now()
	events := s.selectSorted(func(e storage.Event) bool {
		return !e.EventDate.Before(now)
	})
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

func (s *Storage) ListByOwner(_ context.Context, owner int64) ([]storage.Event, error) {
	return s.selectSorted(func(e storage.Event) bool {
		return e.CreatedBy == owner
	}), nil
}

func (s *Storage) ListDueForReminder(_ context.Context, horizon time.Duration) ([]storage.Event, error) {
	now := time.Now()
	deadline := now.Add(horizon)
	return s.selectSorted(func(e storage.Event) bool {
		return !e.NotificationSent && !e.EventDate.Before(now) && !e.EventDate.After(deadline)
	}), nil
}

func (s *Storage) DeleteEvent(_ context.Context, id int64, requester int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[id]
	if !ok || e.CreatedBy != requester {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *Storage) MarkNotified(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[id]
	if !ok {
		return nil
	}
	e.NotificationSent = true
	s.data[id] = e
	return nil
}

// selectSorted returns matching events ascending by event date.
func (s *Storage) selectSorted(match func(storage.Event) bool) []storage.Event {
	events := make([]storage.Event, 0)
	s.mu.RLock()
	for _, e := range s.data {
		if match(e) {
			events = append(events, e)
		}
	}
	s.mu.RUnlock()
	sort.Slice(events, func(i, j int) bool {
		return events[i].EventDate.Before(events[j].EventDate)
	})
	return events
}

// Caller must hold mu. IDs are never reused, deleted ones included.
func (s *Storage) nextID() int64 {
	s.idSeq++
	return s.idSeq
}
