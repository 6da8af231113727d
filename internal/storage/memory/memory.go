// Package memory is an in-memory event store with the same semantics as the
// PostgreSQL repository. It backs STORAGE_BACKEND=memory and service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/septivank/babybeat/internal/domain"
)

// Store keeps events in a map keyed by id
type Store struct {
	mu     sync.RWMutex
	events map[uuid.UUID]domain.Event
	now    func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		events: make(map[uuid.UUID]domain.Event),
		now:    time.Now,
	}
}

// FindInRange returns events with a timestamp in [q.Start, q.End]
func (s *Store) FindInRange(_ context.Context, q domain.RangeQuery) ([]domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Event, 0)
	for _, e := range s.events {
		if e.Timestamp.Before(q.Start) || e.Timestamp.After(q.End) {
			continue
		}
		out = append(out, e.Clone())
	}

	sort.SliceStable(out, func(i, j int) bool {
		if q.Descending {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// CountBefore counts events with a timestamp strictly before t
func (s *Store) CountBefore(_ context.Context, t time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, e := range s.events {
		if e.Timestamp.Before(t) {
			count++
		}
	}
	return count, nil
}

// Get loads one event by id
func (s *Store) Get(_ context.Context, id uuid.UUID) (domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[id]
	if !ok {
		return domain.Event{}, fmt.Errorf("event %s: %w", id, domain.ErrNotFound)
	}
	return e.Clone(), nil
}

// Create stores e under a fresh id
func (s *Store) Create(_ context.Context, e domain.Event) (domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	stored := e.Clone()
	stored.ID = uuid.New()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.events[stored.ID] = stored

	return stored.Clone(), nil
}

// Update replaces the mutable fields of the event with e.ID
func (s *Store) Update(_ context.Context, e domain.Event) (domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.events[e.ID]
	if !ok {
		return domain.Event{}, fmt.Errorf("event %s: %w", e.ID, domain.ErrNotFound)
	}

	stored := e.Clone()
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = s.now()
	s.events[stored.ID] = stored

	return stored.Clone(), nil
}

// Delete removes the event with the given id
func (s *Store) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return fmt.Errorf("event %s: %w", id, domain.ErrNotFound)
	}
	delete(s.events, id)
	return nil
}

// Ping always succeeds
func (s *Store) Ping(context.Context) error {
	return nil
}
