package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/septivank/babybeat/internal/aggregation"
	"github.com/septivank/babybeat/internal/domain"
	"github.com/septivank/babybeat/internal/validator"
)

// EventStore is the persistence the event service needs. Implemented by
// repository.Repository and memory.Store.
type EventStore interface {
	aggregation.EventReader
	CountBefore(ctx context.Context, t time.Time) (int, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Event, error)
	Create(ctx context.Context, e domain.Event) (domain.Event, error)
	Update(ctx context.Context, e domain.Event) (domain.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
}

// ListQuery selects a page of events. A non-positive Limit means the
// service default.
type ListQuery struct {
	Start time.Time
	End   time.Time
	Limit int
}

// ListResult is a page of events, newest first
type ListResult struct {
	Events []domain.Event `json:"events"`
	// HasMore reports whether events older than the requested start exist.
	HasMore bool `json:"hasMore"`
}

// EventService wires the validator, the store and the aggregation engine
type EventService struct {
	store        EventStore
	validator    *validator.Validator
	engine       *aggregation.Engine
	defaultLimit int
	logger       *zap.Logger
}

// NewEventService creates a new event service
func NewEventService(
	store EventStore,
	validator *validator.Validator,
	engine *aggregation.Engine,
	defaultLimit int,
	logger *zap.Logger,
) *EventService {
	return &EventService{
		store:        store,
		validator:    validator,
		engine:       engine,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

// List returns the newest events in [q.Start, q.End]
func (s *EventService) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	if err := checkRange(q.Start, q.End); err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}

	var (
		events []domain.Event
		older  int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = s.store.FindInRange(gctx, domain.RangeQuery{
			Start:      q.Start,
			End:        q.End,
			Limit:      limit,
			Descending: true,
		})
		if err != nil {
			return fmt.Errorf("failed to list events: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		older, err = s.store.CountBefore(gctx, q.Start)
		if err != nil {
			return fmt.Errorf("failed to count older events: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if events == nil {
		events = []domain.Event{}
	}

	return &ListResult{Events: events, HasMore: older > 0}, nil
}

// Create validates a candidate event and stores its normalized form
func (s *EventService) Create(ctx context.Context, candidate domain.Event) (domain.Event, error) {
	normalized, err := s.validator.Normalize(candidate)
	if err != nil {
		return domain.Event{}, err
	}

	created, err := s.store.Create(ctx, normalized)
	if err != nil {
		return domain.Event{}, fmt.Errorf("failed to create event: %w", err)
	}

	s.logger.Debug("event created",
		zap.String("event_id", created.ID.String()),
		zap.String("type", string(created.Type)),
	)

	return created, nil
}

// Update merges patch into the stored event with the given id, validates the
// result and stores the normalized event in full
func (s *EventService) Update(ctx context.Context, id uuid.UUID, patch domain.EventPatch) (domain.Event, error) {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("failed to load event: %w", err)
	}

	merged := patch.Apply(existing)
	merged.ID = existing.ID

	normalized, err := s.validator.Normalize(merged)
	if err != nil {
		return domain.Event{}, err
	}

	updated, err := s.store.Update(ctx, normalized)
	if err != nil {
		return domain.Event{}, fmt.Errorf("failed to update event: %w", err)
	}

	s.logger.Debug("event updated", zap.String("event_id", id.String()))

	return updated, nil
}

// Delete removes the event with the given id
func (s *EventService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	s.logger.Debug("event deleted", zap.String("event_id", id.String()))

	return nil
}

// Aggregations computes the weekly statistics for [start, end]
func (s *EventService) Aggregations(ctx context.Context, start, end time.Time) (*domain.AggregationData, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	return s.engine.GetAggregations(ctx, start, end)
}

// Ready reports whether the store can serve requests
func (s *EventService) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func checkRange(start, end time.Time) error {
	if end.Before(start) {
		return domain.NewValidationError("endDate must be after or equal to startDate")
	}
	return nil
}
