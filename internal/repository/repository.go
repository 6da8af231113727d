package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/septivank/babybeat/internal/db"
	"github.com/septivank/babybeat/internal/domain"
)

// Querier is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock pools
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repository stores events in PostgreSQL
type Repository struct {
	q Querier
}

// NewRepository creates a new repository
func NewRepository(q Querier) *Repository {
	return &Repository{q: q}
}

// FindInRange returns events with a timestamp in [q.Start, q.End]
func (r *Repository) FindInRange(ctx context.Context, q domain.RangeQuery) ([]domain.Event, error) {
	order := "occurred_at ASC"
	if q.Descending {
		order = "occurred_at DESC"
	}

	query := psql.Select(db.EventColumns...).
		From(db.EventsTable).
		Where(squirrel.GtOrEq{"occurred_at": q.Start}).
		Where(squirrel.LtOrEq{"occurred_at": q.End}).
		OrderBy(order)
	if q.Limit > 0 {
		query = query.Limit(uint64(q.Limit))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build range query: %w", err)
	}

	var rows []db.EventRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("failed to query events in range: %w", err)
	}

	events := make([]domain.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.ToDomain())
	}
	return events, nil
}

// CountBefore counts events with a timestamp strictly before t
func (r *Repository) CountBefore(ctx context.Context, t time.Time) (int, error) {
	sql, args, err := psql.Select("COUNT(*)").
		From(db.EventsTable).
		Where(squirrel.Lt{"occurred_at": t}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int64
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return int(count), nil
}

// Get loads one event by id
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	sql, args, err := psql.Select(db.EventColumns...).
		From(db.EventsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Event{}, fmt.Errorf("failed to build get query: %w", err)
	}

	var row db.EventRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		return domain.Event{}, mapError(err, id)
	}
	return row.ToDomain(), nil
}

// Create inserts a normalized event. The id and bookkeeping timestamps are
// assigned by the database.
func (r *Repository) Create(ctx context.Context, e domain.Event) (domain.Event, error) {
	sql, args, err := psql.Insert(db.EventsTable).
		SetMap(db.ClusterValues(e)).
		Suffix(returning()).
		ToSql()
	if err != nil {
		return domain.Event{}, fmt.Errorf("failed to build insert: %w", err)
	}

	var row db.EventRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		return domain.Event{}, mapError(err, uuid.Nil)
	}
	return row.ToDomain(), nil
}

// Update rewrites every mutable column of the event with e.ID
func (r *Repository) Update(ctx context.Context, e domain.Event) (domain.Event, error) {
	sql, args, err := psql.Update(db.EventsTable).
		SetMap(db.ClusterValues(e)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": e.ID}).
		Suffix(returning()).
		ToSql()
	if err != nil {
		return domain.Event{}, fmt.Errorf("failed to build update: %w", err)
	}

	var row db.EventRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		return domain.Event{}, mapError(err, e.ID)
	}
	return row.ToDomain(), nil
}

// Delete removes the event with the given id
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := psql.Delete(db.EventsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}

	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return mapError(err, id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("event %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Ping checks that the database is reachable
func (r *Repository) Ping(ctx context.Context) error {
	return r.q.Ping(ctx)
}

func returning() string {
	return "RETURNING " + strings.Join(db.EventColumns, ", ")
}

func mapError(err error, id uuid.UUID) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("event %s: %w", id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) || pgxscan.NotFound(err) {
		return fmt.Errorf("event %s: %w", id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23514": // check_violation
			return fmt.Errorf("event %s: %w", id, domain.ErrValidation)
		case "22P02": // invalid_text_representation
			return fmt.Errorf("event %s: %w", id, domain.ErrValidation)
		}
	}

	return fmt.Errorf("event %s: %w", id, err)
}
