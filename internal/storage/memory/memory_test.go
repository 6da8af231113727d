package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/septivank/babybeat/internal/domain"
)

var day = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

func diaper(ts time.Time) domain.Event {
	wet := domain.DiaperTypeWet
	return domain.Event{Type: domain.EventTypeDiaper, Timestamp: ts, DiaperType: &wet}
}

func TestStore_CreateAssignsIdentity(t *testing.T) {
	s := NewStore()
	in := diaper(day)
	in.ID = uuid.New()

	out, err := s.Create(context.Background(), in)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, out.ID)
	assert.NotEqual(t, in.ID, out.ID)
	assert.False(t, out.CreatedAt.IsZero())
	assert.Equal(t, out.CreatedAt, out.UpdatedAt)
}

func TestStore_FindInRange(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	for _, h := range []int{-1, 0, 5, 10, 11} {
		_, err := s.Create(ctx, diaper(day.Add(time.Duration(h)*time.Hour)))
		require.NoError(t, err)
	}

	asc, err := s.FindInRange(ctx, domain.RangeQuery{Start: day, End: day.Add(10 * time.Hour)})
	require.NoError(t, err)
	require.Len(t, asc, 3)
	assert.Equal(t, day, asc[0].Timestamp)
	assert.Equal(t, day.Add(10*time.Hour), asc[2].Timestamp)

	desc, err := s.FindInRange(ctx, domain.RangeQuery{Start: day, End: day.Add(10 * time.Hour), Descending: true, Limit: 2})
	require.NoError(t, err)
	require.Len(t, desc, 2)
	assert.Equal(t, day.Add(10*time.Hour), desc[0].Timestamp)
	assert.Equal(t, day.Add(5*time.Hour), desc[1].Timestamp)

	none, err := s.FindInRange(ctx, domain.RangeQuery{Start: day.AddDate(1, 0, 0), End: day.AddDate(1, 0, 1)})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	count, err := s.CountBefore(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStore_ReturnedEventsDoNotAlias(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	created, err := s.Create(ctx, diaper(day))
	require.NoError(t, err)

	dirty := domain.DiaperTypeDirty
	*created.DiaperType = dirty

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DiaperTypeWet, *got.DiaperType)
}

func TestStore_UpdateAndDelete(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	created, err := s.Create(ctx, diaper(day))
	require.NoError(t, err)

	dirty := domain.DiaperTypeDirty
	changed := created
	changed.DiaperType = &dirty
	changed.CreatedAt = time.Time{}

	updated, err := s.Update(ctx, changed)
	require.NoError(t, err)
	assert.Equal(t, domain.DiaperTypeDirty, *updated.DiaperType)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	require.NoError(t, s.Delete(ctx, created.ID))
	assert.ErrorIs(t, s.Delete(ctx, created.ID), domain.ErrNotFound)

	_, err = s.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.Update(ctx, changed)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ConcurrentCreates(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = s.Create(ctx, diaper(day.Add(time.Duration(i)*time.Minute)))
		}(i)
	}
	wg.Wait()

	count, err := s.CountBefore(ctx, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 50, count)
	assert.NoError(t, s.Ping(ctx))
}
