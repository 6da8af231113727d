package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/septivank/babybeat/internal/aggregation"
	"github.com/septivank/babybeat/internal/domain"
	"github.com/septivank/babybeat/internal/storage/memory"
	"github.com/septivank/babybeat/internal/validator"
)

// 2025-01-06 is a Monday
var monday = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func newService(store EventStore) *EventService {
	return NewEventService(
		store,
		validator.NewValidator(),
		aggregation.NewEngine(store, time.UTC),
		100,
		zap.NewNop(),
	)
}

func bottle(ts time.Time, amount float64) domain.Event {
	return domain.Event{Type: domain.EventTypeFeed, Timestamp: ts, FeedType: ptr(domain.FeedTypeBottle), Amount: &amount}
}

func TestEventService_CreateStoresNormalizedForm(t *testing.T) {
	svc := newService(memory.NewStore())
	ctx := context.Background()

	raw := bottle(monday.Add(8*time.Hour), 120)
	raw.SleepLocation = ptr(domain.SleepLocationCrib)
	raw.DiaperType = ptr(domain.DiaperTypeWet)

	created, err := svc.Create(ctx, raw)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	page, err := svc.List(ctx, ListQuery{Start: monday, End: monday.AddDate(0, 0, 1)})
	require.NoError(t, err)
	require.Len(t, page.Events, 1)

	got := page.Events[0]
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, 120.0, *got.Amount)
	assert.Nil(t, got.SleepLocation)
	assert.Nil(t, got.DiaperType)
}

func TestEventService_CreateRejectsInvalid(t *testing.T) {
	store := memory.NewStore()
	svc := newService(store)

	_, err := svc.Create(context.Background(), bottle(monday, 0))
	require.Error(t, err)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Amount must be positive for bottle feeds", ve.Message)

	count, err := store.CountBefore(context.Background(), monday.AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestEventService_ListNewestFirstWithLimitAndHasMore(t *testing.T) {
	svc := newService(memory.NewStore())
	ctx := context.Background()

	for h := 0; h < 5; h++ {
		_, err := svc.Create(ctx, bottle(monday.Add(time.Duration(h)*time.Hour), 100))
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, ListQuery{Start: monday, End: monday.Add(10 * time.Hour), Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Events, 2)
	assert.Equal(t, monday.Add(4*time.Hour), page.Events[0].Timestamp)
	assert.Equal(t, monday.Add(3*time.Hour), page.Events[1].Timestamp)
	// nothing is older than the start, even though the page is truncated
	assert.False(t, page.HasMore)

	page, err = svc.List(ctx, ListQuery{Start: monday.Add(2 * time.Hour), End: monday.Add(10 * time.Hour)})
	require.NoError(t, err)
	assert.Len(t, page.Events, 3)
	assert.True(t, page.HasMore)
}

func TestEventService_ListEmptyRange(t *testing.T) {
	svc := newService(memory.NewStore())

	page, err := svc.List(context.Background(), ListQuery{Start: monday, End: monday})
	require.NoError(t, err)
	assert.NotNil(t, page.Events)
	assert.Empty(t, page.Events)
	assert.False(t, page.HasMore)

	body, err := json.Marshal(page)
	require.NoError(t, err)
	assert.JSONEq(t, `{"events":[],"hasMore":false}`, string(body))
}

func TestEventService_ReversedRange(t *testing.T) {
	svc := newService(memory.NewStore())
	ctx := context.Background()

	_, err := svc.List(ctx, ListQuery{Start: monday.AddDate(0, 0, 1), End: monday})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.EqualError(t, err, "endDate must be after or equal to startDate")

	_, err = svc.Aggregations(ctx, monday.AddDate(0, 0, 1), monday)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEventService_UpdateMergesAndRenormalizes(t *testing.T) {
	svc := newService(memory.NewStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, bottle(monday.Add(8*time.Hour), 120))
	require.NoError(t, err)

	var patch domain.EventPatch
	require.NoError(t, json.Unmarshal([]byte(`{"feedType":"breastfeeding","amount":null,"leftDuration":10}`), &patch))

	updated, err := svc.Update(ctx, created.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, domain.FeedTypeBreastfeeding, *updated.FeedType)
	assert.Nil(t, updated.Amount)
	assert.Equal(t, 10, *updated.LeftDuration)
	assert.True(t, created.Timestamp.Equal(updated.Timestamp))
}

func TestEventService_UpdateStripsStaleClusters(t *testing.T) {
	svc := newService(memory.NewStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, bottle(monday.Add(8*time.Hour), 120))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, domain.EventPatch{
		Type:       domain.Of(domain.EventTypeDiaper),
		DiaperType: domain.Of(domain.DiaperTypeDirty),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.EventTypeDiaper, updated.Type)
	assert.Nil(t, updated.FeedType)
	assert.Nil(t, updated.Amount)
}

func TestEventService_UpdateErrors(t *testing.T) {
	svc := newService(memory.NewStore())
	ctx := context.Background()

	_, err := svc.Update(ctx, uuid.New(), domain.EventPatch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	created, err := svc.Create(ctx, bottle(monday, 120))
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, domain.EventPatch{Amount: domain.Of(-1.0)})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.EqualError(t, err, "Amount must be positive for bottle feeds")
}

func TestEventService_Delete(t *testing.T) {
	svc := newService(memory.NewStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, bottle(monday, 120))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), domain.ErrNotFound)
}

func TestEventService_Aggregations(t *testing.T) {
	svc := newService(memory.NewStore())
	ctx := context.Background()

	_, err := svc.Create(ctx, bottle(monday.AddDate(0, 0, 1).Add(8*time.Hour), 120))
	require.NoError(t, err)
	_, err = svc.Create(ctx, bottle(monday.AddDate(0, 0, 2).Add(8*time.Hour), 180))
	require.NoError(t, err)

	data, err := svc.Aggregations(ctx, monday, monday.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, data.WeeklyStats, 1)
	assert.Equal(t, domain.AmountStats{Count: 1, Amount: 150}, data.WeeklyStats[0].DailyAverages.Feed.ByType.Bottle)
}

type failingStore struct {
	*memory.Store
	err error
}

func (f failingStore) CountBefore(context.Context, time.Time) (int, error) {
	return 0, f.err
}

func (f failingStore) Ping(context.Context) error {
	return f.err
}

func TestEventService_StoreFailuresPropagate(t *testing.T) {
	boom := errors.New("connection reset")
	svc := newService(failingStore{Store: memory.NewStore(), err: boom})
	ctx := context.Background()

	_, err := svc.List(ctx, ListQuery{Start: monday, End: monday.AddDate(0, 0, 1)})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrValidation)

	assert.ErrorIs(t, svc.Ready(ctx), boom)
}
