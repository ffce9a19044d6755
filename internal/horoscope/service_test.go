package horoscope

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zodiacal/horoscope-api/internal/contracts"
	"github.com/zodiacal/horoscope-api/internal/storage/memory"
	"github.com/zodiacal/horoscope-api/pkg/logger"
	"github.com/zodiacal/horoscope-api/pkg/redis"
)

func newTestService() (*Service, *memory.Store) {
	store := memory.New()
	cache := redis.NewCache(redis.Disabled(), "test")
	return NewService(store, cache, logger.Nop()), store
}

func TestSubmitValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	valid := SubmitInput{
		SignID:    1,
		SignName:  "Aries",
		Symbol:    "♈",
		DailyText: "Good day",
		Date:      "2024-06-12",
	}

	tests := []struct {
		name   string
		mutate func(in *SubmitInput)
	}{
		{"sign id zero", func(in *SubmitInput) { in.SignID = 0 }},
		{"sign id out of range", func(in *SubmitInput) { in.SignID = 13 }},
		{"missing sign name", func(in *SubmitInput) { in.SignName = "" }},
		{"missing symbol", func(in *SubmitInput) { in.Symbol = "" }},
		{"missing date", func(in *SubmitInput) { in.Date = "" }},
		{"malformed date", func(in *SubmitInput) { in.Date = "12/06/2024" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)

			_, err := svc.Submit(ctx, in)

			assert.True(t, errors.Is(err, contracts.ErrValidation), "got %v", err)
		})
	}

	// Nothing was written along the way.
	recs, err := svc.FetchAll(ctx, "2024-06-12", "daily")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestSubmitDailyOnly(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	result, err := svc.Submit(ctx, SubmitInput{
		SignID:    1,
		SignName:  "Aries",
		Symbol:    "♈",
		DailyText: "Good day",
		Date:      "2024-06-12",
	})
	require.NoError(t, err)

	require.NotNil(t, result.Daily)
	assert.Equal(t, contracts.OutcomeCreated, result.Daily.Outcome)
	assert.Equal(t, "2024-06-12", result.Daily.Date)
	assert.Nil(t, result.Weekly)

	got, err := svc.FetchOne(ctx, "1", "2024-06-12", "daily")
	require.NoError(t, err)
	assert.Equal(t, &Horoscope{
		ID:       1,
		SignName: "Aries",
		Symbol:   "♈",
		Daily:    "Good day",
		Weekly:   "",
		Date:     "2024-06-12",
	}, got)

	// No weekly record came into existence.
	_, err = svc.FetchOne(ctx, "1", "2024-06-12", "weekly")
	assert.True(t, errors.Is(err, contracts.ErrNotFound))
}

func TestSubmitIsIdempotentPerKey(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	in := SubmitInput{
		SignID:    5,
		SignName:  "Leo",
		Symbol:    "♌",
		DailyText: "first version",
		Date:      "2024-06-12",
	}

	result, err := svc.Submit(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, contracts.OutcomeCreated, result.Daily.Outcome)

	in.DailyText = "second version"
	result, err = svc.Submit(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, contracts.OutcomeUpdated, result.Daily.Outcome)

	recs, err := svc.FetchAll(ctx, "2024-06-12", "daily")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "second version", recs[0].Daily)
}

func TestSubmitWeeklyCollapsesToWeekStart(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	// Wednesday and Friday of the same week target the same record.
	_, err := svc.Submit(ctx, SubmitInput{
		SignID: 1, SignName: "Aries", Symbol: "♈",
		WeeklyText: "Good week", Date: "2024-06-12",
	})
	require.NoError(t, err)

	result, err := svc.Submit(ctx, SubmitInput{
		SignID: 1, SignName: "Aries", Symbol: "♈",
		WeeklyText: "Better week", Date: "2024-06-14",
	})
	require.NoError(t, err)
	assert.Equal(t, contracts.OutcomeUpdated, result.Weekly.Outcome)

	// The result reports where the write landed, not the submitted date.
	assert.Equal(t, "2024-06-10", result.Weekly.Date)

	// Any date of that week reads it back, keyed by the Monday.
	got, err := svc.FetchOne(ctx, "1", "2024-06-16", "weekly")
	require.NoError(t, err)
	assert.Equal(t, "Better week", got.Weekly)
	assert.Equal(t, "", got.Daily)
	assert.Equal(t, "2024-06-10", got.Date)

	recs, err := svc.FetchAll(ctx, "2024-06-13", "weekly")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestSubmitBothKinds(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	result, err := svc.Submit(ctx, SubmitInput{
		SignID: 8, SignName: "Scorpio", Symbol: "♏",
		DailyText: "Good day", WeeklyText: "Good week", Date: "2024-06-12",
	})
	require.NoError(t, err)

	require.NotNil(t, result.Daily)
	require.NotNil(t, result.Weekly)
	assert.Equal(t, contracts.OutcomeCreated, result.Daily.Outcome)
	assert.Equal(t, contracts.OutcomeCreated, result.Weekly.Outcome)
	assert.Equal(t, "2024-06-12", result.Daily.Date)
	assert.Equal(t, "2024-06-10", result.Weekly.Date)
}

func TestSubmitWithoutTextsWritesNothing(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	result, err := svc.Submit(ctx, SubmitInput{
		SignID: 2, SignName: "Taurus", Symbol: "♉", Date: "2024-06-12",
	})

	require.NoError(t, err)
	assert.Nil(t, result.Daily)
	assert.Nil(t, result.Weekly)

	recs, err := svc.FetchAll(ctx, "2024-06-12", "daily")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestFetchOneRejectsBadSignID(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.FetchOne(ctx, "abc", "2024-06-12", "daily")
	assert.True(t, errors.Is(err, contracts.ErrValidation))

	_, err = svc.FetchOne(ctx, "99", "2024-06-12", "daily")
	assert.True(t, errors.Is(err, contracts.ErrValidation))
}

func TestFetchOneNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.FetchOne(context.Background(), "4", "2024-06-12", "daily")

	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrNotFound))
}

func TestFetchAllEmptyPeriod(t *testing.T) {
	svc, _ := newTestService()

	recs, err := svc.FetchAll(context.Background(), "2024-06-12", "daily")

	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestFetchAllOrdersBySignID(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, signID := range []int{11, 2, 7} {
		_, err := svc.Submit(ctx, SubmitInput{
			SignID: signID, SignName: "Sign", Symbol: "*",
			DailyText: "text", Date: "2024-06-12",
		})
		require.NoError(t, err)
	}

	recs, err := svc.FetchAll(ctx, "2024-06-12", "daily")
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, 2, recs[0].ID)
	assert.Equal(t, 7, recs[1].ID)
	assert.Equal(t, 11, recs[2].ID)
}

func TestFetchDefaultsDateToTodayUTC(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	// Pin the clock just before midnight in UTC terms so a zone slip
	// would land on the wrong day.
	svc.now = func() time.Time {
		return time.Date(2024, time.June, 12, 23, 30, 0, 0, time.UTC)
	}

	_, err := svc.Submit(ctx, SubmitInput{
		SignID: 3, SignName: "Gemini", Symbol: "♊",
		DailyText: "today's text", Date: "2024-06-12",
	})
	require.NoError(t, err)

	got, err := svc.FetchOne(ctx, "3", "", "")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-12", got.Date)
	assert.Equal(t, "today's text", got.Daily)

	recs, err := svc.FetchAll(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestFetchKindDefaultsToDaily(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Submit(ctx, SubmitInput{
		SignID: 6, SignName: "Virgo", Symbol: "♍",
		DailyText: "daily text", WeeklyText: "weekly text", Date: "2024-06-12",
	})
	require.NoError(t, err)

	got, err := svc.FetchOne(ctx, "6", "2024-06-12", "")
	require.NoError(t, err)
	assert.Equal(t, "daily text", got.Daily)

	// Unrecognized kinds fall back to daily too.
	got, err = svc.FetchOne(ctx, "6", "2024-06-12", "monthly")
	require.NoError(t, err)
	assert.Equal(t, "daily text", got.Daily)
}

// countingStore counts read calls on top of a real in-memory store.
type countingStore struct {
	*memory.Store
	gets  int
	lists int
}

func (c *countingStore) Get(ctx context.Context, kind contracts.Kind, key contracts.Key) (*contracts.Record, error) {
	c.gets++
	return c.Store.Get(ctx, kind, key)
}

func (c *countingStore) ListByPeriod(ctx context.Context, kind contracts.Kind, period time.Time) ([]contracts.Record, error) {
	c.lists++
	return c.Store.ListByPeriod(ctx, kind, period)
}

func TestServiceHoldsNoStateBetweenRequests(t *testing.T) {
	store := &countingStore{Store: memory.New()}
	svc := NewService(store, redis.NewCache(redis.Disabled(), "test"), logger.Nop())
	ctx := context.Background()

	_, err := svc.Submit(ctx, SubmitInput{
		SignID: 1, SignName: "Aries", Symbol: "♈",
		DailyText: "Good day", Date: "2024-06-12",
	})
	require.NoError(t, err)

	// With the cache disabled every fetch consults the store; nothing
	// is held in the service between calls.
	for i := 0; i < 3; i++ {
		_, err := svc.FetchOne(ctx, "1", "2024-06-12", "daily")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, store.gets)

	for i := 0; i < 2; i++ {
		_, err := svc.FetchAll(ctx, "2024-06-12", "daily")
		require.NoError(t, err)
	}
	assert.Equal(t, 2, store.lists)
}

// flakyStore fails upserts for one kind and delegates the rest to a
// real in-memory store.
type flakyStore struct {
	*memory.Store
	failKind contracts.Kind
}

func (f *flakyStore) Upsert(ctx context.Context, kind contracts.Kind, key contracts.Key, fields contracts.Fields) (contracts.Outcome, error) {
	if kind == f.failKind {
		return "", contracts.NewStoreError("upsert", errors.New("connection reset"))
	}
	return f.Store.Upsert(ctx, kind, key, fields)
}

func TestSubmitReportsPartialFailureDistinctly(t *testing.T) {
	store := &flakyStore{Store: memory.New(), failKind: contracts.KindWeekly}
	svc := NewService(store, redis.NewCache(redis.Disabled(), "test"), logger.Nop())
	ctx := context.Background()

	result, err := svc.Submit(ctx, SubmitInput{
		SignID: 1, SignName: "Aries", Symbol: "♈",
		DailyText: "Good day", WeeklyText: "Good week", Date: "2024-06-12",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrStore))

	// The daily success is still visible next to the weekly failure.
	require.NotNil(t, result.Daily)
	assert.Equal(t, contracts.OutcomeCreated, result.Daily.Outcome)
	require.NotNil(t, result.Weekly)
	assert.Equal(t, "store failure", result.Weekly.Error)
	assert.Empty(t, result.Weekly.Outcome)

	// And the daily record really landed.
	got, fetchErr := svc.FetchOne(ctx, "1", "2024-06-12", "daily")
	require.NoError(t, fetchErr)
	assert.Equal(t, "Good day", got.Daily)
}
