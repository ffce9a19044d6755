package coverage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zodiacal/horoscope-api/internal/contracts"
	"github.com/zodiacal/horoscope-api/internal/storage/memory"
	"github.com/zodiacal/horoscope-api/internal/zodiac"
)

var wednesday = time.Date(2024, time.June, 12, 0, 0, 0, 0, time.UTC)

func TestCheckEmptyStore(t *testing.T) {
	checker := NewChecker(memory.New())

	snap, err := checker.Check(context.Background(), wednesday)
	require.NoError(t, err)

	assert.Equal(t, "2024-06-12", snap.Date)
	assert.Equal(t, "2024-06-10", snap.WeekStart)
	assert.Equal(t, 0, snap.Daily.Covered)
	assert.Len(t, snap.Daily.Missing, zodiac.Count)
	assert.Equal(t, 0.0, snap.Score)
}

func TestCheckPartialCoverage(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	// Daily content for signs 1..6 on the date itself.
	for signID := 1; signID <= 6; signID++ {
		_, err := store.Upsert(ctx, contracts.KindDaily,
			contracts.Key{SignID: signID, Date: wednesday},
			contracts.Fields{SignName: "Sign", Symbol: "*", Text: "text"})
		require.NoError(t, err)
	}
	// Full weekly content keyed by the Monday.
	monday := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	for signID := 1; signID <= 12; signID++ {
		_, err := store.Upsert(ctx, contracts.KindWeekly,
			contracts.Key{SignID: signID, Date: monday},
			contracts.Fields{SignName: "Sign", Symbol: "*", Text: "text"})
		require.NoError(t, err)
	}

	snap, err := NewChecker(store).Check(ctx, wednesday)
	require.NoError(t, err)

	assert.Equal(t, 6, snap.Daily.Covered)
	assert.Equal(t, []int{7, 8, 9, 10, 11, 12}, snap.Daily.Missing)
	assert.InDelta(t, 0.5, snap.Daily.Coverage, 1e-9)

	assert.Equal(t, 12, snap.Weekly.Covered)
	assert.Empty(t, snap.Weekly.Missing)
	assert.InDelta(t, 1.0, snap.Weekly.Coverage, 1e-9)

	assert.InDelta(t, 0.75, snap.Score, 1e-9)
}

func TestCheckUsesWeekOfGivenDate(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	// Weekly rows stored under a different week must not count.
	otherMonday := time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)
	_, err := store.Upsert(ctx, contracts.KindWeekly,
		contracts.Key{SignID: 1, Date: otherMonday},
		contracts.Fields{SignName: "Aries", Symbol: "♈", Text: "old week"})
	require.NoError(t, err)

	snap, err := NewChecker(store).Check(ctx, wednesday)
	require.NoError(t, err)

	assert.Equal(t, 0, snap.Weekly.Covered)
}
