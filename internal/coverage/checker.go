// Package coverage reports which signs have published content for a
// period. The scheduler runs it periodically and the API exposes it
// for editorial dashboards.
package coverage

import (
	"context"
	"fmt"
	"time"

	"github.com/zodiacal/horoscope-api/internal/contracts"
	"github.com/zodiacal/horoscope-api/internal/horoscope"
	"github.com/zodiacal/horoscope-api/internal/zodiac"
)

// KindCoverage summarizes one kind for one period.
type KindCoverage struct {
	Covered  int     `json:"covered"`
	Total    int     `json:"total"`
	Missing  []int   `json:"missing_sign_ids"`
	Coverage float64 `json:"coverage"`
}

// Snapshot is the full coverage picture for a date: the daily period
// is the date itself, the weekly period the Monday of its week.
type Snapshot struct {
	Date        string       `json:"date"`
	WeekStart   string       `json:"week_start"`
	Daily       KindCoverage `json:"daily"`
	Weekly      KindCoverage `json:"weekly"`
	Score       float64      `json:"score"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// Checker computes coverage snapshots over any Store backend.
type Checker struct {
	store contracts.Store
}

// NewChecker creates a Checker over the given store.
func NewChecker(store contracts.Store) *Checker {
	return &Checker{store: store}
}

// Check builds the coverage snapshot for date.
func (c *Checker) Check(ctx context.Context, date time.Time) (*Snapshot, error) {
	day := horoscope.DateOnly(date)
	week := horoscope.WeekStart(date)

	daily, err := c.kindCoverage(ctx, contracts.KindDaily, day)
	if err != nil {
		return nil, fmt.Errorf("check daily coverage: %w", err)
	}

	weekly, err := c.kindCoverage(ctx, contracts.KindWeekly, week)
	if err != nil {
		return nil, fmt.Errorf("check weekly coverage: %w", err)
	}

	return &Snapshot{
		Date:      day.Format(contracts.DateLayout),
		WeekStart: week.Format(contracts.DateLayout),
		Daily:     daily,
		Weekly:    weekly,
		// Both kinds weigh equally.
		Score:       (daily.Coverage + weekly.Coverage) / 2,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func (c *Checker) kindCoverage(ctx context.Context, kind contracts.Kind, period time.Time) (KindCoverage, error) {
	recs, err := c.store.ListByPeriod(ctx, kind, period)
	if err != nil {
		return KindCoverage{}, err
	}

	present := make(map[int]bool, len(recs))
	for _, rec := range recs {
		present[rec.SignID] = true
	}

	missing := make([]int, 0)
	for _, sign := range zodiac.All() {
		if !present[sign.ID] {
			missing = append(missing, sign.ID)
		}
	}

	covered := zodiac.Count - len(missing)
	return KindCoverage{
		Covered:  covered,
		Total:    zodiac.Count,
		Missing:  missing,
		Coverage: float64(covered) / float64(zodiac.Count),
	}, nil
}
