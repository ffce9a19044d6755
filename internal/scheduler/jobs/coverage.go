package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/zodiacal/horoscope-api/internal/coverage"
	"github.com/zodiacal/horoscope-api/pkg/logger"
)

// CoverageCheckJob periodically audits which signs still lack content
// for the current day and week, so gaps surface before readers notice.
type CoverageCheckJob struct {
	checker *coverage.Checker
	log     *logger.Logger
}

// NewCoverageCheckJob creates the coverage audit job.
func NewCoverageCheckJob(checker *coverage.Checker, log *logger.Logger) *CoverageCheckJob {
	return &CoverageCheckJob{checker: checker, log: log}
}

func (j *CoverageCheckJob) Name() string {
	return "coverage_check"
}

// Schedule fires every six hours on the hour.
func (j *CoverageCheckJob) Schedule() string {
	return "0 0 */6 * * *"
}

func (j *CoverageCheckJob) Run(ctx context.Context) error {
	snap, err := j.checker.Check(ctx, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("coverage check: %w", err)
	}

	fields := map[string]interface{}{
		"date":           snap.Date,
		"week_start":     snap.WeekStart,
		"daily_covered":  snap.Daily.Covered,
		"weekly_covered": snap.Weekly.Covered,
		"score":          snap.Score,
	}

	if snap.Score < 1.0 {
		fields["daily_missing"] = snap.Daily.Missing
		fields["weekly_missing"] = snap.Weekly.Missing
		j.log.WithFields(fields).Warn("Horoscope coverage incomplete")
	} else {
		j.log.WithFields(fields).Info("Horoscope coverage complete")
	}

	return nil
}
