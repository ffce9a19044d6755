// Package jobs holds the concrete scheduled jobs wired into the
// scheduler binary.
package jobs

import (
	"context"
	"fmt"

	"github.com/zodiacal/horoscope-api/internal/horoscope"
	"github.com/zodiacal/horoscope-api/pkg/logger"
)

// CacheWarmupJob primes the per-period list caches shortly after
// midnight UTC, so the first readers of the new day hit Redis instead
// of the store.
type CacheWarmupJob struct {
	svc *horoscope.Service
	log *logger.Logger
}

// NewCacheWarmupJob creates the warmup job over the service.
func NewCacheWarmupJob(svc *horoscope.Service, log *logger.Logger) *CacheWarmupJob {
	return &CacheWarmupJob{svc: svc, log: log}
}

func (j *CacheWarmupJob) Name() string {
	return "cache_warmup"
}

// Schedule fires daily at 00:10:00 UTC, after the date has rolled
// over.
func (j *CacheWarmupJob) Schedule() string {
	return "0 10 0 * * *"
}

func (j *CacheWarmupJob) Run(ctx context.Context) error {
	daily, err := j.svc.FetchAll(ctx, "", "daily")
	if err != nil {
		return fmt.Errorf("warm daily list: %w", err)
	}

	weekly, err := j.svc.FetchAll(ctx, "", "weekly")
	if err != nil {
		return fmt.Errorf("warm weekly list: %w", err)
	}

	j.log.WithFields(map[string]interface{}{
		"daily_records":  len(daily),
		"weekly_records": len(weekly),
	}).Info("Cache warmed for today")

	return nil
}
