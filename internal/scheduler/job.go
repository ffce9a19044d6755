package scheduler

import (
	"context"
	"time"
)

// Job is one schedulable unit of background work.
// ⭐ SSOT: the job interface is defined here and nowhere else.
type Job interface {
	// Name identifies the job in logs and history.
	Name() string

	// Run executes the job. The context carries the per-attempt
	// timeout.
	Run(ctx context.Context) error

	// Schedule returns the cron expression, six fields with seconds.
	// Example: "0 10 0 * * *" (daily at 00:10:00).
	Schedule() string
}

// JobResult records one finished execution.
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// historyCap bounds how many results are kept per job.
const historyCap = 50

// JobHistory keeps the most recent results for one job.
type JobHistory struct {
	Results []JobResult
}

func (h *JobHistory) add(result JobResult) {
	h.Results = append(h.Results, result)
	if len(h.Results) > historyCap {
		h.Results = h.Results[len(h.Results)-historyCap:]
	}
}

// Last returns the most recent result, or nil when the job has not
// run yet.
func (h *JobHistory) Last() *JobResult {
	if len(h.Results) == 0 {
		return nil
	}
	return &h.Results[len(h.Results)-1]
}

// SuccessRate returns the share of successful runs in the kept window.
func (h *JobHistory) SuccessRate() float64 {
	total := len(h.Results)
	if total == 0 {
		return 0.0
	}

	failed := 0
	for _, r := range h.Results {
		if !r.Success {
			failed++
		}
	}
	return float64(total-failed) / float64(total)
}
