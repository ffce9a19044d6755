package commands

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zodiacal/horoscope-api/internal/coverage"
	"github.com/zodiacal/horoscope-api/internal/horoscope"
	"github.com/zodiacal/horoscope-api/internal/scheduler"
	"github.com/zodiacal/horoscope-api/internal/scheduler/jobs"
	"github.com/zodiacal/horoscope-api/pkg/config"
	"github.com/zodiacal/horoscope-api/pkg/logger"
	"github.com/zodiacal/horoscope-api/pkg/redis"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage background jobs",
	Long: `Starts the scheduler daemon or manages its jobs.

Registered jobs:
- cache_warmup: daily at 00:10 (pre-load today's horoscopes into cache)
- coverage_check: every 6 hours (report signs missing horoscopes)

Subcommands:
  start   - Start the scheduler daemon
  list    - List registered jobs
  run     - Run one job immediately
  status  - Show job execution statistics

Example:
  go run ./cmd/horoscope scheduler start
  go run ./cmd/horoscope scheduler run coverage_check`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		Long: `Starts the scheduler and fires every registered job on its
cron schedule until interrupted.

The scheduler can be stopped with Ctrl+C.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run one job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show job execution statistics",
		RunE:  showStatus,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd, schedulerListCmd, schedulerRunCmd, schedulerStatusCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Horoscope Scheduler ===")

	sched, cleanup, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	printRegisteredJobs(sched)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	sched, cleanup, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	printRegisteredJobs(sched)
	return nil
}

func printRegisteredJobs(sched *scheduler.Scheduler) {
	fmt.Println("\nRegistered jobs:")
	for _, name := range sched.Jobs() {
		fmt.Printf("  - %s\n", name)
	}
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	fmt.Printf("Running job: %s\n", jobName)

	sched, cleanup, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	if err := sched.RunJob(jobName); err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	// RunJob blocks until the job finishes; the outcome is in its history
	stats := sched.Stats()[jobName]
	if stats.LastError != "" {
		fmt.Printf("❌ Job failed: %s\n", stats.LastError)
		return fmt.Errorf("job %s failed", jobName)
	}

	fmt.Println("✅ Job completed")
	return nil
}

func showStatus(cmd *cobra.Command, args []string) error {
	sched, cleanup, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	stats := sched.Stats()

	// Stable order regardless of map iteration
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Job Statistics:")
	fmt.Println()

	for _, name := range names {
		stat := stats[name]
		fmt.Printf("📊 %s\n", name)
		fmt.Printf("   Schedule: %s\n", stat.Schedule)
		fmt.Printf("   Total Runs: %d\n", stat.TotalRuns)
		fmt.Printf("   Success Rate: %.1f%%\n", stat.SuccessRate*100)

		if stat.LastRun != nil {
			fmt.Printf("   Last Run: %s\n", stat.LastRun.Format("2006-01-02 15:04:05"))
		}
		if stat.LastError != "" {
			fmt.Printf("   Last Error: %s\n", stat.LastError)
		}

		fmt.Println()
	}

	return nil
}

func initScheduler() (*scheduler.Scheduler, func(), error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect storage backend
	store, err := buildStore(cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("connect storage: %w", err)
	}

	// 4. Connect Redis (no-op when disabled)
	redisClient, err := redis.New(cfg)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}

	cleanup := func() {
		redisClient.Close()
		store.Close()
	}

	// 5. Create service and coverage checker
	cache := redis.NewCache(redisClient, "horoscope")
	svc := horoscope.NewService(store, cache, log)
	checker := coverage.NewChecker(store)

	// 6. Create scheduler
	sched := scheduler.New(log)

	// 7. Register jobs
	if err := sched.AddJob(jobs.NewCacheWarmupJob(svc, log)); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("register cache warmup: %w", err)
	}
	if err := sched.AddJob(jobs.NewCoverageCheckJob(checker, log)); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("register coverage check: %w", err)
	}

	return sched, cleanup, nil
}
