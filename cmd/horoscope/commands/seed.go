package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zodiacal/horoscope-api/internal/contracts"
	"github.com/zodiacal/horoscope-api/internal/horoscope"
	"github.com/zodiacal/horoscope-api/internal/zodiac"
	"github.com/zodiacal/horoscope-api/pkg/config"
	"github.com/zodiacal/horoscope-api/pkg/logger"
	"github.com/zodiacal/horoscope-api/pkg/redis"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill a date with sample horoscopes for all signs",
	Long: `Writes a sample daily and weekly horoscope for each of the
twelve signs on the given date.

Useful for local development and demos: after seeding, every read
endpoint has data to return.

Example:
  go run ./cmd/horoscope seed
  go run ./cmd/horoscope seed --date 2024-06-12`,
	RunE: runSeed,
}

var (
	seedDate string
)

func init() {
	rootCmd.AddCommand(seedCmd)

	// Flags
	seedCmd.Flags().StringVar(&seedDate, "date", "", "date to seed, YYYY-MM-DD (default: today UTC)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Horoscope Seed ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect storage backend
	store, err := buildStore(cfg, log)
	if err != nil {
		return fmt.Errorf("connect storage: %w", err)
	}
	defer store.Close()

	// 4. Connect Redis so seeded writes invalidate stale cache entries
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	// 5. Create service
	cache := redis.NewCache(redisClient, "horoscope")
	svc := horoscope.NewService(store, cache, log)

	// 6. Resolve target date
	date := seedDate
	if date == "" {
		date = time.Now().UTC().Format(contracts.DateLayout)
	}

	fmt.Printf("\nSeeding %s for %d signs...\n\n", date, zodiac.Count)

	// 7. Submit one daily and one weekly text per sign
	ctx := context.Background()
	failures := 0

	for _, sign := range zodiac.All() {
		input := horoscope.SubmitInput{
			SignID:     sign.ID,
			SignName:   sign.Name,
			Symbol:     sign.Symbol,
			DailyText:  fmt.Sprintf("Today brings steady energy for %s. Focus on one thing and finish it.", sign.Name),
			WeeklyText: fmt.Sprintf("This week rewards patience for %s. Small consistent steps add up.", sign.Name),
			Date:       date,
		}

		result, err := svc.Submit(ctx, input)
		if err != nil {
			failures++
			fmt.Printf("❌ %-12s %s\n", sign.Name, err)
			continue
		}

		fmt.Printf("✅ %-12s %s  daily: %s, weekly: %s\n",
			sign.Name, sign.Symbol, result.Daily.Outcome, result.Weekly.Outcome)
	}

	if failures > 0 {
		return fmt.Errorf("seed finished with %d failure(s)", failures)
	}

	fmt.Printf("\n✅ Seeded %d signs for %s\n", zodiac.Count, date)
	return nil
}
