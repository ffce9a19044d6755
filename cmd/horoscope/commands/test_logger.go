package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zodiacal/horoscope-api/pkg/config"
	"github.com/zodiacal/horoscope-api/pkg/logger"
)

// testLoggerCmd exercises the logging setup without touching any backend.
var testLoggerCmd = &cobra.Command{
	Use:   "test-logger",
	Short: "Test logger output",
	Long: `Prints sample log lines in every format and level so the logging
setup can be checked by eye.

Example:
  go run ./cmd/horoscope test-logger`,
	RunE: runTestLogger,
}

func init() {
	rootCmd.AddCommand(testLoggerCmd)
}

// loggerDemo is one named scenario rendered by test-logger.
type loggerDemo struct {
	title  string
	env    string
	level  string
	format string
	emit   func(*logger.Logger)
}

var loggerDemos = []loggerDemo{
	{
		title:  "JSON format (production)",
		env:    "production",
		level:  "info",
		format: "json",
		emit: func(log *logger.Logger) {
			log.Info("Service started")
			log.Warn("Cache disabled, reads go straight to the store")
			log.Error("Failed to reach storage backend")
		},
	},
	{
		title:  "Console format (development)",
		env:    "development",
		level:  "debug",
		format: "console",
		emit: func(log *logger.Logger) {
			log.Debug("Resolved week start for weekly record")
			log.Info("Request received from client")
			log.Warn("Cache miss, fetching from store")
		},
	},
	{
		title:  "Structured fields",
		env:    "production",
		level:  "info",
		format: "json",
		emit: func(log *logger.Logger) {
			log.WithField("sign_id", 5).Info("Horoscope fetched")

			log.WithFields(map[string]interface{}{
				"sign_id": 5,
				"kind":    "weekly",
				"date":    "2024-06-10",
				"outcome": "created",
			}).Info("Horoscope upserted")

			log.WithField("module", "scheduler").
				WithField("job", "cache_warmup").
				Info("Job started")
		},
	},
	{
		title:  "Error context",
		env:    "production",
		level:  "error",
		format: "json",
		emit: func(log *logger.Logger) {
			err := errors.New("connection timeout")
			log.WithError(err).Error("Failed to reach storage backend")

			log.WithError(err).
				WithFields(map[string]interface{}{
					"backend": "postgres",
					"op":      "upsert daily",
					"sign_id": 7,
				}).
				Error("Write failed after retries")
		},
	},
}

func runTestLogger(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Horoscope Logger Test ===")

	for i, demo := range loggerDemos {
		fmt.Printf("%d. %s\n", i+1, demo.title)
		fmt.Println("--------------------------------")

		demo.emit(logger.New(&config.Config{
			Env:       demo.env,
			LogLevel:  demo.level,
			LogFormat: demo.format,
		}))
		fmt.Println()
	}

	fmt.Println("✅ All logger tests completed!")
	return nil
}
