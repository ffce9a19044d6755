package commands

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	envFile string
	verbose bool
)

// rootCmd is the base command for the horoscope CLI
var rootCmd = &cobra.Command{
	Use:   "horoscope",
	Short: "Horoscope API - daily and weekly horoscope service",
	Long: `Horoscope API serves daily and weekly horoscopes for the twelve
zodiac signs over HTTP.

Daily horoscopes are keyed by calendar date. Weekly horoscopes are
keyed by the Monday of their week, so every date inside a week reads
the same record.

Commands:
  api          Start the HTTP API server
  scheduler    Run background jobs (cache warmup, coverage checks)
  seed         Fill a date with sample horoscopes for all signs
  test-db      Verify database connectivity
  test-logger  Verify logger output`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load the named env file first so its values beat the default .env
		if envFile != "" {
			_ = godotenv.Load(envFile)
		}

		// Verbose flag wins over whatever the env file says
		if verbose {
			os.Setenv("LOG_LEVEL", "debug")
		}
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "path to .env file (default: .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
