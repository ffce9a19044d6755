package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zodiacal/horoscope-api/internal/api"
	"github.com/zodiacal/horoscope-api/internal/api/handlers"
	"github.com/zodiacal/horoscope-api/internal/coverage"
	"github.com/zodiacal/horoscope-api/internal/horoscope"
	"github.com/zodiacal/horoscope-api/pkg/config"
	"github.com/zodiacal/horoscope-api/pkg/logger"
	"github.com/zodiacal/horoscope-api/pkg/redis"
)

const shutdownTimeout = 30 * time.Second

// apiEndpoints is printed at startup so the terminal shows what the
// server answers to.
var apiEndpoints = []string{
	"GET  /health",
	"POST /api/horoscopes",
	"GET  /api/horoscopes",
	"GET  /api/horoscopes/{signID}",
	"GET  /api/coverage",
}

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP API server",
	Long: `Starts the horoscope REST API server.

Endpoints:
  GET  /health                    - Health check
  POST /api/horoscopes            - Submit daily/weekly horoscope texts
  GET  /api/horoscopes            - List all signs for a date
  GET  /api/horoscopes/{signID}   - Fetch one sign
  GET  /api/coverage              - Coverage report for a date

Example:
  go run ./cmd/horoscope api
  go run ./cmd/horoscope api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Horoscope API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port":    cfg.Port,
		"env":     cfg.Env,
		"backend": cfg.Storage.Backend,
	}).Info("Initializing API server")

	// 3. Connect storage backend
	store, err := buildStore(cfg, log)
	if err != nil {
		return fmt.Errorf("connect storage: %w", err)
	}
	defer store.Close()

	// 4. Connect Redis (no-op when disabled)
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	if redisClient.Enabled() {
		log.Info("Connected to Redis")
	}

	// 5. Create service
	cache := redis.NewCache(redisClient, "horoscope")
	svc := horoscope.NewService(store, cache, log)

	// 6. Create coverage checker
	checker := coverage.NewChecker(store)

	// 7. Create handlers
	horoscopeHandler := handlers.NewHoroscopeHandler(svc, log)
	healthHandler := handlers.NewHealthHandler(store, redisClient, cfg.Env, log)
	coverageHandler := handlers.NewCoverageHandler(checker, log)

	// 8. Create router
	router := api.NewRouter(cfg, redisClient, horoscopeHandler, healthHandler, coverageHandler, log)

	// 9. Create server
	server := api.New(cfg, log, router)

	// 10. Start server, then wait for interrupt or startup failure
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	for _, ep := range apiEndpoints {
		fmt.Println("  " + ep)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("api server stopped unexpectedly: %w", err)
	case <-quit:
	}

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
