package database_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/zodiacal/horoscope-api/pkg/config"
	"github.com/zodiacal/horoscope-api/pkg/database"
)

// Example shows the pool lifecycle: open from config, probe, close.
// New pings before returning, so a non-nil DB is already reachable.
func Example() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	status, err := db.HealthCheck(ctx)
	if err != nil {
		log.Fatalf("Health check failed: %v", err)
	}

	fmt.Printf("Healthy: %v (in %v)\n", status.Healthy, status.ResponseTime)
	fmt.Printf("Connections: %d/%d acquired, %d idle\n",
		status.Stats.AcquiredConns, status.Stats.MaxConns, status.Stats.IdleConns)
}
