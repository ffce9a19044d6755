package commands

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"

	storemongo "github.com/zodiacal/horoscope-api/internal/storage/mongo"
	storepg "github.com/zodiacal/horoscope-api/internal/storage/postgres"
	"github.com/zodiacal/horoscope-api/pkg/config"
	"github.com/zodiacal/horoscope-api/pkg/database"
	"github.com/zodiacal/horoscope-api/pkg/mongodb"
)

// testDBCmd represents the test-db command
var testDBCmd = &cobra.Command{
	Use:   "test-db",
	Short: "Test storage backend connectivity",
	Long: `Tests the configured storage backend and displays its status.

This command:
- Loads STORAGE_BACKEND from config
- Connects to the selected backend
- Runs a ping test
- Ensures schema/indexes exist
- Shows connection pool statistics (postgres) or collections (mongo)

Example:
  go run ./cmd/horoscope test-db
  STORAGE_BACKEND=mongo go run ./cmd/horoscope test-db`,
	RunE: runTestDB,
}

func init() {
	rootCmd.AddCommand(testDBCmd)
}

func runTestDB(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Horoscope Storage Connection Test ===")

	// Load configuration
	fmt.Println("Loading configuration...")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("❌ Failed to load config: %w", err)
	}
	fmt.Printf("✅ Config loaded (ENV: %s)\n", cfg.Env)
	fmt.Printf("   Storage backend: %s\n\n", cfg.Storage.Backend)

	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		return testPostgres(cfg)
	case config.BackendMongo:
		return testMongo(cfg)
	case config.BackendMemory:
		fmt.Println("✅ Memory backend needs no connection. Nothing to test.")
		return nil
	default:
		return fmt.Errorf("❌ Unknown storage backend: %s", cfg.Storage.Backend)
	}
}

func testPostgres(cfg *config.Config) error {
	fmt.Printf("Database URL: %s\n\n", maskPassword(cfg.Database.URL))

	// Create database connection
	fmt.Println("Connecting to PostgreSQL...")
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("❌ Failed to connect to database: %w", err)
	}
	defer db.Close()
	fmt.Println("✅ Database connection established")

	// Check connection
	fmt.Println("Testing connection (Ping)...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("❌ Failed to ping database: %w", err)
	}
	fmt.Println("✅ Ping successful")

	// Get health status
	fmt.Println("Getting health status...")
	status, err := db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("❌ Health check failed: %w", err)
	}

	fmt.Println("✅ Health Check Results:")
	fmt.Printf("   Healthy: %v\n", status.Healthy)
	fmt.Printf("   Response Time: %v\n", status.ResponseTime)
	fmt.Printf("   Timestamp: %v\n\n", status.Timestamp.Format(time.RFC3339))

	// Ensure tables exist
	fmt.Println("Ensuring schema...")
	if err := storepg.EnsureSchema(ctx, db.Pool); err != nil {
		return fmt.Errorf("❌ Failed to ensure schema: %w", err)
	}
	fmt.Println("✅ Schema ready (daily_horoscopes, weekly_horoscopes)")

	// Pool statistics
	fmt.Println("\n📊 Connection Pool Statistics:")
	fmt.Printf("   Max Connections: %d\n", status.Stats.MaxConns)
	fmt.Printf("   Total Connections: %d\n", status.Stats.TotalConns)
	fmt.Printf("   Acquired Connections: %d\n", status.Stats.AcquiredConns)
	fmt.Printf("   Idle Connections: %d\n", status.Stats.IdleConns)

	fmt.Println("\n✅ All tests passed!")
	return nil
}

func testMongo(cfg *config.Config) error {
	fmt.Printf("Mongo URI: %s\n", maskPassword(cfg.Mongo.URI))
	fmt.Printf("Database:  %s\n\n", cfg.Mongo.Database)

	// Create client
	fmt.Println("Connecting to MongoDB...")
	client, err := mongodb.New(cfg)
	if err != nil {
		return fmt.Errorf("❌ Failed to connect to mongodb: %w", err)
	}
	defer client.Close()
	fmt.Println("✅ MongoDB connection established")

	// Check connection
	fmt.Println("Testing connection (Ping)...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("❌ Failed to ping mongodb: %w", err)
	}
	fmt.Println("✅ Ping successful")

	// Ensure the unique indexes exist
	fmt.Println("Ensuring indexes...")
	store := storemongo.New(client)
	if err := store.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("❌ Failed to ensure indexes: %w", err)
	}
	fmt.Println("✅ Indexes ready (unique on sign_id + date)")

	// Collection inventory
	names, err := client.Database().ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("❌ Failed to list collections: %w", err)
	}
	fmt.Println("\n📊 Collections:")
	for _, name := range names {
		fmt.Printf("   - %s\n", name)
	}

	fmt.Println("\n✅ All tests passed!")
	return nil
}

// maskPassword hides the credential part of a connection URL for display
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "(unparseable URL)"
	}
	return u.Redacted()
}
