package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/zodiacal/horoscope-api/internal/contracts"
	"github.com/zodiacal/horoscope-api/internal/storage/memory"
	storemongo "github.com/zodiacal/horoscope-api/internal/storage/mongo"
	storepg "github.com/zodiacal/horoscope-api/internal/storage/postgres"
	"github.com/zodiacal/horoscope-api/pkg/config"
	"github.com/zodiacal/horoscope-api/pkg/database"
	"github.com/zodiacal/horoscope-api/pkg/logger"
	"github.com/zodiacal/horoscope-api/pkg/mongodb"
)

// buildStore connects the storage backend selected by STORAGE_BACKEND
// ⭐ SSOT: backend selection happens in this function only. Every
// command that needs persistence goes through here.
//
// The returned store owns its connections; callers defer store.Close().
func buildStore(cfg *config.Config, log *logger.Logger) (contracts.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := storepg.EnsureSchema(ctx, db.Pool); err != nil {
			db.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}

		log.WithField("backend", "postgres").Info("Storage backend ready")
		return storepg.New(db.Pool), nil

	case config.BackendMongo:
		client, err := mongodb.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to mongodb: %w", err)
		}

		store := storemongo.New(client)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := store.EnsureIndexes(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}

		log.WithField("backend", "mongo").Info("Storage backend ready")
		return store, nil

	case config.BackendMemory:
		log.Warn("Using in-memory storage: data is lost on restart")
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}
