// Package driver opens the storage backend named in the configuration.
//
// It is the only place that knows about every backend. Connecting, pinging
// and creating the unique phone index all happen here, under the configured
// connect timeout, so a bad connection target fails the process at startup
// instead of on the first request.
package driver

import (
	"context"
	"fmt"

	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/storage/memory"
	"github.com/aanand-mishra/student-records/internal/storage/mongodb"
	"github.com/aanand-mishra/student-records/internal/storage/sqlite"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Open connects to the configured backend and returns it ready for use.
func Open(ctx context.Context, cfg config.Storage, log zerolog.Logger) (storage.Storage, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	switch cfg.Driver {
	case config.DriverMongo:
		store, err := openMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		log.Info().
			Str("driver", cfg.Driver).
			Str("database", cfg.Mongo.Database).
			Str("collection", cfg.Mongo.Collection).
			Msg("storage initialised")
		return store, nil

	case config.DriverSQLite:
		store, err := sqlite.New(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", cfg.Driver).Str("path", cfg.SQLite.Path).Msg("storage initialised")
		return store, nil

	case config.DriverMemory:
		log.Warn().Str("driver", cfg.Driver).Msg("storage initialised; records are lost on restart")
		return memory.New(), nil
	}

	return nil, fmt.Errorf("driver.Open: unknown storage driver %q", cfg.Driver)
}

func openMongo(ctx context.Context, cfg config.Mongo) (*mongodb.Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("driver.Open: connect mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("driver.Open: ping mongo: %w", err)
	}

	store := mongodb.New(client.Database(cfg.Database).Collection(cfg.Collection))
	if err := store.EnsureIndexes(ctx); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("driver.Open: %w", err)
	}

	return store, nil
}
