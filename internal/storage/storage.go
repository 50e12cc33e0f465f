// Package storage opens the webinar repository selected by configuration and
// puts the Redis read-through cache in front of it.
package storage

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	redisclient "github.com/redis/go-redis/v9"
	"github.com/robertarktes/webinar-seats/internal/adapters/crdb"
	"github.com/robertarktes/webinar-seats/internal/adapters/memory"
	mongoadapter "github.com/robertarktes/webinar-seats/internal/adapters/mongo"
	redisadapter "github.com/robertarktes/webinar-seats/internal/adapters/redis"
	"github.com/robertarktes/webinar-seats/internal/config"
	"github.com/robertarktes/webinar-seats/internal/domain"
	"github.com/robertarktes/webinar-seats/internal/observability"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OpenWebinars returns the configured repository and a function releasing
// its connections.
func OpenWebinars(ctx context.Context, cfg *config.Config, logger observability.Logger) (domain.WebinarRepository, func(), error) {
	switch cfg.Storage {
	case config.StorageCRDB:
		pool, err := pgxpool.New(ctx, cfg.CRDBDSN)
		if err != nil {
			return nil, nil, errors.Wrap(err, "connect to crdb")
		}
		repo := crdb.NewRepository(pool)
		if err := repo.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo, pool.Close, nil
	case config.StorageMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, errors.Wrap(err, "connect to mongo")
		}
		closeFn := func() { client.Disconnect(context.Background()) }
		return mongoadapter.NewWebinarRepository(client.Database(cfg.MongoDatabase), logger), closeFn, nil
	case config.StorageMemory:
		return memory.NewWebinarRepository(), func() {}, nil
	default:
		return nil, nil, errors.Newf("unknown storage %q", cfg.Storage)
	}
}

// WithCache wraps repo with the Redis webinar cache. Seat changes must go
// through the Uncached view of the result.
func WithCache(repo domain.WebinarRepository, client *redisclient.Client, cfg *config.Config, logger observability.Logger) *redisadapter.CachedWebinarRepository {
	return redisadapter.NewCachedWebinarRepository(repo, redisadapter.NewCache(client), cfg.CacheTTL, logger)
}
