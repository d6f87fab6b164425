// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/openparish/steward/internal/store"
	"github.com/openparish/steward/internal/store/memory"
	"github.com/openparish/steward/internal/store/postgres"
)

// DBDeps holds database/back-end dependencies for the app.
// Pool is nil when the memory backend is selected.
type DBDeps struct {
	Pool   *pgxpool.Pool
	Stores store.Stores
}

// ConnectDB builds the storage backend selected in config.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	if appCfg.Storage == "memory" {
		logger.Info("using in-memory storage")
		return DBDeps{Stores: memory.NewDB().Stores()}, nil
	}

	pool, err := postgres.NewPool(ctx, &postgres.PoolConfig{
		ConnString: appCfg.PostgresDSN,
		MaxConns:   int32(appCfg.PostgresMaxConns),
		MinConns:   int32(appCfg.PostgresMinConns),
	})
	if err != nil {
		return DBDeps{}, err
	}

	logger.Info("connected to PostgreSQL")
	return DBDeps{Pool: pool, Stores: postgres.NewStores(pool)}, nil
}
