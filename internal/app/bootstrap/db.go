// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/openparish/steward/internal/store/postgres"
)

// EnsureSchema runs the embedded SQL migrations. The memory backend has
// no schema to set up.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Pool == nil {
		return nil
	}
	return postgres.RunMigrations(ctx, deps.Pool, logger)
}
