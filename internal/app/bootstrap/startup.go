// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.SuperAdminEmail != "" {
		if err := ensureSuperAdmin(ctx, deps.Stores.Users, appCfg.SuperAdminEmail, appCfg.SuperAdminPassword, logger); err != nil {
			return fmt.Errorf("superadmin bootstrap: %w", err)
		}
	}
	return nil
}

// ensureSuperAdmin guarantees a superadmin account exists for the given
// email. An existing account is promoted and re-enabled; a missing one
// is created when a password is configured.
func ensureSuperAdmin(ctx context.Context, users store.UserStore, email, password string, logger *zap.Logger) error {
	u, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if u.Role == models.RoleSuperAdmin && u.Status == "active" {
			return nil
		}
		u.Role = models.RoleSuperAdmin
		u.Status = "active"
		u.UpdatedAt = time.Now()
		if err := users.Update(ctx, u); err != nil {
			return err
		}
		logger.Info("promoted existing account to superadmin", zap.String("email", email))
		return nil

	case errors.Is(err, store.ErrUserNotFound):
		if password == "" {
			logger.Warn("superadmin account missing and no password configured; skipping creation",
				zap.String("email", email))
			return nil
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		now := time.Now()
		u := &models.User{
			ID:           uuid.New(),
			FullName:     "Super Admin",
			Email:        email,
			PasswordHash: string(hash),
			Role:         models.RoleSuperAdmin,
			Status:       "active",
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := users.Create(ctx, u); err != nil {
			return err
		}
		logger.Info("created superadmin account", zap.String("email", email))
		return nil

	default:
		return err
	}
}
