package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store/memory"
)

func TestEnsureSuperAdmin_CreatesNew(t *testing.T) {
	stores := memory.NewDB().Stores()
	ctx := context.Background()

	err := ensureSuperAdmin(ctx, stores.Users, "root@example.org", "bootstrap-secret", zap.NewNop())
	if err != nil {
		t.Fatalf("ensureSuperAdmin: %v", err)
	}

	u, err := stores.Users.GetByEmail(ctx, "root@example.org")
	if err != nil {
		t.Fatalf("created account not found: %v", err)
	}
	if u.Role != models.RoleSuperAdmin || u.Status != "active" {
		t.Errorf("role/status = %q/%q", u.Role, u.Status)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("bootstrap-secret")); err != nil {
		t.Errorf("password hash mismatch: %v", err)
	}
}

func TestEnsureSuperAdmin_PromotesExisting(t *testing.T) {
	stores := memory.NewDB().Stores()
	ctx := context.Background()

	now := time.Now()
	existing := &models.User{
		ID:           uuid.New(),
		FullName:     "Demoted Admin",
		Email:        "root@example.org",
		PasswordHash: "unchanged",
		Role:         models.RoleClerk,
		Status:       "disabled",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := stores.Users.Create(ctx, existing); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := ensureSuperAdmin(ctx, stores.Users, "root@example.org", "", zap.NewNop()); err != nil {
		t.Fatalf("ensureSuperAdmin: %v", err)
	}

	u, err := stores.Users.GetByID(ctx, existing.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.Role != models.RoleSuperAdmin || u.Status != "active" {
		t.Errorf("role/status = %q/%q, want promoted and re-enabled", u.Role, u.Status)
	}
	if u.PasswordHash != "unchanged" {
		t.Error("promotion must not touch the password hash")
	}
}

func TestEnsureSuperAdmin_MissingWithoutPassword(t *testing.T) {
	stores := memory.NewDB().Stores()
	ctx := context.Background()

	if err := ensureSuperAdmin(ctx, stores.Users, "root@example.org", "", zap.NewNop()); err != nil {
		t.Fatalf("ensureSuperAdmin: %v", err)
	}
	if _, err := stores.Users.GetByEmail(ctx, "root@example.org"); err == nil {
		t.Error("account should not be created without a password")
	}
}

func TestEnsureSuperAdmin_Idempotent(t *testing.T) {
	stores := memory.NewDB().Stores()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := ensureSuperAdmin(ctx, stores.Users, "root@example.org", "bootstrap-secret", zap.NewNop()); err != nil {
			t.Fatalf("pass %d: %v", i, err)
		}
	}
	if _, err := stores.Users.GetByEmail(ctx, "root@example.org"); err != nil {
		t.Fatalf("account missing after repeat runs: %v", err)
	}
}
