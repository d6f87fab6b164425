package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/openparish/steward/internal/domain/models"
)

// Sentinel errors for staff account operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUserEmailInUse = errors.New("user email already in use")
)

// UserFilter narrows List results.
type UserFilter struct {
	Role   string
	Status string
	Page
}

// UserStore persists back-office staff accounts.
type UserStore interface {
	// Create stores a new staff account.
	// Returns ErrUserEmailInUse if the email is taken.
	Create(ctx context.Context, u *models.User) error

	// GetByID returns the account, or ErrUserNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByEmail returns the account by lowercased email, or ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Update rewrites the account. Returns ErrUserNotFound or
	// ErrUserEmailInUse.
	Update(ctx context.Context, u *models.User) error

	// List returns one page of accounts plus the total matching count.
	List(ctx context.Context, f UserFilter) ([]*models.User, int, error)
}
