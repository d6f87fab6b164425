package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

// UserStore implements store.UserStore in memory.
type UserStore struct {
	db *DB
}

func cloneUser(u *models.User) *models.User {
	c := *u
	return &c
}

func (db *DB) userEmailTaken(email string, exclude uuid.UUID) bool {
	for _, u := range db.users {
		if u.ID != exclude && u.Email == email {
			return true
		}
	}
	return false
}

// Create inserts the staff account.
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if s.db.userEmailTaken(u.Email, u.ID) {
		return store.ErrUserEmailInUse
	}
	s.db.users[u.ID] = cloneUser(u)
	return nil
}

// GetByID retrieves a staff account by ID.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	u, ok := s.db.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return cloneUser(u), nil
}

// GetByEmail retrieves a staff account by email, case-insensitively.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.db.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, store.ErrUserNotFound
}

// Update rewrites the staff account.
func (s *UserStore) Update(ctx context.Context, u *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users[u.ID]; !ok {
		return store.ErrUserNotFound
	}
	if s.db.userEmailTaken(u.Email, u.ID) {
		return store.ErrUserEmailInUse
	}
	u.UpdatedAt = time.Now()
	s.db.users[u.ID] = cloneUser(u)
	return nil
}

// List returns one page of staff accounts plus the total matching count.
func (s *UserStore) List(ctx context.Context, f store.UserFilter) ([]*models.User, int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var matched []*models.User
	for _, u := range s.db.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Status != "" && u.Status != f.Status {
			continue
		}
		matched = append(matched, u)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].FullName < matched[j].FullName
	})

	total := len(matched)
	out := make([]*models.User, 0, len(matched))
	for _, u := range paginate(matched, f.Page) {
		out = append(out, cloneUser(u))
	}
	return out, total, nil
}
