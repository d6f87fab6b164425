// Package authz resolves what a signed-in staff user may do. Role
// identity comes from the session; fine-grained rights come from the
// role_permissions grants.
package authz

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openparish/steward/internal/app/system/auth"
	"github.com/openparish/steward/internal/app/system/httpjson"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

// UserCtx returns the user's role (lowercased), name, ID, and a found
// flag. ok=true means a valid, authenticated user.
func UserCtx(r *http.Request) (role string, name string, userID uuid.UUID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", uuid.Nil, false
	}
	return strings.ToLower(user.Role), user.Name, user.ID, true
}

// IsSuperAdmin reports whether the current request's user is a superadmin.
func IsSuperAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleSuperAdmin
}

// IsAdmin reports whether the current request's user is an admin.
// Superadmins are also considered admins.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && (role == models.RoleAdmin || role == models.RoleSuperAdmin)
}

// HasAnyRole reports whether the current request's user has any of the
// given roles. Returns false if no user is present.
func HasAnyRole(r *http.Request, roles ...string) bool {
	cur, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if cur == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

// RequireUser gates a route on having any signed-in user. Feature
// routers use this for read endpoints that need identity but no
// specific grant.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.CurrentUser(r); !ok {
			httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Checker answers permission questions against the grant store.
type Checker struct {
	perms  store.PermissionStore
	logger *zap.Logger
}

// NewChecker builds a permission checker over the grant store.
func NewChecker(perms store.PermissionStore, logger *zap.Logger) *Checker {
	return &Checker{perms: perms, logger: logger}
}

// Can reports whether the request's user holds the permission code.
// Superadmins bypass grants entirely; store errors fail closed.
func (c *Checker) Can(r *http.Request, code string) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	if role == models.RoleSuperAdmin {
		return true
	}

	has, err := c.perms.RoleHas(r.Context(), role, code)
	if err != nil {
		c.logger.Error("permission check failed",
			zap.String("role", role),
			zap.String("permission", code),
			zap.Error(err))
		return false
	}
	return has
}

// RequirePermission gates a route on one permission code. 401 without a
// user, 403 without the grant.
func (c *Checker) RequirePermission(code string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := auth.CurrentUser(r); !ok {
				httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if !c.Can(r, code) {
				httpjson.Error(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
