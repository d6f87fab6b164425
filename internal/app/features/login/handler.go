// Package login authenticates staff against the users table and opens
// a cookie session. Failure responses are deliberately uniform so the
// endpoint does not reveal which accounts exist; the audit trail keeps
// the distinction.
package login

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/openparish/steward/internal/app/system/auditlog"
	"github.com/openparish/steward/internal/app/system/auth"
	"github.com/openparish/steward/internal/app/system/httpjson"
	"github.com/openparish/steward/internal/app/system/inputval"
	"github.com/openparish/steward/internal/app/system/ratelimit"
	"github.com/openparish/steward/internal/store"
)

type Handler struct {
	Users    store.UserStore
	Sessions *auth.SessionManager
	Limiter  *ratelimit.LoginLimiter
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(
	users store.UserStore,
	sessions *auth.SessionManager,
	limiter *ratelimit.LoginLimiter,
	audit *auditlog.Logger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Users:    users,
		Sessions: sessions,
		Limiter:  limiter,
		Audit:    audit,
		Log:      logger,
	}
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email" label:"email"`
	Password string `json:"password" validate:"required" label:"password"`
}

type loginResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// HandleLogin verifies credentials and opens a session. The 401 body is
// identical for unknown accounts, wrong passwords, and disabled
// accounts.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	if allowed, reason := h.Limiter.Check(r, email); !allowed {
		h.Audit.LoginFailedRateLimit(r.Context(), r, email)
		httpjson.Error(w, http.StatusTooManyRequests, reason)
		return
	}

	u, err := h.Users.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			h.Audit.LoginFailedUserNotFound(r.Context(), r, email)
			httpjson.Error(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.Log.Error("login lookup error", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		h.Audit.LoginFailedWrongPassword(r.Context(), r, u.ID, email)
		httpjson.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if u.Status != "active" {
		h.Audit.LoginFailedUserDisabled(r.Context(), r, u.ID, email)
		httpjson.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if err := h.Sessions.SignIn(w, r, u); err != nil {
		h.Log.Error("session sign-in failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.Limiter.ResetEmail(email)
	h.Audit.LoginSuccess(r.Context(), r, u.ID, email)

	httpjson.Respond(w, http.StatusOK, loginResponse{
		ID:       u.ID.String(),
		FullName: u.FullName,
		Email:    u.Email,
		Role:     u.Role,
	})
}
