// Package accounts manages back-office staff accounts. Accounts are
// never hard-deleted; disable them by setting status to "disabled" so
// the audit trail keeps a resolvable actor.
package accounts

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/openparish/steward/internal/app/system/auditlog"
	"github.com/openparish/steward/internal/app/system/authz"
	"github.com/openparish/steward/internal/app/system/httpjson"
	"github.com/openparish/steward/internal/app/system/inputval"
	"github.com/openparish/steward/internal/app/system/paging"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

type Handler struct {
	Users store.UserStore
	Audit *auditlog.Logger
	Log   *zap.Logger
}

func NewHandler(users store.UserStore, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Audit: audit, Log: logger}
}

type createInput struct {
	FullName string `json:"full_name" validate:"required,max=200" label:"full name"`
	Email    string `json:"email" validate:"required,email,max=254" label:"email"`
	Password string `json:"password" validate:"required,min=8,max=72" label:"password"`
	Role     string `json:"role" validate:"required,oneof=superadmin admin treasurer clerk" label:"role"`
}

type updateInput struct {
	FullName string `json:"full_name" validate:"required,max=200" label:"full name"`
	Email    string `json:"email" validate:"required,email,max=254" label:"email"`
	Role     string `json:"role" validate:"required,oneof=superadmin admin treasurer clerk" label:"role"`
	Status   string `json:"status" validate:"required,oneof=active disabled" label:"status"`
	// Password is optional on update; when set it replaces the hash.
	Password string `json:"password" validate:"omitempty,min=8,max=72" label:"password"`
}

func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		httpjson.Error(w, http.StatusNotFound, "user not found")
	case errors.Is(err, store.ErrUserEmailInUse):
		httpjson.Error(w, http.StatusConflict, "email already in use")
	default:
		h.Log.Error("user store error", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("password hash failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	now := time.Now()
	u := &models.User{
		ID:           uuid.New(),
		FullName:     in.FullName,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Role:         in.Role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.Users.Create(r.Context(), u); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.Audit.AdminAction(r.Context(), r, store.EventUserCreated, actorID, u.ID,
			map[string]string{"email": u.Email, "role": u.Role})
	}
	httpjson.Respond(w, http.StatusCreated, u)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}
	u, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, u)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var in updateInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}

	u, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	u.FullName = in.FullName
	u.Email = strings.ToLower(strings.TrimSpace(in.Email))
	u.Role = in.Role
	u.Status = in.Status
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			h.Log.Error("password hash failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
		u.PasswordHash = string(hash)
	}
	u.UpdatedAt = time.Now()

	if err := h.Users.Update(r.Context(), u); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		details := map[string]string{"email": u.Email, "role": u.Role, "status": u.Status}
		if in.Password != "" {
			details["password_changed"] = "true"
		}
		h.Audit.AdminAction(r.Context(), r, store.EventUserUpdated, actorID, u.ID, details)
	}
	httpjson.Respond(w, http.StatusOK, u)
}

type listResponse struct {
	Items []*models.User `json:"items"`
	paging.ListMeta
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.UserFilter{
		Role:   q.Get("role"),
		Status: q.Get("status"),
		Page:   paging.Parse(r),
	}
	items, total, err := h.Users.List(r.Context(), f)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if items == nil {
		items = []*models.User{}
	}
	httpjson.Respond(w, http.StatusOK, listResponse{
		Items:    items,
		ListMeta: paging.Meta(total, f.Page),
	})
}
