// Package permissions serves the permission catalogue and the
// role-to-permission grants that drive authorization.
package permissions

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/openparish/steward/internal/app/system/auditlog"
	"github.com/openparish/steward/internal/app/system/authz"
	"github.com/openparish/steward/internal/app/system/httpjson"
	"github.com/openparish/steward/internal/app/system/inputval"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

// Handler holds dependencies for the permission endpoints.
type Handler struct {
	Permissions store.PermissionStore
	Audit       *auditlog.Logger
	Log         *zap.Logger
}

// NewHandler constructs a permissions Handler.
func NewHandler(permissions store.PermissionStore, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Permissions: permissions,
		Audit:       audit,
		Log:         logger,
	}
}

type grantInput struct {
	Role string `json:"role" validate:"required,oneof=admin treasurer clerk" label:"Role"`
	Code string `json:"code" validate:"required,max=100" label:"Permission code"`
}

func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrPermissionNotFound):
		httpjson.Error(w, http.StatusNotFound, "permission not found")
	case errors.Is(err, store.ErrAlreadyGranted):
		httpjson.Error(w, http.StatusConflict, "permission already granted to role")
	case errors.Is(err, store.ErrGrantNotFound):
		httpjson.Error(w, http.StatusNotFound, "grant not found")
	default:
		h.Log.Error("permission store error", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}

type permissionListResponse struct {
	Items []*models.Permission `json:"items"`
}

// HandleList returns the whole permission catalogue.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.Permissions.List(r.Context())
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, permissionListResponse{Items: items})
}

// HandleRoleGrants returns the permissions a role holds.
func (h *Handler) HandleRoleGrants(w http.ResponseWriter, r *http.Request) {
	role := chi.URLParam(r, "role")

	items, err := h.Permissions.RoleGrants(r.Context(), role)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, permissionListResponse{Items: items})
}

// HandleGrant gives a role a permission by code.
func (h *Handler) HandleGrant(w http.ResponseWriter, r *http.Request) {
	perm, role, ok := h.decodeGrant(w, r)
	if !ok {
		return
	}

	if err := h.Permissions.Grant(r.Context(), role, perm.ID); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, auth := authz.UserCtx(r); auth {
		h.Audit.AdminAction(r.Context(), r, store.EventPermissionGranted, actorID, perm.ID, map[string]string{
			"role": role,
			"code": perm.Code,
		})
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleRevoke removes a grant by role and code.
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	perm, role, ok := h.decodeGrant(w, r)
	if !ok {
		return
	}

	if err := h.Permissions.Revoke(r.Context(), role, perm.ID); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, auth := authz.UserCtx(r); auth {
		h.Audit.AdminAction(r.Context(), r, store.EventPermissionRevoked, actorID, perm.ID, map[string]string{
			"role": role,
			"code": perm.Code,
		})
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeGrant parses and validates a grant/revoke body and resolves the
// permission code against the catalogue.
func (h *Handler) decodeGrant(w http.ResponseWriter, r *http.Request) (*models.Permission, string, bool) {
	var in grantInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return nil, "", false
	}
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return nil, "", false
	}

	perm, err := h.Permissions.GetByCode(r.Context(), in.Code)
	if err != nil {
		h.writeStoreError(w, err)
		return nil, "", false
	}
	return perm, in.Role, true
}
