// Package groups serves ministry group CRUD and group membership:
// joining, leaving, and the leader role on membership rows.
package groups

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openparish/steward/internal/app/system/auditlog"
	"github.com/openparish/steward/internal/app/system/authz"
	"github.com/openparish/steward/internal/app/system/htmlsanitize"
	"github.com/openparish/steward/internal/app/system/httpjson"
	"github.com/openparish/steward/internal/app/system/inputval"
	"github.com/openparish/steward/internal/app/system/paging"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

// Handler holds dependencies for the group endpoints.
type Handler struct {
	Groups store.GroupStore
	Audit  *auditlog.Logger
	Log    *zap.Logger
}

// NewHandler constructs a groups Handler.
func NewHandler(groups store.GroupStore, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Groups: groups,
		Audit:  audit,
		Log:    logger,
	}
}

type groupInput struct {
	Name        string `json:"name" validate:"required,max=200" label:"Group name"`
	Description string `json:"description" validate:"max=1000" label:"Description"`
}

func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrGroupNotFound):
		httpjson.Error(w, http.StatusNotFound, "group not found")
	case errors.Is(err, store.ErrGroupNameInUse):
		httpjson.Error(w, http.StatusConflict, "group name already in use")
	case errors.Is(err, store.ErrAlreadyInGroup):
		httpjson.Error(w, http.StatusConflict, "member already belongs to this group")
	case errors.Is(err, store.ErrNotInGroup):
		httpjson.Error(w, http.StatusNotFound, "member does not belong to this group")
	case errors.Is(err, store.ErrLeaderMembership):
		httpjson.Error(w, http.StatusConflict, "member leads this group; demote them first")
	case errors.Is(err, store.ErrMemberNotFound):
		httpjson.Error(w, http.StatusBadRequest, "member not found")
	default:
		h.Log.Error("group store error", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}

// HandleCreate stores a new group.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in groupInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}

	now := time.Now()
	g := &models.Group{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(in.Name),
		Description: htmlsanitize.Sanitize(strings.TrimSpace(in.Description)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	g.NameCI = strings.ToLower(g.Name)

	if err := h.Groups.Create(r.Context(), g); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.Audit.AdminAction(r.Context(), r, store.EventGroupCreated, actorID, g.ID, map[string]string{"name": g.Name})
	}

	httpjson.Respond(w, http.StatusCreated, g)
}

// HandleGet returns one group.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}

	g, err := h.Groups.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, g)
}

// HandleUpdate rewrites a group.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}

	var in groupInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}

	g, err := h.Groups.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	g.Name = strings.TrimSpace(in.Name)
	g.NameCI = strings.ToLower(g.Name)
	g.Description = htmlsanitize.Sanitize(strings.TrimSpace(in.Description))
	g.UpdatedAt = time.Now()

	if err := h.Groups.Update(r.Context(), g); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.Audit.AdminAction(r.Context(), r, store.EventGroupUpdated, actorID, g.ID, nil)
	}

	httpjson.Respond(w, http.StatusOK, g)
}

// HandleDelete removes a group and its membership rows.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}

	if err := h.Groups.Delete(r.Context(), id); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.Audit.AdminAction(r.Context(), r, store.EventGroupDeleted, actorID, id, nil)
	}

	w.WriteHeader(http.StatusNoContent)
}

type groupListResponse struct {
	Items []*models.Group `json:"items"`
	paging.ListMeta
}

// HandleList returns one page of groups. Supports q (name search).
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	f := store.GroupFilter{
		Search: r.URL.Query().Get("q"),
		Page:   paging.Parse(r),
	}

	items, total, err := h.Groups.List(r.Context(), f)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	httpjson.Respond(w, http.StatusOK, groupListResponse{
		Items:    items,
		ListMeta: paging.Meta(total, f.Page),
	})
}
