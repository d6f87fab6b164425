// Package membershiptypes serves the membership type catalogue and the
// dated assignment windows that track which type a member holds.
package membershiptypes

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
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

// Handler holds dependencies for the membership type endpoints.
type Handler struct {
	Types store.MembershipTypeStore
	Audit *auditlog.Logger
	Log   *zap.Logger
}

// NewHandler constructs a membershiptypes Handler.
func NewHandler(types store.MembershipTypeStore, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Types: types,
		Audit: audit,
		Log:   logger,
	}
}

type typeInput struct {
	Name        string `json:"name" validate:"required,max=200" label:"Type name"`
	Description string `json:"description" validate:"max=1000" label:"Description"`
}

func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrTypeNotFound):
		httpjson.Error(w, http.StatusNotFound, "membership type not found")
	case errors.Is(err, store.ErrTypeNameInUse):
		httpjson.Error(w, http.StatusConflict, "membership type name already in use")
	case errors.Is(err, store.ErrTypeReferenced):
		httpjson.Error(w, http.StatusConflict, "membership type has assignments and cannot be deleted")
	case errors.Is(err, store.ErrAssignmentNotFound):
		httpjson.Error(w, http.StatusNotFound, "assignment not found")
	case errors.Is(err, store.ErrAssignmentOverlap):
		httpjson.Error(w, http.StatusConflict, "assignment window overlaps an existing assignment of this type")
	case errors.Is(err, store.ErrAssignmentEndsBeforeStart):
		httpjson.Error(w, http.StatusBadRequest, "end date must not precede the assignment's start date")
	case errors.Is(err, store.ErrMemberNotFound):
		httpjson.Error(w, http.StatusBadRequest, "member not found")
	default:
		h.Log.Error("membership type store error", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}

// HandleCreate stores a new membership type.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in typeInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}

	now := time.Now()
	mt := &models.MembershipType{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(in.Name),
		Description: htmlsanitize.Sanitize(strings.TrimSpace(in.Description)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	mt.NameCI = strings.ToLower(mt.Name)

	if err := h.Types.Create(r.Context(), mt); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.Audit.AdminAction(r.Context(), r, store.EventTypeCreated, actorID, mt.ID, map[string]string{"name": mt.Name})
	}

	httpjson.Respond(w, http.StatusCreated, mt)
}

// HandleUpdate rewrites a membership type.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid type id")
		return
	}

	var in typeInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}

	mt, err := h.Types.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	mt.Name = strings.TrimSpace(in.Name)
	mt.NameCI = strings.ToLower(mt.Name)
	mt.Description = htmlsanitize.Sanitize(strings.TrimSpace(in.Description))
	mt.UpdatedAt = time.Now()

	if err := h.Types.Update(r.Context(), mt); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.Audit.AdminAction(r.Context(), r, store.EventTypeUpdated, actorID, mt.ID, nil)
	}

	httpjson.Respond(w, http.StatusOK, mt)
}

// HandleDelete removes a membership type with no assignments.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid type id")
		return
	}

	if err := h.Types.Delete(r.Context(), id); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.Audit.AdminAction(r.Context(), r, store.EventTypeDeleted, actorID, id, nil)
	}

	w.WriteHeader(http.StatusNoContent)
}

type typeListResponse struct {
	Items []*models.MembershipType `json:"items"`
}

// HandleList returns the full type catalogue.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.Types.List(r.Context())
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, typeListResponse{Items: items})
}
