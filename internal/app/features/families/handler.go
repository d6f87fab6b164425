// Package families serves household records and the head-of-family
// assignment rules.
package families

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
	"github.com/openparish/steward/internal/app/system/httpjson"
	"github.com/openparish/steward/internal/app/system/inputval"
	"github.com/openparish/steward/internal/app/system/paging"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

// Handler holds dependencies for the family endpoints.
type Handler struct {
	Families store.FamilyStore
	Members  store.MemberStore
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs a families Handler.
func NewHandler(families store.FamilyStore, members store.MemberStore, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Families: families,
		Members:  members,
		Audit:    audit,
		Log:      logger,
	}
}

type familyInput struct {
	Name    string `json:"name" validate:"required,max=200" label:"Family name"`
	Address string `json:"address" validate:"max=500" label:"Address"`
}

func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrFamilyNotFound):
		httpjson.Error(w, http.StatusNotFound, "family not found")
	case errors.Is(err, store.ErrFamilyReferenced):
		httpjson.Error(w, http.StatusConflict, "family still has members")
	case errors.Is(err, store.ErrHeadNotInFamily):
		httpjson.Error(w, http.StatusBadRequest, "head must be a member of the family")
	case errors.Is(err, store.ErrFamilyNeedsHead):
		httpjson.Error(w, http.StatusConflict, "a family with members must have a head")
	case errors.Is(err, store.ErrMemberNotFound):
		httpjson.Error(w, http.StatusBadRequest, "member not found")
	default:
		h.Log.Error("family store error", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}

// HandleCreate stores a new family. The head is assigned later, when the
// first member joins.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in familyInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}

	now := time.Now()
	f := &models.Family{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(in.Name),
		Address:   strings.TrimSpace(in.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.NameCI = strings.ToLower(f.Name)

	if err := h.Families.Create(r.Context(), f); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.Audit.AdminAction(r.Context(), r, store.EventFamilyCreated, actorID, f.ID, map[string]string{"name": f.Name})
	}

	httpjson.Respond(w, http.StatusCreated, f)
}

// familyDetail is the GET payload: the family plus its members.
type familyDetail struct {
	*models.Family
	Members []*models.Member `json:"members"`
}

// HandleGet returns a family together with its members.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid family id")
		return
	}

	f, err := h.Families.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	members, _, err := h.Members.List(r.Context(), store.MemberFilter{
		FamilyID: &id,
		Page:     store.Page{Limit: paging.MaxLimit},
	})
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	httpjson.Respond(w, http.StatusOK, familyDetail{Family: f, Members: members})
}

// HandleUpdate rewrites a family's name and address.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid family id")
		return
	}

	var in familyInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}

	f, err := h.Families.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	f.Name = strings.TrimSpace(in.Name)
	f.NameCI = strings.ToLower(f.Name)
	f.Address = strings.TrimSpace(in.Address)
	f.UpdatedAt = time.Now()

	if err := h.Families.Update(r.Context(), f); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.Audit.AdminAction(r.Context(), r, store.EventFamilyUpdated, actorID, f.ID, nil)
	}

	httpjson.Respond(w, http.StatusOK, f)
}

// HandleDelete removes an empty family.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid family id")
		return
	}

	if err := h.Families.Delete(r.Context(), id); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.Audit.AdminAction(r.Context(), r, store.EventFamilyDeleted, actorID, id, nil)
	}

	w.WriteHeader(http.StatusNoContent)
}

type familyListResponse struct {
	Items []*models.Family `json:"items"`
	paging.ListMeta
}

// HandleList returns one page of families. Supports q (name search).
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	f := store.FamilyFilter{
		Search: r.URL.Query().Get("q"),
		Page:   paging.Parse(r),
	}

	items, total, err := h.Families.List(r.Context(), f)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	httpjson.Respond(w, http.StatusOK, familyListResponse{
		Items:    items,
		ListMeta: paging.Meta(total, f.Page),
	})
}
