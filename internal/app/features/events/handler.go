// Package events serves scheduled events and the volunteer assignments
// that staff them. New volunteers get an email notice and, when they
// have a phone on file, an SMS reminder.
package events

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
	"github.com/openparish/steward/internal/app/system/mailer"
	"github.com/openparish/steward/internal/app/system/paging"
	"github.com/openparish/steward/internal/app/system/smsgateway"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

// Handler holds dependencies for the event endpoints.
type Handler struct {
	Events  store.EventStore
	Members store.MemberStore
	Mailer  *mailer.Mailer
	SMS     *smsgateway.Client
	Audit   *auditlog.Logger
	Log     *zap.Logger

	// ChurchName appears on volunteer notices.
	ChurchName string
}

// NewHandler constructs an events Handler. Mailer and SMS may be nil;
// notices are skipped then.
func NewHandler(
	events store.EventStore,
	members store.MemberStore,
	m *mailer.Mailer,
	sms *smsgateway.Client,
	audit *auditlog.Logger,
	logger *zap.Logger,
	churchName string,
) *Handler {
	return &Handler{
		Events:     events,
		Members:    members,
		Mailer:     m,
		SMS:        sms,
		Audit:      audit,
		Log:        logger,
		ChurchName: churchName,
	}
}

type eventInput struct {
	Name     string `json:"name" validate:"required,max=200" label:"Event name"`
	StartsAt string `json:"starts_at" validate:"required" label:"Start time"`
	Location string `json:"location" validate:"max=500" label:"Location"`
}

func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrEventNotFound):
		httpjson.Error(w, http.StatusNotFound, "event not found")
	case errors.Is(err, store.ErrAlreadyAssigned):
		httpjson.Error(w, http.StatusConflict, "member already assigned to this task")
	case errors.Is(err, store.ErrVolunteerNotFound):
		httpjson.Error(w, http.StatusNotFound, "volunteer assignment not found")
	case errors.Is(err, store.ErrMemberNotFound):
		httpjson.Error(w, http.StatusBadRequest, "member not found")
	default:
		h.Log.Error("event store error", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}

// HandleCreate stores a new event.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in eventInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}
	startsAt, err := time.Parse(time.RFC3339, in.StartsAt)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "starts_at must be an RFC 3339 timestamp")
		return
	}

	now := time.Now()
	e := &models.Event{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(in.Name),
		StartsAt:  startsAt,
		Location:  htmlsanitize.Sanitize(strings.TrimSpace(in.Location)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	e.NameCI = strings.ToLower(e.Name)

	if err := h.Events.Create(r.Context(), e); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.Audit.AdminAction(r.Context(), r, store.EventEventCreated, actorID, e.ID, map[string]string{"name": e.Name})
	}

	httpjson.Respond(w, http.StatusCreated, e)
}

// HandleGet returns one event.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid event id")
		return
	}

	e, err := h.Events.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, e)
}

// HandleUpdate rewrites an event.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid event id")
		return
	}

	var in eventInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}
	startsAt, err := time.Parse(time.RFC3339, in.StartsAt)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "starts_at must be an RFC 3339 timestamp")
		return
	}

	e, err := h.Events.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	e.Name = strings.TrimSpace(in.Name)
	e.NameCI = strings.ToLower(e.Name)
	e.StartsAt = startsAt
	e.Location = htmlsanitize.Sanitize(strings.TrimSpace(in.Location))
	e.UpdatedAt = time.Now()

	if err := h.Events.Update(r.Context(), e); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.Audit.AdminAction(r.Context(), r, store.EventEventUpdated, actorID, e.ID, nil)
	}

	httpjson.Respond(w, http.StatusOK, e)
}

// HandleDelete removes an event and its volunteer assignments.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid event id")
		return
	}

	if err := h.Events.Delete(r.Context(), id); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.Audit.AdminAction(r.Context(), r, store.EventEventDeleted, actorID, id, nil)
	}

	w.WriteHeader(http.StatusNoContent)
}

type eventListResponse struct {
	Items []*models.Event `json:"items"`
	paging.ListMeta
}

// HandleList returns one page of events. Supports q (name search).
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	f := store.EventFilter{
		Search: r.URL.Query().Get("q"),
		Page:   paging.Parse(r),
	}

	items, total, err := h.Events.List(r.Context(), f)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	httpjson.Respond(w, http.StatusOK, eventListResponse{
		Items:    items,
		ListMeta: paging.Meta(total, f.Page),
	})
}
