package events

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/openparish/steward/internal/app/system/authz"
	"github.com/openparish/steward/internal/app/system/httpjson"
	"github.com/openparish/steward/internal/app/system/inputval"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

type assignInput struct {
	MemberID string `json:"member_id" validate:"required,uuidstr" label:"Member"`
	Task     string `json:"task" validate:"required,max=100" label:"Task"`
}

// HandleAssign adds a volunteer to an event task and sends the notice
// in the background.
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid event id")
		return
	}

	var in assignInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}
	memberID, _ := uuid.Parse(in.MemberID)

	a := &models.VolunteerAssignment{
		ID:        uuid.New(),
		EventID:   eventID,
		MemberID:  memberID,
		Task:      strings.TrimSpace(in.Task),
		CreatedAt: time.Now(),
	}

	if err := h.Events.Assign(r.Context(), a); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.Audit.AdminAction(r.Context(), r, store.EventVolunteerAssigned, actorID, eventID, map[string]string{
			"member_id": memberID.String(),
			"task":      a.Task,
		})
	}

	go h.sendVolunteerNotice(a)

	httpjson.Respond(w, http.StatusCreated, a)
}

// HandleUnassign removes a volunteer assignment.
func (h *Handler) HandleUnassign(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "assignmentID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid assignment id")
		return
	}

	if err := h.Events.Unassign(r.Context(), id); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.Audit.AdminAction(r.Context(), r, store.EventVolunteerUnassigned, actorID, id, nil)
	}

	w.WriteHeader(http.StatusNoContent)
}

type rosterResponse struct {
	Items []*models.VolunteerAssignment `json:"items"`
}

// HandleRoster returns an event's volunteer assignments.
func (h *Handler) HandleRoster(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid event id")
		return
	}

	items, err := h.Events.Roster(r.Context(), eventID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, rosterResponse{Items: items})
}

// HandleMemberAssignments returns every assignment of one member.
func (h *Handler) HandleMemberAssignments(w http.ResponseWriter, r *http.Request) {
	memberID, err := uuid.Parse(chi.URLParam(r, "memberID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid member id")
		return
	}

	items, err := h.Events.MemberAssignments(r.Context(), memberID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, rosterResponse{Items: items})
}
