package membershiptypes

import (
	"net/http"
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
	MemberID  string `json:"member_id" validate:"required,uuidstr" label:"Member"`
	TypeID    string `json:"type_id" validate:"required,uuidstr" label:"Membership type"`
	StartDate string `json:"start_date" validate:"required,dateymd" label:"Start date"`
	EndDate   string `json:"end_date" validate:"omitempty,dateymd" label:"End date"`
}

type endAssignmentInput struct {
	EndDate string `json:"end_date" validate:"required,dateymd" label:"End date"`
}

// HandleAssign opens a membership window for a member. Windows of the
// same type must not overlap; an omitted end date leaves the window open.
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
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
	typeID, _ := uuid.Parse(in.TypeID)
	start, _ := time.Parse("2006-01-02", in.StartDate)

	a := &models.MembershipAssignment{
		ID:        uuid.New(),
		MemberID:  memberID,
		TypeID:    typeID,
		StartDate: start,
		CreatedAt: time.Now(),
	}
	if in.EndDate != "" {
		end, _ := time.Parse("2006-01-02", in.EndDate)
		if end.Before(start) {
			httpjson.Error(w, http.StatusBadRequest, "end_date must not be before start_date")
			return
		}
		a.EndDate = &end
	}

	if err := h.Types.Assign(r.Context(), a); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.Audit.AdminAction(r.Context(), r, store.EventTypeAssigned, actorID, memberID, map[string]string{
			"type_id": typeID.String(),
			"start":   in.StartDate,
		})
	}

	httpjson.Respond(w, http.StatusCreated, a)
}

// HandleEndAssignment closes an open assignment window.
func (h *Handler) HandleEndAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "assignmentID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid assignment id")
		return
	}

	var in endAssignmentInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}
	end, _ := time.Parse("2006-01-02", in.EndDate)

	if err := h.Types.EndAssignment(r.Context(), id, end); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.Audit.AdminAction(r.Context(), r, store.EventTypeAssignmentEnded, actorID, id, map[string]string{"end": in.EndDate})
	}

	w.WriteHeader(http.StatusNoContent)
}

type assignmentListResponse struct {
	Items []*models.MembershipAssignment `json:"items"`
}

// HandleMemberHistory returns a member's assignment history, newest
// first.
func (h *Handler) HandleMemberHistory(w http.ResponseWriter, r *http.Request) {
	memberID, err := uuid.Parse(chi.URLParam(r, "memberID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid member id")
		return
	}

	items, err := h.Types.ListAssignments(r.Context(), memberID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, assignmentListResponse{Items: items})
}
