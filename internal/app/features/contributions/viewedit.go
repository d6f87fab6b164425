package contributions

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/openparish/steward/internal/app/system/authz"
	"github.com/openparish/steward/internal/app/system/htmlsanitize"
	"github.com/openparish/steward/internal/app/system/httpjson"
	"github.com/openparish/steward/internal/app/system/inputval"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

// HandleGet returns one contribution, voided or not.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid contribution id")
		return
	}

	c, err := h.Contributions.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, c)
}

// HandleUpdate corrects a recorded contribution. Voided rows cannot be
// edited.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid contribution id")
		return
	}

	var in contributionInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}
	if in.Method == models.MethodCheck && in.CheckNumber == "" {
		httpjson.Error(w, http.StatusBadRequest, "check_number is required for check contributions")
		return
	}

	c, err := h.Contributions.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	memberID, _ := uuid.Parse(in.MemberID)
	budgetID, _ := uuid.Parse(in.BudgetID)
	givenAt, _ := time.Parse("2006-01-02", in.GivenAt)

	c.MemberID = memberID
	c.BudgetID = budgetID
	c.AmountCents = in.AmountCents
	c.GivenAt = givenAt
	c.Method = in.Method
	c.CheckNumber = in.CheckNumber
	c.Note = htmlsanitize.Sanitize(in.Note)
	c.UpdatedAt = time.Now()

	if err := h.Contributions.Update(r.Context(), c); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.Audit.AdminAction(r.Context(), r, store.EventContributionUpdated, actorID, c.ID, nil)
	}

	httpjson.Respond(w, http.StatusOK, c)
}

// HandleVoid soft-deletes a contribution. The row stays for the audit
// trail; voiding twice is a no-op.
func (h *Handler) HandleVoid(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid contribution id")
		return
	}

	if err := h.Contributions.Void(r.Context(), id); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.Audit.AdminAction(r.Context(), r, store.EventContributionVoided, actorID, id, nil)
	}

	w.WriteHeader(http.StatusNoContent)
}
