package contributions

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/openparish/steward/internal/app/system/authz"
	"github.com/openparish/steward/internal/app/system/htmlsanitize"
	"github.com/openparish/steward/internal/app/system/httpjson"
	"github.com/openparish/steward/internal/app/system/inputval"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

// HandleCreate records a contribution and sends a receipt to the member
// if they have an email on file. The receipt goes out in the background;
// a mail failure never fails the request.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
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

	memberID, _ := uuid.Parse(in.MemberID)
	budgetID, _ := uuid.Parse(in.BudgetID)
	givenAt, _ := time.Parse("2006-01-02", in.GivenAt)

	now := time.Now()
	c := &models.Contribution{
		ID:          uuid.New(),
		MemberID:    memberID,
		BudgetID:    budgetID,
		AmountCents: in.AmountCents,
		GivenAt:     givenAt,
		Method:      in.Method,
		CheckNumber: in.CheckNumber,
		Note:        htmlsanitize.Sanitize(in.Note),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Contributions.Create(r.Context(), c); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.Audit.AdminAction(r.Context(), r, store.EventContributionAdded, actorID, c.ID, map[string]string{
			"member_id": memberID.String(),
			"amount":    formatCents(c.AmountCents),
		})
	}

	go h.sendReceipt(c)

	httpjson.Respond(w, http.StatusCreated, c)
}
