package contributions

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/openparish/steward/internal/app/system/httpjson"
	"github.com/openparish/steward/internal/app/system/paging"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

type contributionListResponse struct {
	Items    []*models.Contribution `json:"items"`
	SumCents int64                  `json:"sum_cents"`
	paging.ListMeta
}

// HandleList returns one page of non-voided contributions. Total and
// sum_cents cover every row matching the filter, not just the page.
// Filters: member_id, budget_id, fiscal_year_id, from, to (dates).
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.ContributionFilter{Page: paging.Parse(r)}

	for param, dst := range map[string]**uuid.UUID{
		"member_id":      &f.MemberID,
		"budget_id":      &f.BudgetID,
		"fiscal_year_id": &f.FiscalYearID,
	} {
		raw := q.Get(param)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "invalid "+param)
			return
		}
		*dst = &id
	}

	for param, dst := range map[string]**time.Time{
		"from": &f.From,
		"to":   &f.To,
	} {
		raw := q.Get(param)
		if raw == "" {
			continue
		}
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, param+" must be a date in YYYY-MM-DD form")
			return
		}
		*dst = &d
	}

	page, err := h.Contributions.List(r.Context(), f)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	httpjson.Respond(w, http.StatusOK, contributionListResponse{
		Items:    page.Items,
		SumCents: page.SumCents,
		ListMeta: paging.Meta(page.Total, f.Page),
	})
}
