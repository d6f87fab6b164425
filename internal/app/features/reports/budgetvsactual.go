package reports

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/openparish/steward/internal/app/system/httpjson"
	"github.com/openparish/steward/internal/app/system/paging"
	"github.com/openparish/steward/internal/store"
)

type budgetLine struct {
	BudgetID       uuid.UUID `json:"budget_id"`
	Name           string    `json:"name"`
	BudgetedCents  int64     `json:"budgeted_cents"`
	ActualCents    int64     `json:"actual_cents"`
	RemainingCents int64     `json:"remaining_cents"`
}

type budgetVsActualResponse struct {
	FiscalYearID       uuid.UUID    `json:"fiscal_year_id"`
	Label              string       `json:"label"`
	Closed             bool         `json:"closed"`
	Lines              []budgetLine `json:"lines"`
	TotalBudgetedCents int64        `json:"total_budgeted_cents"`
	TotalActualCents   int64        `json:"total_actual_cents"`
}

// HandleBudgetVsActual compares each budget in a fiscal year against the
// non-voided contributions recorded toward it. Budgets with no giving
// show a zero actual.
func (h *Handler) HandleBudgetVsActual(w http.ResponseWriter, r *http.Request) {
	fyID, err := uuid.Parse(chi.URLParam(r, "fiscalYearID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid fiscal year id")
		return
	}

	fy, err := h.FiscalYears.Get(r.Context(), fyID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	budgets, _, err := h.Budgets.List(r.Context(), store.BudgetFilter{
		FiscalYearID: &fyID,
		Page:         store.Page{Limit: paging.MaxLimit},
	})
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	actuals, err := h.Contributions.SumByBudget(r.Context(), fyID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	actualByBudget := make(map[uuid.UUID]int64, len(actuals))
	for _, a := range actuals {
		actualByBudget[a.BudgetID] = a.ActualCents
	}

	resp := budgetVsActualResponse{
		FiscalYearID: fy.ID,
		Label:        fy.Label,
		Closed:       fy.Closed,
		Lines:        make([]budgetLine, 0, len(budgets)),
	}
	for _, b := range budgets {
		actual := actualByBudget[b.ID]
		resp.Lines = append(resp.Lines, budgetLine{
			BudgetID:       b.ID,
			Name:           b.Name,
			BudgetedCents:  b.AmountCents,
			ActualCents:    actual,
			RemainingCents: b.AmountCents - actual,
		})
		resp.TotalBudgetedCents += b.AmountCents
		resp.TotalActualCents += actual
	}

	httpjson.Respond(w, http.StatusOK, resp)
}
