package reports

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openparish/steward/internal/app/system/csvutil"
	"github.com/openparish/steward/internal/app/system/httpjson"
	"github.com/openparish/steward/internal/app/system/paging"
	"github.com/openparish/steward/internal/store"
)

// HandleContributionsCSV streams a fiscal year's non-voided
// contributions as a CSV download, newest page order, with member and
// fund names resolved.
func (h *Handler) HandleContributionsCSV(w http.ResponseWriter, r *http.Request) {
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

	memberNames := map[uuid.UUID]string{}
	fundNames := map[uuid.UUID]string{}
	var rows []csvutil.ContributionRow

	f := store.ContributionFilter{
		FiscalYearID: &fyID,
		Page:         store.Page{Limit: paging.MaxLimit},
	}
	for {
		page, err := h.Contributions.List(r.Context(), f)
		if err != nil {
			h.writeStoreError(w, err)
			return
		}
		for _, c := range page.Items {
			memberName, ok := memberNames[c.MemberID]
			if !ok {
				if m, err := h.Members.Get(r.Context(), c.MemberID); err == nil {
					memberName = m.FirstName + " " + m.LastName
				}
				memberNames[c.MemberID] = memberName
			}
			fundName, ok := fundNames[c.BudgetID]
			if !ok {
				if b, err := h.Budgets.Get(r.Context(), c.BudgetID); err == nil {
					fundName = b.Name
				}
				fundNames[c.BudgetID] = fundName
			}
			rows = append(rows, csvutil.ContributionRow{
				GivenAt:     c.GivenAt,
				MemberName:  memberName,
				FundName:    fundName,
				Method:      c.Method,
				CheckNumber: c.CheckNumber,
				AmountCents: c.AmountCents,
				Note:        c.Note,
			})
		}
		if f.Offset+len(page.Items) >= page.Total || len(page.Items) == 0 {
			break
		}
		f.Offset += len(page.Items)
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "contributions-"+fy.Label+".csv"))
	if err := csvutil.WriteContributions(w, rows); err != nil {
		h.Log.Error("contributions CSV export failed", zap.Error(err))
	}
}
