package reports

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/openparish/steward/internal/app/system/httpjson"
	"github.com/openparish/steward/internal/app/system/paging"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

type givingStatementResponse struct {
	MemberID   uuid.UUID              `json:"member_id"`
	MemberName string                 `json:"member_name"`
	From       string                 `json:"from,omitempty"`
	To         string                 `json:"to,omitempty"`
	Items      []*models.Contribution `json:"items"`
	TotalCents int64                  `json:"total_cents"`
}

// HandleGivingStatement lists a member's non-voided contributions over an
// optional from/to date range, with the period total.
func (h *Handler) HandleGivingStatement(w http.ResponseWriter, r *http.Request) {
	memberID, err := uuid.Parse(chi.URLParam(r, "memberID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid member id")
		return
	}

	m, err := h.Members.Get(r.Context(), memberID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	f := store.ContributionFilter{
		MemberID: &memberID,
		Page:     store.Page{Limit: paging.MaxLimit},
	}
	q := r.URL.Query()
	if raw := q.Get("from"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "from must be a date in YYYY-MM-DD form")
			return
		}
		f.From = &d
	}
	if raw := q.Get("to"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "to must be a date in YYYY-MM-DD form")
			return
		}
		f.To = &d
	}

	var items []*models.Contribution
	var totalCents int64
	for {
		page, err := h.Contributions.List(r.Context(), f)
		if err != nil {
			h.writeStoreError(w, err)
			return
		}
		// SumCents covers the whole filter, not just this page.
		totalCents = page.SumCents
		items = append(items, page.Items...)
		if f.Offset+len(page.Items) >= page.Total || len(page.Items) == 0 {
			break
		}
		f.Offset += len(page.Items)
	}
	if items == nil {
		items = []*models.Contribution{}
	}

	httpjson.Respond(w, http.StatusOK, givingStatementResponse{
		MemberID:   m.ID,
		MemberName: m.FirstName + " " + m.LastName,
		From:       q.Get("from"),
		To:         q.Get("to"),
		Items:      items,
		TotalCents: totalCents,
	})
}
