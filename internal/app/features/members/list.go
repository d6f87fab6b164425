package members

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/openparish/steward/internal/app/system/httpjson"
	"github.com/openparish/steward/internal/app/system/paging"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

type memberListResponse struct {
	Items []*models.Member `json:"items"`
	paging.ListMeta
}

// HandleList returns one page of members. Supports status, family_id and
// q (name search) query filters.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	f := store.MemberFilter{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("q"),
		Page:   paging.Parse(r),
	}
	if raw := r.URL.Query().Get("family_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "invalid family_id")
			return
		}
		f.FamilyID = &id
	}

	items, total, err := h.Members.List(r.Context(), f)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	httpjson.Respond(w, http.StatusOK, memberListResponse{
		Items:    items,
		ListMeta: paging.Meta(total, f.Page),
	})
}
