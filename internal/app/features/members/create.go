package members

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/openparish/steward/internal/app/system/authz"
	"github.com/openparish/steward/internal/app/system/httpjson"
	"github.com/openparish/steward/internal/app/system/inputval"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

// HandleCreate registers a new member.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in memberInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}

	now := time.Now()
	m := &models.Member{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
	in.apply(m)

	if err := h.Members.Create(r.Context(), m); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.Audit.AdminAction(r.Context(), r, store.EventMemberCreated, actorID, m.ID, map[string]string{
			"name": m.FirstName + " " + m.LastName,
		})
	}

	httpjson.Respond(w, http.StatusCreated, m)
}
