package families

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/openparish/steward/internal/app/system/authz"
	"github.com/openparish/steward/internal/app/system/httpjson"
	"github.com/openparish/steward/internal/store"
)

type setHeadInput struct {
	HeadMemberID *string `json:"head_member_id"`
}

// HandleSetHead reassigns the family head. The new head must already
// belong to the family; clearing the head is rejected while members
// remain.
func (h *Handler) HandleSetHead(w http.ResponseWriter, r *http.Request) {
	familyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid family id")
		return
	}

	var in setHeadInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var head *uuid.UUID
	if in.HeadMemberID != nil && *in.HeadMemberID != "" {
		id, err := uuid.Parse(*in.HeadMemberID)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "head_member_id must be a valid id")
			return
		}
		head = &id
	}

	if err := h.Families.SetHead(r.Context(), familyID, head); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		details := map[string]string{}
		if head != nil {
			details["head_member_id"] = head.String()
		}
		h.Audit.AdminAction(r.Context(), r, store.EventFamilyHeadChanged, actorID, familyID, details)
	}

	f, err := h.Families.Get(r.Context(), familyID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, f)
}
