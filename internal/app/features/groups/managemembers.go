package groups

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/openparish/steward/internal/app/system/authz"
	"github.com/openparish/steward/internal/app/system/httpjson"
	"github.com/openparish/steward/internal/app/system/inputval"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

type addMemberInput struct {
	MemberID string `json:"member_id" validate:"required,uuidstr" label:"Member"`
	Role     string `json:"role" validate:"omitempty,oneof=member leader" label:"Role"`
}

type setRoleInput struct {
	Role string `json:"role" validate:"required,oneof=member leader" label:"Role"`
}

// HandleAddMember adds a member to the group, optionally as leader.
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}

	var in addMemberInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}

	memberID, _ := uuid.Parse(in.MemberID)
	role := in.Role
	if role == "" {
		role = models.GroupRoleMember
	}

	gm, err := h.Groups.AddMember(r.Context(), groupID, memberID, role)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.Audit.AdminAction(r.Context(), r, store.EventGroupMemberAdded, actorID, groupID, map[string]string{
			"member_id": memberID.String(),
			"role":      role,
		})
	}

	httpjson.Respond(w, http.StatusCreated, gm)
}

// HandleRemoveMember removes a member from the group. Leaders must be
// demoted first.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}
	memberID, err := uuid.Parse(chi.URLParam(r, "memberID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid member id")
		return
	}

	if err := h.Groups.RemoveMember(r.Context(), groupID, memberID); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.Audit.AdminAction(r.Context(), r, store.EventGroupMemberRemoved, actorID, groupID, map[string]string{
			"member_id": memberID.String(),
		})
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleSetRole promotes or demotes a group member.
func (h *Handler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}
	memberID, err := uuid.Parse(chi.URLParam(r, "memberID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid member id")
		return
	}

	var in setRoleInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}

	if err := h.Groups.SetMemberRole(r.Context(), groupID, memberID, in.Role); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.Audit.AdminAction(r.Context(), r, store.EventGroupRoleChanged, actorID, groupID, map[string]string{
			"member_id": memberID.String(),
			"role":      in.Role,
		})
	}

	w.WriteHeader(http.StatusNoContent)
}

type rosterResponse struct {
	Items []*models.GroupMember `json:"items"`
}

// HandleListMembers returns the group's membership rows, leaders first.
func (h *Handler) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}

	items, err := h.Groups.ListMembers(r.Context(), groupID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	httpjson.Respond(w, http.StatusOK, rosterResponse{Items: items})
}
