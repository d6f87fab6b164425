// Package members serves the congregation member endpoints: CRUD, paged
// listing with search, and the family-head rules that go with them.
package members

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openparish/steward/internal/app/system/auditlog"
	"github.com/openparish/steward/internal/app/system/httpjson"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

// Handler holds dependencies for the member endpoints.
type Handler struct {
	Members store.MemberStore
	Audit   *auditlog.Logger
	Log     *zap.Logger
}

// NewHandler constructs a members Handler.
func NewHandler(members store.MemberStore, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Members: members,
		Audit:   audit,
		Log:     logger,
	}
}

// memberInput is the create/update payload.
type memberInput struct {
	FirstName string  `json:"first_name" validate:"required,max=100" label:"First name"`
	LastName  string  `json:"last_name" validate:"required,max=100" label:"Last name"`
	Email     string  `json:"email" validate:"omitempty,email" label:"Email"`
	Phone     string  `json:"phone" validate:"omitempty,phone" label:"Phone"`
	Address   string  `json:"address" validate:"max=500" label:"Address"`
	FamilyID  *string `json:"family_id" validate:"omitempty,uuidstr" label:"Family"`
	JoinedAt  string  `json:"joined_at" validate:"omitempty,dateymd" label:"Joined date"`
	Status    string  `json:"status" validate:"omitempty,oneof=active inactive" label:"Status"`
}

// apply copies the payload onto m, filling defaults for a new record.
func (in *memberInput) apply(m *models.Member) {
	m.FirstName = strings.TrimSpace(in.FirstName)
	m.LastName = strings.TrimSpace(in.LastName)
	m.FullNameCI = strings.ToLower(m.FirstName + " " + m.LastName)
	m.Email = strings.ToLower(strings.TrimSpace(in.Email))
	m.Phone = strings.TrimSpace(in.Phone)
	m.Address = strings.TrimSpace(in.Address)

	m.FamilyID = nil
	if in.FamilyID != nil && *in.FamilyID != "" {
		id, err := uuid.Parse(*in.FamilyID)
		if err == nil {
			m.FamilyID = &id
		}
	}

	if in.JoinedAt != "" {
		if joined, err := time.Parse("2006-01-02", in.JoinedAt); err == nil {
			m.JoinedAt = joined
		}
	} else if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}

	m.Status = in.Status
	if m.Status == "" {
		m.Status = "active"
	}
}

// writeStoreError maps member store sentinels onto HTTP statuses.
func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrMemberNotFound):
		httpjson.Error(w, http.StatusNotFound, "member not found")
	case errors.Is(err, store.ErrFamilyNotFound):
		httpjson.Error(w, http.StatusBadRequest, "family not found")
	case errors.Is(err, store.ErrMemberEmailInUse):
		httpjson.Error(w, http.StatusConflict, "email already in use")
	case errors.Is(err, store.ErrMemberIsFamilyHead):
		httpjson.Error(w, http.StatusConflict, "member heads a family with other members; reassign the head first")
	case errors.Is(err, store.ErrMemberReferenced):
		httpjson.Error(w, http.StatusConflict, "member has contributions or volunteer assignments and cannot be deleted")
	default:
		h.Log.Error("member store error", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}
