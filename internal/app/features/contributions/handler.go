// Package contributions records member giving against budgets. Every
// mutation is audit-logged, deletes are soft (void), and a receipt email
// goes out after each recorded gift.
package contributions

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/openparish/steward/internal/app/system/auditlog"
	"github.com/openparish/steward/internal/app/system/httpjson"
	"github.com/openparish/steward/internal/app/system/mailer"
	"github.com/openparish/steward/internal/store"
)

// Handler holds dependencies for the contribution endpoints.
type Handler struct {
	Contributions store.ContributionStore
	Members       store.MemberStore
	Budgets       store.BudgetStore
	Mailer        *mailer.Mailer
	Audit         *auditlog.Logger
	Log           *zap.Logger

	// ChurchName appears on receipts.
	ChurchName string
}

// NewHandler constructs a contributions Handler.
func NewHandler(
	contributions store.ContributionStore,
	members store.MemberStore,
	budgets store.BudgetStore,
	m *mailer.Mailer,
	audit *auditlog.Logger,
	logger *zap.Logger,
	churchName string,
) *Handler {
	return &Handler{
		Contributions: contributions,
		Members:       members,
		Budgets:       budgets,
		Mailer:        m,
		Audit:         audit,
		Log:           logger,
		ChurchName:    churchName,
	}
}

type contributionInput struct {
	MemberID    string `json:"member_id" validate:"required,uuidstr" label:"Member"`
	BudgetID    string `json:"budget_id" validate:"required,uuidstr" label:"Budget"`
	AmountCents int64  `json:"amount_cents" validate:"required,gt=0" label:"Amount"`
	GivenAt     string `json:"given_at" validate:"required,dateymd" label:"Given date"`
	Method      string `json:"method" validate:"required,givingmethod" label:"Method"`
	CheckNumber string `json:"check_number" validate:"max=50" label:"Check number"`
	Note        string `json:"note" validate:"max=1000" label:"Note"`
}

func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrContributionNotFound):
		httpjson.Error(w, http.StatusNotFound, "contribution not found")
	case errors.Is(err, store.ErrContributionVoided):
		httpjson.Error(w, http.StatusConflict, "contribution is voided")
	case errors.Is(err, store.ErrMemberNotFound):
		httpjson.Error(w, http.StatusBadRequest, "member not found")
	case errors.Is(err, store.ErrBudgetNotFound):
		httpjson.Error(w, http.StatusBadRequest, "budget not found")
	case errors.Is(err, store.ErrFiscalYearClosed):
		httpjson.Error(w, http.StatusConflict, "fiscal year is closed")
	default:
		h.Log.Error("contribution store error", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}

// formatCents renders a cent amount as dollars, e.g. 12550 -> "$125.50".
func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
