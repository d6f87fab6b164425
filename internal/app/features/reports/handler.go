// Package reports serves the finance read models: budget-vs-actual per
// fiscal year, per-member giving statements, and a CSV export of
// contributions. Everything here is derived; reports never write.
package reports

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/openparish/steward/internal/app/system/httpjson"
	"github.com/openparish/steward/internal/store"
)

// Handler holds dependencies for the report endpoints.
type Handler struct {
	FiscalYears   store.FiscalYearStore
	Budgets       store.BudgetStore
	Contributions store.ContributionStore
	Members       store.MemberStore
	Log           *zap.Logger
}

// NewHandler constructs a reports Handler.
func NewHandler(
	fiscalYears store.FiscalYearStore,
	budgets store.BudgetStore,
	contributions store.ContributionStore,
	members store.MemberStore,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		FiscalYears:   fiscalYears,
		Budgets:       budgets,
		Contributions: contributions,
		Members:       members,
		Log:           logger,
	}
}

func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrFiscalYearNotFound):
		httpjson.Error(w, http.StatusNotFound, "fiscal year not found")
	case errors.Is(err, store.ErrMemberNotFound):
		httpjson.Error(w, http.StatusNotFound, "member not found")
	default:
		h.Log.Error("report query error", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}
