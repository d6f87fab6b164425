package reports

import (
	"github.com/go-chi/chi/v5"

	"github.com/openparish/steward/internal/app/system/authz"
	"github.com/openparish/steward/internal/domain/models"
)

// Routes mounts the report endpoints. All of them require the
// view_reports grant.
func Routes(h *Handler, checker *authz.Checker) chi.Router {
	r := chi.NewRouter()
	r.Use(authz.RequireUser)
	r.Use(checker.RequirePermission(models.PermViewReports))

	r.Get("/budget-vs-actual/{fiscalYearID}", h.HandleBudgetVsActual)
	r.Get("/giving-statement/{memberID}", h.HandleGivingStatement)
	r.Get("/contributions-csv/{fiscalYearID}", h.HandleContributionsCSV)

	return r
}
