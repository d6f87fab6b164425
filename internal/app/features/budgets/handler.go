// Package budgets serves the named allocations inside a fiscal year.
// Actual giving against a budget is derived from contributions and never
// stored on the budget row.
package budgets

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openparish/steward/internal/app/system/auditlog"
	"github.com/openparish/steward/internal/app/system/authz"
	"github.com/openparish/steward/internal/app/system/httpjson"
	"github.com/openparish/steward/internal/app/system/inputval"
	"github.com/openparish/steward/internal/app/system/paging"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

// Handler holds dependencies for the budget endpoints.
type Handler struct {
	Budgets store.BudgetStore
	Audit   *auditlog.Logger
	Log     *zap.Logger
}

// NewHandler constructs a budgets Handler.
func NewHandler(budgets store.BudgetStore, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Budgets: budgets,
		Audit:   audit,
		Log:     logger,
	}
}

type budgetInput struct {
	Name         string `json:"name" validate:"required,max=200" label:"Budget name"`
	FiscalYearID string `json:"fiscal_year_id" validate:"required,uuidstr" label:"Fiscal year"`
	AmountCents  int64  `json:"amount_cents" validate:"required,gt=0" label:"Amount"`
}

func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrBudgetNotFound):
		httpjson.Error(w, http.StatusNotFound, "budget not found")
	case errors.Is(err, store.ErrBudgetNameInUse):
		httpjson.Error(w, http.StatusConflict, "budget name already in use for this fiscal year")
	case errors.Is(err, store.ErrBudgetReferenced):
		httpjson.Error(w, http.StatusConflict, "budget has contributions and cannot be deleted")
	case errors.Is(err, store.ErrFiscalYearNotFound):
		httpjson.Error(w, http.StatusBadRequest, "fiscal year not found")
	case errors.Is(err, store.ErrFiscalYearClosed):
		httpjson.Error(w, http.StatusConflict, "fiscal year is closed")
	default:
		h.Log.Error("budget store error", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}

// HandleCreate stores a new budget in an open fiscal year.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in budgetInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}
	fyID, _ := uuid.Parse(in.FiscalYearID)

	now := time.Now()
	b := &models.Budget{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(in.Name),
		FiscalYearID: fyID,
		AmountCents:  in.AmountCents,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	b.NameCI = strings.ToLower(b.Name)

	if err := h.Budgets.Create(r.Context(), b); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.Audit.AdminAction(r.Context(), r, store.EventBudgetCreated, actorID, b.ID, map[string]string{"name": b.Name})
	}

	httpjson.Respond(w, http.StatusCreated, b)
}

// HandleGet returns one budget.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid budget id")
		return
	}

	b, err := h.Budgets.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, b)
}

// HandleUpdate rewrites a budget's name and amount. The fiscal year a
// budget belongs to never changes.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid budget id")
		return
	}

	var in struct {
		Name        string `json:"name" validate:"required,max=200" label:"Budget name"`
		AmountCents int64  `json:"amount_cents" validate:"required,gt=0" label:"Amount"`
	}
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}

	b, err := h.Budgets.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	b.Name = strings.TrimSpace(in.Name)
	b.NameCI = strings.ToLower(b.Name)
	b.AmountCents = in.AmountCents
	b.UpdatedAt = time.Now()

	if err := h.Budgets.Update(r.Context(), b); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.Audit.AdminAction(r.Context(), r, store.EventBudgetUpdated, actorID, b.ID, nil)
	}

	httpjson.Respond(w, http.StatusOK, b)
}

// HandleDelete removes a budget with no contributions.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid budget id")
		return
	}

	if err := h.Budgets.Delete(r.Context(), id); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.Audit.AdminAction(r.Context(), r, store.EventBudgetDeleted, actorID, id, nil)
	}

	w.WriteHeader(http.StatusNoContent)
}

type budgetListResponse struct {
	Items []*models.Budget `json:"items"`
	paging.ListMeta
}

// HandleList returns one page of budgets, optionally filtered by
// fiscal_year_id.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	f := store.BudgetFilter{Page: paging.Parse(r)}
	if raw := r.URL.Query().Get("fiscal_year_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "invalid fiscal_year_id")
			return
		}
		f.FiscalYearID = &id
	}

	items, total, err := h.Budgets.List(r.Context(), f)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	httpjson.Respond(w, http.StatusOK, budgetListResponse{
		Items:    items,
		ListMeta: paging.Meta(total, f.Page),
	})
}
