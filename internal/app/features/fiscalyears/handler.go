// Package fiscalyears serves the accounting periods that budgets and
// contributions are scoped to. Closing a year is one-way; once closed
// the finance stores reject writes into it.
package fiscalyears

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
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

// Handler holds dependencies for the fiscal year endpoints.
type Handler struct {
	FiscalYears store.FiscalYearStore
	Audit       *auditlog.Logger
	Log         *zap.Logger
}

// NewHandler constructs a fiscalyears Handler.
func NewHandler(fiscalYears store.FiscalYearStore, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		FiscalYears: fiscalYears,
		Audit:       audit,
		Log:         logger,
	}
}

type fiscalYearInput struct {
	Label     string `json:"label" validate:"required,max=50" label:"Label"`
	StartDate string `json:"start_date" validate:"required,dateymd" label:"Start date"`
	EndDate   string `json:"end_date" validate:"required,dateymd" label:"End date"`
}

func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrFiscalYearNotFound):
		httpjson.Error(w, http.StatusNotFound, "fiscal year not found")
	case errors.Is(err, store.ErrFiscalYearLabelInUse):
		httpjson.Error(w, http.StatusConflict, "fiscal year label already in use")
	default:
		h.Log.Error("fiscal year store error", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}

// HandleCreate opens a new fiscal year.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in fiscalYearInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}

	start, _ := time.Parse("2006-01-02", in.StartDate)
	end, _ := time.Parse("2006-01-02", in.EndDate)
	if !end.After(start) {
		httpjson.Error(w, http.StatusBadRequest, "end_date must be after start_date")
		return
	}

	fy := &models.FiscalYear{
		ID:        uuid.New(),
		Label:     strings.TrimSpace(in.Label),
		StartDate: start,
		EndDate:   end,
		CreatedAt: time.Now(),
	}

	if err := h.FiscalYears.Create(r.Context(), fy); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.Audit.AdminAction(r.Context(), r, store.EventFiscalYearCreated, actorID, fy.ID, map[string]string{"label": fy.Label})
	}

	httpjson.Respond(w, http.StatusCreated, fy)
}

// HandleGet returns one fiscal year.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid fiscal year id")
		return
	}

	fy, err := h.FiscalYears.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, fy)
}

type fiscalYearListResponse struct {
	Items []*models.FiscalYear `json:"items"`
}

// HandleList returns all fiscal years, newest first.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.FiscalYears.List(r.Context())
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, fiscalYearListResponse{Items: items})
}

// HandleClose marks a fiscal year closed. Closing twice is a no-op.
func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid fiscal year id")
		return
	}

	if err := h.FiscalYears.Close(r.Context(), id); err != nil {
		h.writeStoreError(w, err)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.Audit.AdminAction(r.Context(), r, store.EventFiscalYearClosed, actorID, id, nil)
	}

	fy, err := h.FiscalYears.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, fy)
}
