package handlers

import (
	"context"
	"net/http"

	"github.com/doccheck/marketplace/internal/access"
	"github.com/doccheck/marketplace/internal/customerror"
	"github.com/doccheck/marketplace/internal/handlers/schemas"
	"github.com/doccheck/marketplace/internal/models"
	"github.com/doccheck/marketplace/internal/pricing"
	"github.com/go-chi/chi/v5"
)

type QuoteServiceI interface {
	Calculate(serviceType models.ServiceType, wordCount int, turnaround models.Turnaround, currency models.Currency) pricing.Breakdown
	PricingTable() pricing.Table
	CreateQuote(ctx context.Context, caller access.Caller, jobID string, currency models.Currency) (*models.Quote, error)
	GetLatestQuote(ctx context.Context, caller access.Caller, jobID string) (*models.Quote, error)
}

type QuotesHandler struct {
	service QuoteServiceI
}

func NewQuotesHandler(service QuoteServiceI) *QuotesHandler {
	return &QuotesHandler{service: service}
}

// Calculate prices a hypothetical job. No session is needed.
func (h *QuotesHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req schemas.CalculateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Currency == "" {
		req.Currency = models.BaseCurrency
	}

	writeJSON(w, http.StatusOK, h.service.Calculate(req.ServiceType, req.WordCount, req.Turnaround, req.Currency))
}

func (h *QuotesHandler) Pricing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.PricingTable())
}

func (h *QuotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		unauthorized(w)
		return
	}

	var req schemas.CreateQuoteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.JobID == "" {
		writeError(w, r, customerror.NewFieldError("jobId", "is required"))
		return
	}

	quote, err := h.service.CreateQuote(r.Context(), caller, req.JobID, req.Currency)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, quote)
}

func (h *QuotesHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		unauthorized(w)
		return
	}

	quote, err := h.service.GetLatestQuote(r.Context(), caller, chi.URLParam(r, "jobId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}
