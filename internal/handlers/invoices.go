package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/doccheck/marketplace/internal/access"
	"github.com/doccheck/marketplace/internal/middlewares/logger"
	"github.com/doccheck/marketplace/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type InvoiceServiceI interface {
	GetInvoice(ctx context.Context, caller access.Caller, orderID string) (*models.Invoice, error)
	GetInvoicePDF(ctx context.Context, caller access.Caller, orderID string) ([]byte, *models.Invoice, error)
}

type InvoicesHandler struct {
	service InvoiceServiceI
}

func NewInvoicesHandler(service InvoiceServiceI) *InvoicesHandler {
	return &InvoicesHandler{service: service}
}

func (h *InvoicesHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		unauthorized(w)
		return
	}

	invoice, err := h.service.GetInvoice(r.Context(), caller, chi.URLParam(r, "orderId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

func (h *InvoicesHandler) PDF(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		unauthorized(w)
		return
	}

	body, invoice, err := h.service.GetInvoicePDF(r.Context(), caller, chi.URLParam(r, "orderId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+invoice.InvoiceNumber+`.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write(body); err != nil {
		logger.Log.Warn("invoice pdf was not sent", zap.Error(err))
	}
}
