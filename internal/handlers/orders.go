package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/doccheck/marketplace/internal/access"
	"github.com/doccheck/marketplace/internal/customerror"
	"github.com/doccheck/marketplace/internal/handlers/schemas"
	"github.com/doccheck/marketplace/internal/models"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type OrderServiceI interface {
	CreateOrder(ctx context.Context, caller access.Caller, jobID, quoteID string) (*models.Order, error)
	ListOrders(ctx context.Context, caller access.Caller) ([]models.Order, error)
}

type CheckoutServiceI interface {
	ProcessPayment(ctx context.Context, caller access.Caller, req models.PaymentRequest) (*models.Checkout, error)
}

type OrdersHandler struct {
	orders   OrderServiceI
	checkout CheckoutServiceI
}

func NewOrdersHandler(orders OrderServiceI, checkout CheckoutServiceI) *OrdersHandler {
	return &OrdersHandler{orders: orders, checkout: checkout}
}

func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		unauthorized(w)
		return
	}

	var req schemas.CreateOrderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.JobID == "" {
		writeError(w, r, customerror.NewFieldError("jobId", "is required"))
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), caller, req.JobID, req.QuoteID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		unauthorized(w)
		return
	}

	orders, err := h.orders.ListOrders(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// Pay settles an order with the mock gateway. A replayed payment answers 200
// with the stored checkout, a new one 201.
func (h *OrdersHandler) Pay(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		unauthorized(w)
		return
	}

	var req schemas.PaymentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.OrderID == "" {
		writeError(w, r, customerror.NewFieldError("orderId", "is required"))
		return
	}

	key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	if len(key) > 255 {
		writeError(w, r, customerror.NewFieldError(IdempotencyKeyHeader, "must be at most 255 characters"))
		return
	}

	checkout, err := h.checkout.ProcessPayment(r.Context(), caller, models.PaymentRequest{
		OrderID:        req.OrderID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		IdempotencyKey: key,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusCreated
	if checkout.Replayed {
		status = http.StatusOK
	}
	writeJSON(w, status, checkout)
}
