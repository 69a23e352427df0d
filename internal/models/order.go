package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID          string      `json:"id"`
	JobID       string      `json:"jobId"`
	QuoteID     string      `json:"quoteId"`
	CustomerID  string      `json:"customerId"`
	OrderNumber string      `json:"orderNumber"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentRefunded   PaymentStatus = "refunded"
)

const MockGateway = "mock"

type Payment struct {
	ID                   string          `json:"id"`
	OrderID              string          `json:"orderId"`
	Gateway              string          `json:"gateway"`
	GatewayTransactionID string          `json:"gatewayTransactionId"`
	Amount               decimal.Decimal `json:"amount"`
	Currency             Currency        `json:"currency"`
	Status               PaymentStatus   `json:"status"`
	IdempotencyKey       string          `json:"-"`
	PaidAt               *time.Time      `json:"paidAt,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
}

type Invoice struct {
	ID            string          `json:"id"`
	OrderID       string          `json:"orderId"`
	InvoiceNumber string          `json:"invoiceNumber"`
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	VatAmount     decimal.Decimal `json:"vatAmount"`
	Total         decimal.Decimal `json:"total"`
	Currency      Currency        `json:"currency"`
	IssuedAt      time.Time       `json:"issuedAt"`
	PdfPath       *string         `json:"pdfPath,omitempty"`
}

// Checkout is the outcome of a processed payment.
type Checkout struct {
	Payment Payment `json:"payment"`
	Invoice Invoice `json:"invoice"`
	// Replayed is set when the payment had already been processed and
	// nothing new was written.
	Replayed bool `json:"replayed"`
}

// PaymentRequest is a customer's attempt to pay an order.
type PaymentRequest struct {
	OrderID        string          `json:"orderId"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       Currency        `json:"currency"`
	IdempotencyKey string          `json:"-"`
}
