package schemas

import (
	"github.com/doccheck/marketplace/internal/models"
	"github.com/shopspring/decimal"
)

type CalculateRequest struct {
	ServiceType models.ServiceType `json:"serviceType"`
	WordCount   int                `json:"wordCount"`
	Turnaround  models.Turnaround  `json:"turnaround"`
	Currency    models.Currency    `json:"currency"`
}

type CreateQuoteRequest struct {
	JobID    string          `json:"jobId"`
	Currency models.Currency `json:"currency"`
}

type CreateOrderRequest struct {
	JobID   string `json:"jobId"`
	QuoteID string `json:"quoteId,omitempty"`
}

type PaymentRequest struct {
	OrderID  string          `json:"orderId"`
	Amount   decimal.Decimal `json:"amount"`
	Currency models.Currency `json:"currency"`
}
