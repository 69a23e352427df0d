package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is an immutable, time boxed price offer for a job. A job may
// accumulate several quotes; the most recently created one is authoritative.
type Quote struct {
	ID                   string          `json:"id"`
	JobID                string          `json:"jobId"`
	ServiceType          ServiceType     `json:"serviceType"`
	Turnaround           Turnaround      `json:"turnaround"`
	WordCount            int             `json:"wordCount"`
	BasePrice            decimal.Decimal `json:"basePrice"`
	TurnaroundMultiplier decimal.Decimal `json:"turnaroundMultiplier"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	VatAmount            decimal.Decimal `json:"vatAmount"`
	Total                decimal.Decimal `json:"total"`
	Currency             Currency        `json:"currency"`
	ExchangeRate         decimal.Decimal `json:"exchangeRate"`
	ValidUntil           time.Time       `json:"validUntil"`
	CreatedAt            time.Time       `json:"createdAt"`
}

func (q *Quote) Expired(now time.Time) bool {
	return !now.Before(q.ValidUntil)
}

// Prices reports whether the quote was computed from the job's current
// pricing inputs.
func (q *Quote) Prices(job *Job) bool {
	return q.ServiceType == job.ServiceType &&
		q.Turnaround == job.Turnaround &&
		q.WordCount == job.WordCount
}
