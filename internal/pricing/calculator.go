// Package pricing turns a job description into a price breakdown.
//
// Prices are computed in the base currency (ZAR): per-word rate times word
// count, times the turnaround multiplier, floored at the minimum price, plus
// VAT. The result is then converted to the requested currency with a fixed
// exchange rate. Unknown service types, turnarounds and currencies fall back
// to the default rate, a 1.0 multiplier and a 1.0 exchange rate.
package pricing

import (
	"time"

	"github.com/doccheck/marketplace/internal/customerror"
	"github.com/doccheck/marketplace/internal/models"
	"github.com/shopspring/decimal"
)

type Breakdown struct {
	WordCount            int             `json:"wordCount"`
	BasePrice            decimal.Decimal `json:"basePrice"`
	TurnaroundMultiplier decimal.Decimal `json:"turnaroundMultiplier"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	VatAmount            decimal.Decimal `json:"vatAmount"`
	Total                decimal.Decimal `json:"total"`
	Currency             models.Currency `json:"currency"`
	ExchangeRate         decimal.Decimal `json:"exchangeRate"`
	ValidUntil           time.Time       `json:"validUntil"`
}

type Calculator struct {
	table Table
}

func NewCalculator(table Table) *Calculator {
	return &Calculator{table: table}
}

func (c *Calculator) Table() Table {
	return c.table
}

// Calculate never fails. Monetary fields are rounded to cents after
// conversion and Total is the sum of the rounded Subtotal and VatAmount.
func (c *Calculator) Calculate(
	serviceType models.ServiceType,
	wordCount int,
	turnaround models.Turnaround,
	currency models.Currency,
	now time.Time,
) Breakdown {
	if wordCount < 0 {
		wordCount = 0
	}

	rate, ok := c.table.Rates[serviceType]
	if !ok {
		rate = c.table.DefaultRate
	}

	multiplier, ok := c.table.Multipliers[turnaround]
	if !ok {
		multiplier = decimal.NewFromInt(1)
	}

	exchangeRate, ok := c.table.ExchangeRates[currency]
	if !ok {
		exchangeRate = decimal.NewFromInt(1)
	}

	basePrice := decimal.NewFromInt(int64(wordCount)).Mul(rate)
	subtotal := decimal.Max(basePrice.Mul(multiplier), c.table.MinPrice)
	vatAmount := subtotal.Mul(c.table.VatRate)

	convertedSubtotal := subtotal.Mul(exchangeRate).Round(2)
	convertedVat := vatAmount.Mul(exchangeRate).Round(2)

	return Breakdown{
		WordCount:            wordCount,
		BasePrice:            basePrice.Mul(exchangeRate).Round(2),
		TurnaroundMultiplier: multiplier,
		Subtotal:             convertedSubtotal,
		VatAmount:            convertedVat,
		Total:                convertedSubtotal.Add(convertedVat),
		Currency:             currency,
		ExchangeRate:         exchangeRate,
		ValidUntil:           now.Add(c.table.Validity),
	}
}

// Validate rejects inputs that Calculate would silently default.
func (c *Calculator) Validate(serviceType models.ServiceType, wordCount int, turnaround models.Turnaround, currency models.Currency) error {
	fields := map[string]string{}
	if !serviceType.Valid() {
		fields["serviceType"] = "unknown service type"
	}
	if wordCount < 0 {
		fields["wordCount"] = "must not be negative"
	}
	if !turnaround.Valid() {
		fields["turnaround"] = "unknown turnaround"
	}
	if _, ok := c.table.ExchangeRates[currency]; !ok {
		fields["currency"] = "unsupported currency"
	}

	if len(fields) > 0 {
		return customerror.NewValidationError(fields)
	}
	return nil
}

var defaultCalculator = NewCalculator(DefaultTable())

// Calculate prices a job with the default table.
func Calculate(serviceType models.ServiceType, wordCount int, turnaround models.Turnaround, currency models.Currency, now time.Time) Breakdown {
	return defaultCalculator.Calculate(serviceType, wordCount, turnaround, currency, now)
}
