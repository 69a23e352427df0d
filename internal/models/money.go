package models

import "github.com/shopspring/decimal"

type Currency string

const (
	CurrencyZAR Currency = "ZAR"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

// BaseCurrency is the currency all prices are defined in.
const BaseCurrency = CurrencyZAR

func (c Currency) Valid() bool {
	switch c {
	case CurrencyZAR, CurrencyUSD, CurrencyEUR, CurrencyGBP:
		return true
	}
	return false
}

// ToCents converts an amount to minor units as stored in the database.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Round(2).Shift(2).IntPart()
}

func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
