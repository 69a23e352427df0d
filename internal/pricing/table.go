package pricing

import (
	"fmt"
	"os"
	"time"

	"github.com/doccheck/marketplace/internal/models"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Table holds every constant the calculator needs. Prices are in
// models.BaseCurrency.
type Table struct {
	Rates         map[models.ServiceType]decimal.Decimal `json:"rates"`
	DefaultRate   decimal.Decimal                        `json:"defaultRate"`
	Multipliers   map[models.Turnaround]decimal.Decimal  `json:"multipliers"`
	ExchangeRates map[models.Currency]decimal.Decimal    `json:"exchangeRates"`
	MinPrice      decimal.Decimal                        `json:"minPrice"`
	VatRate       decimal.Decimal                        `json:"vatRate"`
	Validity      time.Duration                          `json:"-"`
}

func DefaultTable() Table {
	return Table{
		Rates: map[models.ServiceType]decimal.Decimal{
			models.ServiceProofreading: decimal.RequireFromString("0.08"),
			models.ServiceEditing:      decimal.RequireFromString("0.15"),
			models.ServiceFormatting:   decimal.RequireFromString("0.10"),
		},
		DefaultRate: decimal.RequireFromString("0.10"),
		Multipliers: map[models.Turnaround]decimal.Decimal{
			models.Turnaround24h:   decimal.RequireFromString("2.0"),
			models.Turnaround48h:   decimal.RequireFromString("1.5"),
			models.Turnaround72h:   decimal.RequireFromString("1.25"),
			models.Turnaround1Week: decimal.RequireFromString("1.0"),
		},
		ExchangeRates: map[models.Currency]decimal.Decimal{
			models.CurrencyZAR: decimal.NewFromInt(1),
			models.CurrencyUSD: decimal.RequireFromString("0.055"),
			models.CurrencyEUR: decimal.RequireFromString("0.050"),
			models.CurrencyGBP: decimal.RequireFromString("0.043"),
		},
		MinPrice: decimal.NewFromInt(50),
		VatRate:  decimal.RequireFromString("0.15"),
		Validity: 24 * time.Hour,
	}
}

type tableFile struct {
	Rates         map[string]string `yaml:"rates"`
	DefaultRate   string            `yaml:"default_rate"`
	Multipliers   map[string]string `yaml:"multipliers"`
	ExchangeRates map[string]string `yaml:"exchange_rates"`
	MinPrice      string            `yaml:"min_price"`
	VatRate       string            `yaml:"vat_rate"`
	Validity      string            `yaml:"validity"`
}

// LoadTable reads a YAML pricing file. Keys missing from the file keep
// their DefaultTable values. An empty path returns the defaults.
func LoadTable(path string) (Table, error) {
	table := DefaultTable()
	if path == "" {
		return table, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return table, fmt.Errorf("read pricing file: %w", err)
	}
	return ParseTable(data)
}

func ParseTable(data []byte) (Table, error) {
	table := DefaultTable()

	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return table, fmt.Errorf("parse pricing file: %w", err)
	}

	for key, raw := range file.Rates {
		service := models.ServiceType(key)
		if !service.Valid() {
			return table, fmt.Errorf("unknown service type %q", key)
		}
		value, err := parsePositive("rates."+key, raw)
		if err != nil {
			return table, err
		}
		table.Rates[service] = value
	}

	for key, raw := range file.Multipliers {
		turnaround := models.Turnaround(key)
		if !turnaround.Valid() {
			return table, fmt.Errorf("unknown turnaround %q", key)
		}
		value, err := parsePositive("multipliers."+key, raw)
		if err != nil {
			return table, err
		}
		table.Multipliers[turnaround] = value
	}

	for key, raw := range file.ExchangeRates {
		currency := models.Currency(key)
		if !currency.Valid() {
			return table, fmt.Errorf("unknown currency %q", key)
		}
		value, err := parsePositive("exchange_rates."+key, raw)
		if err != nil {
			return table, err
		}
		table.ExchangeRates[currency] = value
	}

	scalars := []struct {
		name   string
		raw    string
		target *decimal.Decimal
	}{
		{"default_rate", file.DefaultRate, &table.DefaultRate},
		{"min_price", file.MinPrice, &table.MinPrice},
		{"vat_rate", file.VatRate, &table.VatRate},
	}
	for _, s := range scalars {
		if s.raw == "" {
			continue
		}
		value, err := decimal.NewFromString(s.raw)
		if err != nil || value.IsNegative() {
			return table, fmt.Errorf("invalid %s %q", s.name, s.raw)
		}
		*s.target = value
	}

	if file.Validity != "" {
		validity, err := time.ParseDuration(file.Validity)
		if err != nil || validity <= 0 {
			return table, fmt.Errorf("invalid validity %q", file.Validity)
		}
		table.Validity = validity
	}

	return table, nil
}

func parsePositive(name, raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil || !value.IsPositive() {
		return decimal.Zero, fmt.Errorf("invalid %s %q", name, raw)
	}
	return value, nil
}
