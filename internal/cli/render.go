package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/doccheck/marketplace/internal/models"
	"github.com/doccheck/marketplace/internal/pricing"
	"github.com/shopspring/decimal"
)

var (
	accent  = lipgloss.Color("#2563EB")
	dim     = lipgloss.Color("#6B7280")
	success = lipgloss.Color("#22C55E")
	danger  = lipgloss.Color("#EF4444")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle   = lipgloss.NewStyle().Foreground(dim).Width(24)
	totalStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(success)
	errorStyle   = lipgloss.NewStyle().Foreground(danger).Bold(true)
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2)
)

func renderBreakdown(service models.ServiceType, turnaround models.Turnaround, b pricing.Breakdown) string {
	money := func(d decimal.Decimal) string {
		return d.StringFixed(2) + " " + string(b.Currency)
	}
	line := func(label, value string) string {
		return labelStyle.Render(label) + value
	}

	rows := []string{
		titleStyle.Render(fmt.Sprintf("%s, %d words, %s", service, b.WordCount, turnaround)),
		"",
		line("Base price", money(b.BasePrice)),
		line("Turnaround multiplier", b.TurnaroundMultiplier.String()+"x"),
		line("Subtotal", money(b.Subtotal)),
		line("VAT", money(b.VatAmount)),
		line("Total", totalStyle.Render(money(b.Total))),
		line("Exchange rate", b.ExchangeRate.String()),
		line("Valid until", b.ValidUntil.Format("2006-01-02 15:04 MST")),
	}
	return boxStyle.Render(strings.Join(rows, "\n")) + "\n"
}
