// Package invoicepdf renders an invoice as a single page A4 document.
package invoicepdf

import (
	"bytes"
	"fmt"

	"github.com/doccheck/marketplace/internal/models"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

type Document struct {
	Invoice     models.Invoice
	OrderNumber string
	Job         models.Job
	Quote       models.Quote
}

const issuer = "DocCheck Proofreading"

func Render(doc Document) ([]byte, error) {
	inv := doc.Invoice

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+inv.InvoiceNumber, true)
	pdf.SetCreator(issuer, true)
	pdf.SetCreationDate(inv.IssuedAt)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, issuer)
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	line(pdf, "Invoice Number", inv.InvoiceNumber)
	line(pdf, "Order Number", doc.OrderNumber)
	line(pdf, "Issued", inv.IssuedAt.Format("2006-01-02"))
	line(pdf, "Bill To", inv.CustomerName)
	line(pdf, "Email", inv.CustomerEmail)
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(110, 8, "Description", "B", 0, "L", false, 0, "")
	pdf.CellFormat(70, 8, "Amount ("+string(inv.Currency)+")", "B", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	description := fmt.Sprintf("%s, %d words, %s turnaround", doc.Job.ServiceType, doc.Quote.WordCount, doc.Job.Turnaround)
	if doc.Job.Title != nil && *doc.Job.Title != "" {
		description = *doc.Job.Title + ": " + description
	}
	row(pdf, description, inv.Subtotal)
	row(pdf, "VAT", inv.VatAmount)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(110, 10, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(70, 10, inv.Total.StringFixed(2), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", inv.InvoiceNumber, err)
	}
	return buf.Bytes(), nil
}

func line(pdf *gofpdf.Fpdf, label, value string) {
	pdf.CellFormat(40, 7, label+":", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
}

func row(pdf *gofpdf.Fpdf, label string, amount decimal.Decimal) {
	pdf.CellFormat(110, 8, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(70, 8, amount.StringFixed(2), "", 1, "R", false, 0, "")
}
