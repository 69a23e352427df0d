package repository

import (
	"context"
	"fmt"

	"github.com/doccheck/marketplace/internal/config/db"
	"github.com/doccheck/marketplace/internal/customerror"
	"github.com/doccheck/marketplace/internal/models"
	"github.com/doccheck/marketplace/internal/retry"
	"github.com/jackc/pgx/v5"
)

// CheckoutRepository owns payments and invoices. They are only ever written
// together.
type CheckoutRepository struct {
	db *db.DB
}

type CheckoutStorageRepositoryI interface {
	Complete(ctx context.Context, jobID string, checkout *models.Checkout) error
	GetByOrderID(ctx context.Context, orderID string) (*models.Checkout, error)
	GetInvoiceByOrderID(ctx context.Context, orderID string) (*models.Invoice, error)
	SetInvoicePdfPath(ctx context.Context, invoiceID, path string) error
}

func NewCheckoutRepository(dbObj *db.DB) *CheckoutRepository {
	return &CheckoutRepository{db: dbObj}
}

// Complete records a successful payment: the payment row, the order and job
// moving to paid, and the invoice. Either everything is written or nothing.
func (repository *CheckoutRepository) Complete(ctx context.Context, jobID string, checkout *models.Checkout) error {
	paymentQuery := `INSERT INTO payments (id, order_id, gateway, gateway_transaction_id, amount, currency, status, idempotency_key, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	orderQuery := `UPDATE orders SET status = $1, updated_at = now() WHERE id = $2 AND status = $3`
	invoiceQuery := `INSERT INTO invoices (id, order_id, invoice_number, customer_name, customer_email, subtotal, vat_amount, total, currency, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	payment := &checkout.Payment
	invoice := &checkout.Invoice

	err := inTx(ctx, repository.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(
			ctx,
			paymentQuery,
			payment.ID,
			payment.OrderID,
			payment.Gateway,
			payment.GatewayTransactionID,
			models.ToCents(payment.Amount),
			payment.Currency,
			payment.Status,
			payment.IdempotencyKey,
			payment.PaidAt,
			payment.CreatedAt,
		)
		if err != nil {
			return err
		}

		row, err := tx.Exec(ctx, orderQuery, models.OrderPaid, payment.OrderID, models.OrderPending)
		if err != nil {
			return err
		}
		if row.RowsAffected() == 0 {
			return customerror.NewConflictError(fmt.Sprintf("order %v is no longer pending", payment.OrderID))
		}

		if err = updateJobStatus(ctx, tx, jobID, models.JobPendingPayment, models.JobPaid); err != nil {
			return err
		}

		_, err = tx.Exec(
			ctx,
			invoiceQuery,
			invoice.ID,
			invoice.OrderID,
			invoice.InvoiceNumber,
			invoice.CustomerName,
			invoice.CustomerEmail,
			models.ToCents(invoice.Subtotal),
			models.ToCents(invoice.VatAmount),
			models.ToCents(invoice.Total),
			invoice.Currency,
			invoice.IssuedAt,
		)
		return err
	})
	return mapError(err, "payment for order", payment.OrderID)
}

const invoiceColumns = `id, order_id, invoice_number, customer_name, customer_email, subtotal, vat_amount, total, currency, issued_at, pdf_path`

func scanInvoice(row scanner) (*models.Invoice, error) {
	var (
		invoice                    models.Invoice
		subtotal, vatAmount, total int64
	)
	err := row.Scan(
		&invoice.ID,
		&invoice.OrderID,
		&invoice.InvoiceNumber,
		&invoice.CustomerName,
		&invoice.CustomerEmail,
		&subtotal,
		&vatAmount,
		&total,
		&invoice.Currency,
		&invoice.IssuedAt,
		&invoice.PdfPath,
	)
	if err != nil {
		return nil, err
	}

	invoice.Subtotal = models.FromCents(subtotal)
	invoice.VatAmount = models.FromCents(vatAmount)
	invoice.Total = models.FromCents(total)
	return &invoice, nil
}

// GetByOrderID returns the completed payment of an order with its invoice.
func (repository *CheckoutRepository) GetByOrderID(ctx context.Context, orderID string) (*models.Checkout, error) {
	paymentQuery := `SELECT id, order_id, gateway, gateway_transaction_id, amount, currency, status, idempotency_key, paid_at, created_at
		FROM payments WHERE order_id = $1 AND status = $2 ORDER BY created_at LIMIT 1`
	invoiceQuery := `SELECT ` + invoiceColumns + ` FROM invoices WHERE order_id = $1`

	result, err := retry.DoRetryWithResult(ctx, func() (*models.Checkout, error) {
		checkout := models.Checkout{}
		payment := &checkout.Payment

		var amount int64
		err := repository.db.Pool.QueryRow(ctx, paymentQuery, orderID, models.PaymentCompleted).Scan(
			&payment.ID,
			&payment.OrderID,
			&payment.Gateway,
			&payment.GatewayTransactionID,
			&amount,
			&payment.Currency,
			&payment.Status,
			&payment.IdempotencyKey,
			&payment.PaidAt,
			&payment.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		payment.Amount = models.FromCents(amount)

		invoice, err := scanInvoice(repository.db.Pool.QueryRow(ctx, invoiceQuery, orderID))
		if err != nil {
			return nil, err
		}
		checkout.Invoice = *invoice

		return &checkout, nil
	})
	return result, mapError(err, "payment for order", orderID)
}

func (repository *CheckoutRepository) GetInvoiceByOrderID(ctx context.Context, orderID string) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE order_id = $1`
	result, err := retry.DoRetryWithResult(ctx, func() (*models.Invoice, error) {
		return scanInvoice(repository.db.Pool.QueryRow(ctx, query, orderID))
	})
	return result, mapError(err, "invoice for order", orderID)
}

func (repository *CheckoutRepository) SetInvoicePdfPath(ctx context.Context, invoiceID, path string) error {
	query := `UPDATE invoices SET pdf_path = $1 WHERE id = $2`
	err := retry.DoRetry(ctx, func() error {
		row, err := repository.db.Pool.Exec(ctx, query, path, invoiceID)
		if err != nil {
			return err
		}
		if row.RowsAffected() == 0 {
			return customerror.NewNotFoundError("invoice", invoiceID)
		}
		return nil
	})
	return mapError(err, "invoice", invoiceID)
}
