package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doccheck/marketplace/internal/access"
	"github.com/doccheck/marketplace/internal/customerror"
	"github.com/doccheck/marketplace/internal/lifecycle"
	"github.com/doccheck/marketplace/internal/middlewares/logger"
	"github.com/doccheck/marketplace/internal/models"
	"github.com/doccheck/marketplace/internal/numbering"
	"github.com/doccheck/marketplace/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultPaymentTimeout = 10 * time.Second

type CheckoutService struct {
	jobs      repository.JobStorageRepositoryI
	quotes    repository.QuoteStorageRepositoryI
	orders    repository.OrderStorageRepositoryI
	users     repository.UserStorageRepositoryI
	checkouts repository.CheckoutStorageRepositoryI
	notifier  NotifierI
	timeout   time.Duration
	now       func() time.Time
}

func NewCheckoutService(
	jobs repository.JobStorageRepositoryI,
	quotes repository.QuoteStorageRepositoryI,
	orders repository.OrderStorageRepositoryI,
	users repository.UserStorageRepositoryI,
	checkouts repository.CheckoutStorageRepositoryI,
	notifier NotifierI,
	timeout time.Duration,
) *CheckoutService {
	if timeout <= 0 {
		timeout = defaultPaymentTimeout
	}
	return &CheckoutService{
		jobs:      jobs,
		quotes:    quotes,
		orders:    orders,
		users:     users,
		checkouts: checkouts,
		notifier:  notifier,
		timeout:   timeout,
		now:       time.Now,
	}
}

// ProcessPayment settles an order with the mock gateway. The payment, the
// order and job status changes and the invoice are written in one
// transaction. Paying an order that is already paid, including a retry with
// the same idempotency key, returns the stored checkout with Replayed set.
func (service *CheckoutService) ProcessPayment(ctx context.Context, caller access.Caller, req models.PaymentRequest) (*models.Checkout, error) {
	ctx, cancel := context.WithTimeout(ctx, service.timeout)
	defer cancel()

	order, err := service.orders.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	job, err := service.jobs.GetByID(ctx, order.JobID)
	if err != nil {
		return nil, err
	}
	if err = access.Authorize(caller, access.Pay, access.ResourceOf(job)); err != nil {
		return nil, err
	}

	switch order.Status {
	case models.OrderPaid:
		return service.replay(ctx, order.ID)
	case models.OrderCancelled:
		return nil, customerror.NewConflictError(fmt.Sprintf("order %s is cancelled", order.OrderNumber))
	}

	quote, err := service.quotes.GetLatestByJobID(ctx, job.ID)
	if err != nil {
		return nil, err
	}
	if quote.ID != order.QuoteID {
		return nil, &customerror.StaleQuoteError{QuoteID: order.QuoteID, LatestID: quote.ID}
	}
	now := service.now().UTC()
	if quote.Expired(now) {
		return nil, &customerror.QuoteExpiredError{QuoteID: quote.ID}
	}
	if err = checkAmount(req, quote); err != nil {
		return nil, err
	}
	if err = lifecycle.Transition(job.Status, models.JobPaid); err != nil {
		return nil, err
	}

	customer, err := service.users.GetUserByID(ctx, order.CustomerID)
	if err != nil {
		return nil, err
	}
	invoiceNumber, err := numbering.InvoiceNumber(now)
	if err != nil {
		return nil, err
	}

	idempotencyKey := req.IdempotencyKey
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	checkout := models.Checkout{
		Payment: models.Payment{
			ID:                   uuid.NewString(),
			OrderID:              order.ID,
			Gateway:              models.MockGateway,
			GatewayTransactionID: "mock_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
			Amount:               quote.Total,
			Currency:             quote.Currency,
			Status:               models.PaymentCompleted,
			IdempotencyKey:       idempotencyKey,
			PaidAt:               &now,
			CreatedAt:            now,
		},
		Invoice: models.Invoice{
			ID:            uuid.NewString(),
			OrderID:       order.ID,
			InvoiceNumber: invoiceNumber,
			CustomerName:  customer.FullName(),
			CustomerEmail: customer.Email,
			Subtotal:      quote.Subtotal,
			VatAmount:     quote.VatAmount,
			Total:         quote.Total,
			Currency:      quote.Currency,
			IssuedAt:      now,
		},
	}

	err = service.checkouts.Complete(ctx, job.ID, &checkout)
	if err != nil {
		var unique *customerror.UniqueViolationError
		var conflict *customerror.ConflictError
		if errors.As(err, &unique) || errors.As(err, &conflict) {
			// A concurrent request with the same key or for the same order won.
			if replayed, replayErr := service.replay(ctx, order.ID); replayErr == nil {
				return replayed, nil
			}
		}
		return nil, err
	}

	logger.Log.Info("payment completed",
		zap.String("order_id", order.ID),
		zap.String("payment_id", checkout.Payment.ID),
		zap.String("invoice_number", checkout.Invoice.InvoiceNumber),
	)
	service.notifier.Notify(ctx, order.CustomerID, models.NotificationPaymentReceived,
		"Payment received", fmt.Sprintf("Order %s is paid. Invoice %s has been issued.", order.OrderNumber, invoiceNumber))

	return &checkout, nil
}

func (service *CheckoutService) replay(ctx context.Context, orderID string) (*models.Checkout, error) {
	checkout, err := service.checkouts.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	checkout.Replayed = true
	return checkout, nil
}

func checkAmount(req models.PaymentRequest, quote *models.Quote) error {
	fields := map[string]string{}
	if !req.Amount.Equal(quote.Total) {
		fields["amount"] = fmt.Sprintf("must equal the quoted total %s", quote.Total.StringFixed(2))
	}
	if req.Currency != quote.Currency {
		fields["currency"] = fmt.Sprintf("must equal the quoted currency %s", quote.Currency)
	}
	if len(fields) > 0 {
		return customerror.NewValidationError(fields)
	}
	return nil
}
