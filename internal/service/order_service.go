package service

import (
	"context"
	"fmt"
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

type OrderService struct {
	jobs   repository.JobStorageRepositoryI
	quotes repository.QuoteStorageRepositoryI
	orders repository.OrderStorageRepositoryI
	now    func() time.Time
}

func NewOrderService(jobs repository.JobStorageRepositoryI, quotes repository.QuoteStorageRepositoryI, orders repository.OrderStorageRepositoryI) *OrderService {
	return &OrderService{jobs: jobs, quotes: quotes, orders: orders, now: time.Now}
}

// CreateOrder orders the job at its latest quote. quoteID is optional; when
// given it must still be the latest quote. The quote must have been priced
// from the job as it is stored now.
func (service *OrderService) CreateOrder(ctx context.Context, caller access.Caller, jobID, quoteID string) (*models.Order, error) {
	job, err := service.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err = access.Authorize(caller, access.CreateOrder, access.ResourceOf(job)); err != nil {
		return nil, err
	}
	if err = lifecycle.Transition(job.Status, models.JobPendingPayment); err != nil {
		return nil, err
	}

	quote, err := service.quotes.GetLatestByJobID(ctx, job.ID)
	if err != nil {
		return nil, err
	}
	if quoteID != "" && quoteID != quote.ID {
		return nil, &customerror.StaleQuoteError{QuoteID: quoteID, LatestID: quote.ID}
	}
	if !quote.Prices(job) {
		return nil, customerror.NewConflictError(fmt.Sprintf("job %s changed after quote %s; request a new quote", job.ID, quote.ID))
	}

	now := service.now().UTC()
	if quote.Expired(now) {
		return nil, &customerror.QuoteExpiredError{QuoteID: quote.ID}
	}

	orderNumber, err := numbering.OrderNumber(now)
	if err != nil {
		return nil, err
	}

	order := models.Order{
		ID:          uuid.NewString(),
		JobID:       job.ID,
		QuoteID:     quote.ID,
		CustomerID:  job.CustomerID,
		OrderNumber: orderNumber,
		Status:      models.OrderPending,
		CreatedAt:   now,
	}
	if err = service.orders.Create(ctx, &order, job.Status); err != nil {
		return nil, err
	}

	logger.Log.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("job_id", job.ID),
	)
	return &order, nil
}

// ListOrders returns every order for admins and the caller's own orders
// otherwise.
func (service *OrderService) ListOrders(ctx context.Context, caller access.Caller) ([]models.Order, error) {
	if caller.Role == models.RoleAdmin {
		return service.orders.GetListByCustomerID(ctx, "")
	}
	return service.orders.GetListByCustomerID(ctx, caller.ID)
}
