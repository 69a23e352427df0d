package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doccheck/marketplace/internal/customerror"
	"github.com/doccheck/marketplace/internal/middlewares/logger"
	"github.com/doccheck/marketplace/internal/models"
	"github.com/doccheck/marketplace/internal/repository"
	"go.uber.org/zap"
)

const (
	expiryQueueSize       = 100
	defaultExpiryInterval = time.Minute
)

// ExpiryService cancels pending orders whose quote ran out before payment
// and reopens their jobs for quoting when nothing else moved them on.
type ExpiryService struct {
	orders   repository.OrderStorageRepositoryI
	notifier NotifierI
	now      func() time.Time
}

func NewExpiryService(orders repository.OrderStorageRepositoryI, notifier NotifierI) *ExpiryService {
	return &ExpiryService{orders: orders, notifier: notifier, now: time.Now}
}

// Run sweeps for expired orders every interval until ctx is done.
func (service *ExpiryService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultExpiryInterval
	}
	ordersForExpiry := make(chan models.Order, expiryQueueSize)
	done := make(chan struct{})
	go func() {
		defer close(done)
		service.ExpireOrders(ctx, ordersForExpiry)
	}()

	ticker := time.NewTicker(interval)
	defer func() {
		ticker.Stop()
		close(ordersForExpiry)
		<-done
	}()

	service.AddExpiredOrders(ctx, ordersForExpiry)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			service.AddExpiredOrders(ctx, ordersForExpiry)
		}
	}
}

func (service *ExpiryService) AddExpiredOrders(ctx context.Context, ordersForExpiry chan models.Order) {
	err := service.orders.SetExpiredForProcessing(ctx, service.now().UTC(), ordersForExpiry)
	if err != nil && ctx.Err() == nil {
		logger.Log.Warn("expired orders were not loaded", zap.Error(err))
	}
}

func (service *ExpiryService) ExpireOrders(ctx context.Context, ordersForExpiry chan models.Order) {
	for order := range ordersForExpiry {
		if ctx.Err() != nil {
			continue
		}
		reopened, err := service.orders.Expire(ctx, order)
		if err != nil {
			var conflict *customerror.ConflictError
			if errors.As(err, &conflict) {
				// Paid or cancelled since it was queued.
				logger.Log.Debug("order changed before expiry", zap.String("order_id", order.ID))
				continue
			}
			logger.Log.Warn("order was not expired", zap.String("order_id", order.ID), zap.Error(err))
			continue
		}

		logger.Log.Info("order expired",
			zap.String("order_id", order.ID),
			zap.String("job_id", order.JobID),
			zap.Bool("job_reopened", reopened),
		)
		message := fmt.Sprintf("Order %s was cancelled because its quote expired.", order.OrderNumber)
		if reopened {
			message += " Request a new quote to continue."
		}
		service.notifier.Notify(ctx, order.CustomerID, models.NotificationOrderExpired, "Quote expired", message)
	}
}
