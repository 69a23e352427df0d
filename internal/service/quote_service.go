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
	"github.com/doccheck/marketplace/internal/pricing"
	"github.com/doccheck/marketplace/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type QuoteService struct {
	jobs       repository.JobStorageRepositoryI
	quotes     repository.QuoteStorageRepositoryI
	calculator *pricing.Calculator
	now        func() time.Time
}

func NewQuoteService(jobs repository.JobStorageRepositoryI, quotes repository.QuoteStorageRepositoryI, calculator *pricing.Calculator) *QuoteService {
	return &QuoteService{jobs: jobs, quotes: quotes, calculator: calculator, now: time.Now}
}

// Calculate prices a job without storing anything. Unknown inputs fall back
// to the calculator defaults.
func (service *QuoteService) Calculate(serviceType models.ServiceType, wordCount int, turnaround models.Turnaround, currency models.Currency) pricing.Breakdown {
	return service.calculator.Calculate(serviceType, wordCount, turnaround, currency, service.now().UTC())
}

func (service *QuoteService) PricingTable() pricing.Table {
	return service.calculator.Table()
}

// CreateQuote prices the job as it is stored now and appends a new quote.
// The job moves to quoted. A job with an order awaiting payment keeps its
// quote until the order is paid or expires.
func (service *QuoteService) CreateQuote(ctx context.Context, caller access.Caller, jobID string, currency models.Currency) (*models.Quote, error) {
	job, err := service.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err = access.Authorize(caller, access.CreateQuote, access.ResourceOf(job)); err != nil {
		return nil, err
	}
	if job.Status == models.JobPendingPayment {
		return nil, customerror.NewConflictError(fmt.Sprintf("job %s has an order awaiting payment", job.ID))
	}
	if currency == "" {
		currency = models.BaseCurrency
	}
	if err = service.calculator.Validate(job.ServiceType, job.WordCount, job.Turnaround, currency); err != nil {
		return nil, err
	}
	if err = lifecycle.Transition(job.Status, models.JobQuoted); err != nil {
		return nil, err
	}

	now := service.now().UTC()
	breakdown := service.calculator.Calculate(job.ServiceType, job.WordCount, job.Turnaround, currency, now)
	quote := models.Quote{
		ID:                   uuid.NewString(),
		JobID:                job.ID,
		ServiceType:          job.ServiceType,
		Turnaround:           job.Turnaround,
		WordCount:            breakdown.WordCount,
		BasePrice:            breakdown.BasePrice,
		TurnaroundMultiplier: breakdown.TurnaroundMultiplier,
		Subtotal:             breakdown.Subtotal,
		VatAmount:            breakdown.VatAmount,
		Total:                breakdown.Total,
		Currency:             breakdown.Currency,
		ExchangeRate:         breakdown.ExchangeRate,
		ValidUntil:           breakdown.ValidUntil,
		CreatedAt:            now,
	}

	if err = service.quotes.Create(ctx, &quote, job.Status); err != nil {
		return nil, err
	}

	logger.Log.Info("quote created",
		zap.String("quote_id", quote.ID),
		zap.String("job_id", job.ID),
		zap.String("total", quote.Total.StringFixed(2)),
		zap.String("currency", string(quote.Currency)),
	)
	return &quote, nil
}

func (service *QuoteService) GetLatestQuote(ctx context.Context, caller access.Caller, jobID string) (*models.Quote, error) {
	job, err := service.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err = access.Authorize(caller, access.ViewJob, access.ResourceOf(job)); err != nil {
		return nil, err
	}
	return service.quotes.GetLatestByJobID(ctx, job.ID)
}
