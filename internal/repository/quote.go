package repository

import (
	"context"
	"fmt"

	"github.com/doccheck/marketplace/internal/config/db"
	"github.com/doccheck/marketplace/internal/models"
	"github.com/doccheck/marketplace/internal/retry"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type QuoteRepository struct {
	db *db.DB
}

type QuoteStorageRepositoryI interface {
	Create(ctx context.Context, quote *models.Quote, jobFrom models.JobStatus) error
	GetByID(ctx context.Context, id string) (*models.Quote, error)
	GetLatestByJobID(ctx context.Context, jobID string) (*models.Quote, error)
}

func NewQuoteRepository(dbObj *db.DB) *QuoteRepository {
	return &QuoteRepository{db: dbObj}
}

const quoteColumns = `id, job_id, service_type, turnaround, word_count, base_price, turnaround_multiplier::text, subtotal, vat_amount, total, currency, exchange_rate::text, valid_until, created_at`

func scanQuote(row scanner) (*models.Quote, error) {
	var (
		quote                                 models.Quote
		basePrice, subtotal, vatAmount, total int64
		multiplier, exchangeRate              string
	)
	err := row.Scan(
		&quote.ID,
		&quote.JobID,
		&quote.ServiceType,
		&quote.Turnaround,
		&quote.WordCount,
		&basePrice,
		&multiplier,
		&subtotal,
		&vatAmount,
		&total,
		&quote.Currency,
		&exchangeRate,
		&quote.ValidUntil,
		&quote.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	quote.BasePrice = models.FromCents(basePrice)
	quote.Subtotal = models.FromCents(subtotal)
	quote.VatAmount = models.FromCents(vatAmount)
	quote.Total = models.FromCents(total)

	if quote.TurnaroundMultiplier, err = decimal.NewFromString(multiplier); err != nil {
		return nil, fmt.Errorf("quote %v multiplier: %w", quote.ID, err)
	}
	if quote.ExchangeRate, err = decimal.NewFromString(exchangeRate); err != nil {
		return nil, fmt.Errorf("quote %v exchange rate: %w", quote.ID, err)
	}
	return &quote, nil
}

// Create appends a quote and moves the job to quoted in one transaction.
// Quotes are never updated.
func (repository *QuoteRepository) Create(ctx context.Context, quote *models.Quote, jobFrom models.JobStatus) error {
	query := `INSERT INTO quotes (id, job_id, service_type, turnaround, word_count, base_price, turnaround_multiplier, subtotal, vat_amount, total, currency, exchange_rate, valid_until, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9, $10, $11, $12::numeric, $13, $14)`

	err := inTx(ctx, repository.db, func(tx pgx.Tx) error {
		row, err := tx.Exec(
			ctx,
			query,
			quote.ID,
			quote.JobID,
			quote.ServiceType,
			quote.Turnaround,
			quote.WordCount,
			models.ToCents(quote.BasePrice),
			quote.TurnaroundMultiplier.String(),
			models.ToCents(quote.Subtotal),
			models.ToCents(quote.VatAmount),
			models.ToCents(quote.Total),
			quote.Currency,
			quote.ExchangeRate.String(),
			quote.ValidUntil,
			quote.CreatedAt,
		)
		if err != nil {
			return err
		}
		if row.RowsAffected() == 0 {
			return fmt.Errorf("quote %v was not created", quote.ID)
		}

		return updateJobStatus(ctx, tx, quote.JobID, jobFrom, models.JobQuoted)
	})
	return mapError(err, "quote", quote.ID)
}

func (repository *QuoteRepository) GetByID(ctx context.Context, id string) (*models.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE id = $1`
	result, err := retry.DoRetryWithResult(ctx, func() (*models.Quote, error) {
		return scanQuote(repository.db.Pool.QueryRow(ctx, query, id))
	})
	return result, mapError(err, "quote", id)
}

func (repository *QuoteRepository) GetLatestByJobID(ctx context.Context, jobID string) (*models.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE job_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1`
	result, err := retry.DoRetryWithResult(ctx, func() (*models.Quote, error) {
		return scanQuote(repository.db.Pool.QueryRow(ctx, query, jobID))
	})
	return result, mapError(err, "quote for job", jobID)
}
