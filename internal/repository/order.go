package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/doccheck/marketplace/internal/config/db"
	"github.com/doccheck/marketplace/internal/customerror"
	"github.com/doccheck/marketplace/internal/models"
	"github.com/doccheck/marketplace/internal/retry"
	"github.com/jackc/pgx/v5"
)

type OrderRepository struct {
	db *db.DB
}

type OrderStorageRepositoryI interface {
	Create(ctx context.Context, order *models.Order, jobFrom models.JobStatus) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetListByCustomerID(ctx context.Context, customerID string) ([]models.Order, error)
	SetExpiredForProcessing(ctx context.Context, now time.Time, ch chan<- models.Order) error
	Expire(ctx context.Context, order models.Order) (bool, error)
}

func NewOrderRepository(dbObj *db.DB) *OrderRepository {
	return &OrderRepository{db: dbObj}
}

const orderColumns = `id, job_id, quote_id, customer_id, order_number, status, created_at`

func scanOrder(row scanner) (models.Order, error) {
	order := models.Order{}
	err := row.Scan(
		&order.ID,
		&order.JobID,
		&order.QuoteID,
		&order.CustomerID,
		&order.OrderNumber,
		&order.Status,
		&order.CreatedAt,
	)
	return order, err
}

// Create stores a pending order and moves its job to pending_payment in one
// transaction.
func (repository *OrderRepository) Create(ctx context.Context, order *models.Order, jobFrom models.JobStatus) error {
	query := `INSERT INTO orders (id, job_id, quote_id, customer_id, order_number, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`

	err := inTx(ctx, repository.db, func(tx pgx.Tx) error {
		row, err := tx.Exec(
			ctx,
			query,
			order.ID,
			order.JobID,
			order.QuoteID,
			order.CustomerID,
			order.OrderNumber,
			order.Status,
			order.CreatedAt,
		)
		if err != nil {
			return err
		}
		if row.RowsAffected() == 0 {
			return fmt.Errorf("order %v was not created", order.ID)
		}

		return updateJobStatus(ctx, tx, order.JobID, jobFrom, models.JobPendingPayment)
	})
	return mapError(err, "order", order.OrderNumber)
}

func (repository *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	result, err := retry.DoRetryWithResult(ctx, func() (*models.Order, error) {
		order, err := scanOrder(repository.db.Pool.QueryRow(ctx, query, id))
		if err != nil {
			return nil, err
		}
		return &order, nil
	})
	return result, mapError(err, "order", id)
}

// GetListByCustomerID lists orders newest first. An empty customerID lists
// every order.
func (repository *OrderRepository) GetListByCustomerID(ctx context.Context, customerID string) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	var args []interface{}
	if customerID != "" {
		query += ` WHERE customer_id = $1`
		args = append(args, customerID)
	}
	query += ` ORDER BY created_at DESC`

	result, err := retry.DoRetryWithResult(ctx, func() ([]models.Order, error) {
		rows, err := repository.db.Pool.Query(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		orders := []models.Order{}
		for rows.Next() {
			order, err := scanOrder(rows)
			if err != nil {
				return nil, err
			}
			orders = append(orders, order)
		}

		return orders, rows.Err()
	})
	return result, mapError(err, "orders of customer", customerID)
}

// SetExpiredForProcessing sends every pending order whose quote is no longer
// valid at now to ch.
func (repository *OrderRepository) SetExpiredForProcessing(ctx context.Context, now time.Time, ch chan<- models.Order) error {
	query := `SELECT o.id, o.job_id, o.quote_id, o.customer_id, o.order_number, o.status, o.created_at
		FROM orders o JOIN quotes q ON q.id = o.quote_id
		WHERE o.status = $1 AND q.valid_until <= $2`

	err := retry.DoRetry(ctx, func() error {
		rows, err := repository.db.Pool.Query(ctx, query, models.OrderPending, now)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			order, err := scanOrder(rows)
			if err != nil {
				return err
			}

			select {
			case ch <- order:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		return rows.Err()
	})
	return mapError(err, "orders", "expired")
}

// Expire cancels a pending order. Its job is reopened for quoting only while
// it still awaits payment and has no other pending order; the result reports
// whether that happened.
func (repository *OrderRepository) Expire(ctx context.Context, order models.Order) (bool, error) {
	orderQuery := `UPDATE orders SET status = $1, updated_at = now() WHERE id = $2 AND status = $3`
	jobQuery := `UPDATE jobs SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
			AND NOT EXISTS (SELECT 1 FROM orders WHERE job_id = $2 AND status = $4)`

	var reopened bool
	err := inTx(ctx, repository.db, func(tx pgx.Tx) error {
		row, err := tx.Exec(ctx, orderQuery, models.OrderCancelled, order.ID, models.OrderPending)
		if err != nil {
			return err
		}
		if row.RowsAffected() == 0 {
			return customerror.NewConflictError(fmt.Sprintf("order %v is no longer pending", order.ID))
		}

		row, err = tx.Exec(ctx, jobQuery, models.JobQuoted, order.JobID, models.JobPendingPayment, models.OrderPending)
		if err != nil {
			return err
		}
		reopened = row.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return false, mapError(err, "order", order.ID)
	}
	return reopened, nil
}
