package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/doccheck/marketplace/internal/config/db"
	"github.com/doccheck/marketplace/internal/customerror"
	"github.com/doccheck/marketplace/internal/models"
	"github.com/doccheck/marketplace/internal/retry"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type JobRepository struct {
	db *db.DB
}

// JobFilter narrows List. Empty fields do not filter.
type JobFilter struct {
	CustomerID string
	ReviewerID string
	Status     models.JobStatus
	Unassigned bool
}

type JobStorageRepositoryI interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id string) (*models.Job, error)
	List(ctx context.Context, filter JobFilter) ([]models.Job, error)
	UpdateStatus(ctx context.Context, id string, from, to models.JobStatus) error
	Assign(ctx context.Context, id, reviewerID string, from models.JobStatus) error
	Update(ctx context.Context, job *models.Job, from models.JobStatus) error
	SetWordCount(ctx context.Context, id string, wordCount int) error
	Stats(ctx context.Context) (models.JobStats, error)
}

func NewJobRepository(dbObj *db.DB) *JobRepository {
	return &JobRepository{db: dbObj}
}

const jobColumns = `id, customer_id, reviewer_id, service_type, turnaround, status, title, instructions, word_count, deadline, completed_at, created_at, updated_at`

func scanJob(row scanner) (models.Job, error) {
	job := models.Job{}
	err := row.Scan(
		&job.ID,
		&job.CustomerID,
		&job.ReviewerID,
		&job.ServiceType,
		&job.Turnaround,
		&job.Status,
		&job.Title,
		&job.Instructions,
		&job.WordCount,
		&job.Deadline,
		&job.CompletedAt,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	return job, err
}

func (repository *JobRepository) Create(ctx context.Context, job *models.Job) error {
	query := `INSERT INTO jobs (id, customer_id, service_type, turnaround, status, title, instructions, word_count, deadline, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`

	err := retry.DoRetry(ctx, func() error {
		row, err := repository.db.Pool.Exec(
			ctx,
			query,
			job.ID,
			job.CustomerID,
			job.ServiceType,
			job.Turnaround,
			job.Status,
			job.Title,
			job.Instructions,
			job.WordCount,
			job.Deadline,
			job.CreatedAt,
		)
		if err != nil {
			return err
		}
		if row.RowsAffected() == 0 {
			return fmt.Errorf("job %v was not created", job.ID)
		}
		return nil
	})
	return mapError(err, "job", job.ID)
}

func (repository *JobRepository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	result, err := retry.DoRetryWithResult(ctx, func() (*models.Job, error) {
		job, err := scanJob(repository.db.Pool.QueryRow(ctx, query, id))
		if err != nil {
			return nil, err
		}
		return &job, nil
	})
	return result, mapError(err, "job", id)
}

func (repository *JobRepository) List(ctx context.Context, filter JobFilter) ([]models.Job, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if filter.ReviewerID != "" {
		args = append(args, filter.ReviewerID)
		conditions = append(conditions, fmt.Sprintf("reviewer_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Unassigned {
		conditions = append(conditions, "reviewer_id IS NULL")
	}

	query := `SELECT ` + jobColumns + ` FROM jobs`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	result, err := retry.DoRetryWithResult(ctx, func() ([]models.Job, error) {
		rows, err := repository.db.Pool.Query(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		jobs := []models.Job{}
		for rows.Next() {
			job, err := scanJob(rows)
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, job)
		}

		return jobs, rows.Err()
	})
	return result, mapError(err, "jobs", "list")
}

// UpdateStatus moves a job from one status to another. It fails with a
// ConflictError when the job is no longer in status from. Cancelling a job
// also cancels its pending orders.
func (repository *JobRepository) UpdateStatus(ctx context.Context, id string, from, to models.JobStatus) error {
	if to == models.JobCancelled {
		return repository.cancel(ctx, id, from)
	}
	err := retry.DoRetry(ctx, func() error {
		return updateJobStatus(ctx, repository.db.Pool, id, from, to)
	})
	return mapError(err, "job", id)
}

func (repository *JobRepository) cancel(ctx context.Context, id string, from models.JobStatus) error {
	query := `UPDATE orders SET status = $1, updated_at = now() WHERE job_id = $2 AND status = $3`
	err := inTx(ctx, repository.db, func(tx pgx.Tx) error {
		if err := updateJobStatus(ctx, tx, id, from, models.JobCancelled); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, query, models.OrderCancelled, id, models.OrderPending)
		return err
	})
	return mapError(err, "job", id)
}

func updateJobStatus(ctx context.Context, q querier, id string, from, to models.JobStatus) error {
	query := `UPDATE jobs SET status = $1,
			completed_at = CASE WHEN $4 THEN now() ELSE completed_at END,
			updated_at = now()
		WHERE id = $2 AND status = $3`

	row, err := q.Exec(ctx, query, to, id, from, to == models.JobCompleted)
	if err != nil {
		return err
	}
	if row.RowsAffected() == 0 {
		return customerror.NewConflictError(fmt.Sprintf("job %v is no longer %s", id, from))
	}
	return nil
}

func (repository *JobRepository) Assign(ctx context.Context, id, reviewerID string, from models.JobStatus) error {
	query := `UPDATE jobs SET reviewer_id = $1, status = $2, updated_at = now() WHERE id = $3 AND status = $4`
	err := retry.DoRetry(ctx, func() error {
		row, err := repository.db.Pool.Exec(ctx, query, reviewerID, models.JobAssigned, id, from)
		if err != nil {
			return err
		}
		if row.RowsAffected() == 0 {
			return customerror.NewConflictError(fmt.Sprintf("job %v is no longer %s", id, from))
		}
		return nil
	})
	return mapError(err, "job", id)
}

// Update writes the editable fields of a job that is still in status from.
func (repository *JobRepository) Update(ctx context.Context, job *models.Job, from models.JobStatus) error {
	query := `UPDATE jobs SET service_type = $1, turnaround = $2, word_count = $3, title = $4, instructions = $5, deadline = $6, updated_at = $7
		WHERE id = $8 AND status = $9`

	err := retry.DoRetry(ctx, func() error {
		row, err := repository.db.Pool.Exec(
			ctx,
			query,
			job.ServiceType,
			job.Turnaround,
			job.WordCount,
			job.Title,
			job.Instructions,
			job.Deadline,
			job.UpdatedAt,
			job.ID,
			from,
		)
		if err != nil {
			return err
		}
		if row.RowsAffected() == 0 {
			return customerror.NewConflictError(fmt.Sprintf("job %v is no longer %s", job.ID, from))
		}
		return nil
	})
	return mapError(err, "job", job.ID)
}

// SetWordCount updates the word count while the job can still be priced.
func (repository *JobRepository) SetWordCount(ctx context.Context, id string, wordCount int) error {
	query := `UPDATE jobs SET word_count = $1, updated_at = now() WHERE id = $2 AND status IN ($3, $4)`
	err := retry.DoRetry(ctx, func() error {
		row, err := repository.db.Pool.Exec(ctx, query, wordCount, id, models.JobDraft, models.JobQuoted)
		if err != nil {
			return err
		}
		if row.RowsAffected() == 0 {
			return customerror.NewConflictError(fmt.Sprintf("job %v can no longer be repriced", id))
		}
		return nil
	})
	return mapError(err, "job", id)
}

func (repository *JobRepository) Stats(ctx context.Context) (models.JobStats, error) {
	countQuery := `SELECT
			count(*),
			count(*) FILTER (WHERE status IN ('draft', 'quoted', 'pending_payment', 'paid', 'assigned')),
			count(*) FILTER (WHERE status = 'in_review'),
			count(*) FILTER (WHERE status = 'completed')
		FROM jobs`
	revenueQuery := `SELECT currency, COALESCE(sum(amount), 0)::bigint FROM payments WHERE status = $1 GROUP BY currency`

	result, err := retry.DoRetryWithResult(ctx, func() (models.JobStats, error) {
		stats := models.JobStats{Revenue: map[models.Currency]decimal.Decimal{}}
		err := repository.db.Pool.QueryRow(ctx, countQuery).
			Scan(&stats.Total, &stats.Pending, &stats.InReview, &stats.Completed)
		if err != nil {
			return stats, err
		}

		rows, err := repository.db.Pool.Query(ctx, revenueQuery, models.PaymentCompleted)
		if err != nil {
			return stats, err
		}
		defer rows.Close()

		for rows.Next() {
			var currency models.Currency
			var cents int64
			if err = rows.Scan(&currency, &cents); err != nil {
				return stats, err
			}
			stats.Revenue[currency] = models.FromCents(cents)
		}
		return stats, rows.Err()
	})
	return result, mapError(err, "jobs", "stats")
}
