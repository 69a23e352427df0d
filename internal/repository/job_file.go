package repository

import (
	"context"
	"fmt"

	"github.com/doccheck/marketplace/internal/config/db"
	"github.com/doccheck/marketplace/internal/models"
	"github.com/doccheck/marketplace/internal/retry"
)

type JobFileRepository struct {
	db *db.DB
}

type JobFileStorageRepositoryI interface {
	Create(ctx context.Context, file *models.JobFile) error
	ListByJobID(ctx context.Context, jobID string) ([]models.JobFile, error)
}

func NewJobFileRepository(dbObj *db.DB) *JobFileRepository {
	return &JobFileRepository{db: dbObj}
}

func (repository *JobFileRepository) Create(ctx context.Context, file *models.JobFile) error {
	query := `INSERT INTO job_files (id, job_id, filename, original_name, mime_type, size, storage_path, is_original, estimated_words, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	err := retry.DoRetry(ctx, func() error {
		row, err := repository.db.Pool.Exec(
			ctx,
			query,
			file.ID,
			file.JobID,
			file.Filename,
			file.OriginalName,
			file.MimeType,
			file.Size,
			file.StoragePath,
			file.IsOriginal,
			file.EstimatedWords,
			file.UploadedAt,
		)
		if err != nil {
			return err
		}
		if row.RowsAffected() == 0 {
			return fmt.Errorf("file %v was not stored", file.ID)
		}
		return nil
	})
	return mapError(err, "file", file.ID)
}

func (repository *JobFileRepository) ListByJobID(ctx context.Context, jobID string) ([]models.JobFile, error) {
	query := `SELECT id, job_id, filename, original_name, mime_type, size, storage_path, is_original, estimated_words, uploaded_at
		FROM job_files WHERE job_id = $1 ORDER BY uploaded_at`

	result, err := retry.DoRetryWithResult(ctx, func() ([]models.JobFile, error) {
		rows, err := repository.db.Pool.Query(ctx, query, jobID)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		files := []models.JobFile{}
		for rows.Next() {
			var file models.JobFile
			err = rows.Scan(
				&file.ID,
				&file.JobID,
				&file.Filename,
				&file.OriginalName,
				&file.MimeType,
				&file.Size,
				&file.StoragePath,
				&file.IsOriginal,
				&file.EstimatedWords,
				&file.UploadedAt,
			)
			if err != nil {
				return nil, err
			}
			files = append(files, file)
		}

		return files, rows.Err()
	})
	return result, mapError(err, "files of job", jobID)
}
