package repository

import (
	"context"

	"github.com/doccheck/marketplace/internal/config/db"
	"github.com/doccheck/marketplace/internal/customerror"
	"github.com/doccheck/marketplace/internal/models"
	"github.com/doccheck/marketplace/internal/retry"
)

type NotificationRepository struct {
	db *db.DB
}

type NotificationStorageRepositoryI interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetListByUserID(ctx context.Context, userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

func NewNotificationRepository(dbObj *db.DB) *NotificationRepository {
	return &NotificationRepository{db: dbObj}
}

func (repository *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	query := `INSERT INTO notifications (id, user_id, type, title, message, is_read, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	err := retry.DoRetry(ctx, func() error {
		_, err := repository.db.Pool.Exec(
			ctx,
			query,
			notification.ID,
			notification.UserID,
			notification.Type,
			notification.Title,
			notification.Message,
			notification.IsRead,
			notification.CreatedAt,
		)
		return err
	})
	return mapError(err, "notification", notification.ID)
}

func (repository *NotificationRepository) GetListByUserID(ctx context.Context, userID string) ([]models.Notification, error) {
	query := `SELECT id, user_id, type, title, message, is_read, created_at FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`
	result, err := retry.DoRetryWithResult(ctx, func() ([]models.Notification, error) {
		rows, err := repository.db.Pool.Query(ctx, query, userID)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		notifications := []models.Notification{}
		for rows.Next() {
			var n models.Notification
			err = rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt)
			if err != nil {
				return nil, err
			}
			notifications = append(notifications, n)
		}

		return notifications, rows.Err()
	})
	return result, mapError(err, "notifications of user", userID)
}

// MarkRead only touches notifications that belong to userID.
func (repository *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`
	err := retry.DoRetry(ctx, func() error {
		row, err := repository.db.Pool.Exec(ctx, query, id, userID)
		if err != nil {
			return err
		}
		if row.RowsAffected() == 0 {
			return customerror.NewNotFoundError("notification", id)
		}
		return nil
	})
	return mapError(err, "notification", id)
}
