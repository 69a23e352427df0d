package service

import (
	"context"
	"time"

	"github.com/doccheck/marketplace/internal/access"
	"github.com/doccheck/marketplace/internal/middlewares/logger"
	"github.com/doccheck/marketplace/internal/models"
	"github.com/doccheck/marketplace/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NotificationService struct {
	repository repository.NotificationStorageRepositoryI
	now        func() time.Time
}

func NewNotificationService(rep repository.NotificationStorageRepositoryI) *NotificationService {
	return &NotificationService{repository: rep, now: time.Now}
}

// Notify stores a notification for userID. Failures are logged and never
// reach the caller: the action that triggered the notification already
// happened.
func (service *NotificationService) Notify(ctx context.Context, userID string, kind models.NotificationType, title, message string) {
	if userID == "" {
		return
	}

	notification := models.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      kind,
		Title:     title,
		Message:   message,
		CreatedAt: service.now().UTC(),
	}
	if err := service.repository.Create(ctx, &notification); err != nil {
		logger.Log.Warn("notification was not saved",
			zap.String("user_id", userID),
			zap.String("type", string(kind)),
			zap.Error(err),
		)
	}
}

func (service *NotificationService) List(ctx context.Context, caller access.Caller) ([]models.Notification, error) {
	return service.repository.GetListByUserID(ctx, caller.ID)
}

func (service *NotificationService) MarkRead(ctx context.Context, caller access.Caller, id string) error {
	return service.repository.MarkRead(ctx, id, caller.ID)
}
