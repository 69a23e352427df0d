package models

import "time"

type NotificationType string

const (
	NotificationJobAssigned       NotificationType = "job_assigned"
	NotificationPaymentReceived   NotificationType = "payment_received"
	NotificationJobCompleted      NotificationType = "job_completed"
	NotificationRevisionRequested NotificationType = "revision_requested"
	NotificationJobDisputed       NotificationType = "job_disputed"
	NotificationOrderExpired      NotificationType = "order_expired"
)

type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"isRead"`
	CreatedAt time.Time        `json:"createdAt"`
}
