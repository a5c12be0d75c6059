package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeEmail NotificationType = "email"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// Notification records a delivery attempt, e.g. the order-confirmation
// email sent after checkout.
type Notification struct {
	ID        uuid.UUID          `json:"id"`
	UserID    uuid.UUID          `json:"user_id"`
	Type      NotificationType   `json:"type"`
	Recipient string             `json:"recipient"`
	Subject   string             `json:"subject,omitempty"`
	Content   string             `json:"content"`
	Status    NotificationStatus `json:"status"`
	Error     string             `json:"error,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	SentAt    *time.Time         `json:"sent_at,omitempty"`
}

type EmailNotificationRequest struct {
	Recipient string   `json:"recipient" validate:"required,email"`
	Subject   string   `json:"subject" validate:"required"`
	Content   string   `json:"content" validate:"required"`
	CC        []string `json:"cc,omitempty" validate:"omitempty,dive,email"`
	BCC       []string `json:"bcc,omitempty" validate:"omitempty,dive,email"`
}
