package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/furstore/fur-store-backend/internal/models"
	"github.com/furstore/fur-store-backend/internal/utils"
	"github.com/google/uuid"
)

type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.NotificationStatus, errMsg string, sentAt *time.Time) error
}

type notificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepo(db *sql.DB) NotificationRepository {
	return &notificationRepository{DB: db}
}

func (r *notificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO notifications (id, user_id, type, recipient, subject, content, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`

	return r.DB.QueryRowContext(dbCtx, query,
		notification.ID, notification.UserID, notification.Type, notification.Recipient,
		notification.Subject, notification.Content, notification.Status).
		Scan(&notification.CreatedAt)
}

func (r *notificationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.NotificationStatus, errMsg string, sentAt *time.Time) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE notifications
		SET status = $1, error = $2, sent_at = $3
		WHERE id = $4
	`

	result, err := r.DB.ExecContext(dbCtx, query, status, errMsg, sentAt, id)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}
