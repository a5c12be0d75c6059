package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	appErrors "github.com/furstore/fur-store-backend/internal/errors"
	"github.com/furstore/fur-store-backend/internal/models"
	repository "github.com/furstore/fur-store-backend/internal/repositories"
	"github.com/furstore/fur-store-backend/pkg/sendgrid"
	"github.com/google/uuid"
)

type NotificationService interface {
	SendOrderConfirmation(ctx context.Context, userID uuid.UUID, order *models.Order) error
}

type notificationService struct {
	repo     repository.NotificationRepository
	userRepo repository.UserRepository
	email    sendgrid.EmailService
}

func NewNotificationService(repo repository.NotificationRepository, userRepo repository.UserRepository, email sendgrid.EmailService) NotificationService {
	return &notificationService{repo: repo, userRepo: userRepo, email: email}
}

// SendOrderConfirmation records and sends the checkout confirmation email.
// The notification row is written first so a delivery failure still leaves
// an auditable record.
func (s *notificationService) SendOrderConfirmation(ctx context.Context, userID uuid.UUID, order *models.Order) error {

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return appErrors.NotFoundError("User not found").WithError(err)
	}

	subject := fmt.Sprintf("Order %s confirmed", order.ID)

	var lines []string
	for _, item := range order.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		lines = append(lines, fmt.Sprintf("- %s x%d", name, item.Quantity))
	}

	content := fmt.Sprintf("Thank you for your order placed at %s.\n\nItems:\n%s\n",
		order.CreatedAt.Format(time.RFC1123), strings.Join(lines, "\n"))

	notification := &models.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      models.NotificationTypeEmail,
		Recipient: user.Email,
		Subject:   subject,
		Content:   content,
		Status:    models.NotificationStatusPending,
	}

	if err := s.repo.CreateNotification(ctx, notification); err != nil {
		return appErrors.DatabaseError("Failed to record notification").WithError(err)
	}

	sendErr := s.email.Send(ctx, &models.EmailNotificationRequest{
		Recipient: user.Email,
		Subject:   subject,
		Content:   content,
	})

	if sendErr != nil {
		if err := s.repo.UpdateStatus(ctx, notification.ID, models.NotificationStatusFailed, sendErr.Error(), nil); err != nil {
			return appErrors.DatabaseError("Failed to update notification").WithError(err)
		}

		return appErrors.ThirdPartyError("Failed to send confirmation email").WithError(sendErr)
	}

	now := time.Now()

	if err := s.repo.UpdateStatus(ctx, notification.ID, models.NotificationStatusSent, "", &now); err != nil {
		return appErrors.DatabaseError("Failed to update notification").WithError(err)
	}

	return nil
}
