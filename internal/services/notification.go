package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/api/middleware"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/errors"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	repository "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/repositories"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/pkg/sendgrid"
	"github.com/google/uuid"
)

const notificationTimeout = 30 * time.Second

type NotificationService interface {
	// NotifyPaymentDecision emails the order owner in the background.
	// Delivery failures are logged and recorded, never returned.
	NotifyPaymentDecision(ctx context.Context, order *models.Order, payment *models.Payment)
	SendEmail(ctx context.Context, orderID int64, req *models.EmailNotificationRequest) (*models.Notification, error)
	ListByOrder(ctx context.Context, orderID int64) ([]*models.Notification, error)
}

type notificationService struct {
	repo         repository.NotificationRepository
	userRepo     repository.UserRepository
	emailService sendgrid.EmailService
}

func NewNotificationService(repo repository.NotificationRepository, userRepo repository.UserRepository, emailService sendgrid.EmailService) NotificationService {
	return &notificationService{repo: repo, userRepo: userRepo, emailService: emailService}
}

func (n *notificationService) NotifyPaymentDecision(ctx context.Context, order *models.Order, payment *models.Payment) {
	ctx = context.WithoutCancel(ctx)
	logger := middleware.LoggerFromContext(ctx).With(slog.Int64("orderId", order.ID))

	go func() {
		ctx, cancel := context.WithTimeout(ctx, notificationTimeout)
		defer cancel()

		user, err := n.userRepo.GetUserByID(ctx, order.UserID)
		if err != nil {
			logger.Warn("Skipping payment notification, order owner not found", slog.Any("error", err))
			return
		}

		if _, err := n.SendEmail(ctx, order.ID, decisionEmail(user, order, payment)); err != nil {
			logger.Warn("Payment notification was not delivered", slog.Any("error", err))
		}
	}()
}

// SendEmail records the notification, sends it and stores the outcome.
func (n *notificationService) SendEmail(ctx context.Context, orderID int64, req *models.EmailNotificationRequest) (*models.Notification, error) {

	var metadataJSON json.RawMessage

	if req.Metadata != nil {
		metadataBytes, err := json.Marshal(req.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}

		metadataJSON = metadataBytes
	}

	notification := &models.Notification{
		ID:        uuid.New(),
		OrderID:   orderID,
		Type:      models.NotificationTypeEmail,
		Recipient: req.To,
		Subject:   req.Subject,
		Content:   req.Content,
		Status:    models.StatusPending,
		Metadata:  metadataJSON,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := n.repo.CreateNotification(ctx, notification); err != nil {
		return nil, errors.DatabaseError("Failed to create notification record").WithError(err)
	}

	if err := n.emailService.Send(ctx, req); err != nil {
		notification.Status = models.StatusFailed
		notification.ErrorMessage = err.Error()

		_ = n.repo.UpdateNotificationStatus(ctx, notification.ID, models.StatusFailed, notification.ErrorMessage)

		return notification, errors.ThirdPartyError("Failed to send email").WithError(err)
	}

	notification.Status = models.StatusSent

	if err := n.repo.UpdateNotificationStatus(ctx, notification.ID, models.StatusSent, ""); err != nil {
		return notification, errors.DatabaseError("Notification sent but its status was not saved").WithError(err)
	}

	return notification, nil
}

func (n *notificationService) ListByOrder(ctx context.Context, orderID int64) ([]*models.Notification, error) {

	notifications, err := n.repo.ListNotificationsByOrder(ctx, orderID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list notifications").WithError(err)
	}

	return notifications, nil
}

func decisionEmail(user *models.User, order *models.Order, payment *models.Payment) *models.EmailNotificationRequest {
	req := &models.EmailNotificationRequest{
		To: user.Email,
		Metadata: map[string]string{
			"order_id":       strconv.FormatInt(order.ID, 10),
			"order_code":     order.OrderCode,
			"payment_status": string(payment.Status),
		},
	}

	switch payment.Status {
	case models.PaymentStatusSuccess:
		req.Subject = fmt.Sprintf("Payment for order %s approved", order.OrderCode)
		req.Content = fmt.Sprintf("Hi %s,\n\nYour payment for order %s has been approved. We are now processing your order.", user.Name, order.OrderCode)
	default:
		notes := ""
		if payment.AdminNotes != nil {
			notes = *payment.AdminNotes
		}

		req.Subject = fmt.Sprintf("Payment for order %s rejected", order.OrderCode)
		req.Content = fmt.Sprintf("Hi %s,\n\nYour payment for order %s was not accepted and the order has been cancelled.\n\n%s", user.Name, order.OrderCode, notes)
	}

	return req
}
