package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	appErrors "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/errors"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/repositories/mocks"
	service "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/services"
	emailMocks "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/pkg/sendgrid/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupNotificationServiceTest(t *testing.T) (service.NotificationService, *mocks.NotificationRepository, *mocks.UserRepository, *emailMocks.EmailService) {
	repo := mocks.NewNotificationRepository(t)
	userRepo := mocks.NewUserRepository(t)
	emailService := emailMocks.NewEmailService(t)

	return service.NewNotificationService(repo, userRepo, emailService), repo, userRepo, emailService
}

func TestSendEmail(t *testing.T) {
	ctx := context.Background()
	req := &models.EmailNotificationRequest{
		To:       "reader@example.com",
		Subject:  "Payment approved",
		Content:  "Your order is being processed",
		Metadata: map[string]string{"order_code": "ORD-ABCDEFGH"},
	}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		svc, repo, _, emailService := setupNotificationServiceTest(t)

		repo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
			return n.OrderID == 11 && n.Recipient == req.To && n.Status == models.StatusPending && len(n.Metadata) > 0
		})).Return(nil).Once()
		emailService.On("Send", mock.Anything, req).Return(nil).Once()
		repo.On("UpdateNotificationStatus", mock.Anything, mock.AnythingOfType("uuid.UUID"), models.StatusSent, "").Return(nil).Once()

		// Act
		notification, err := svc.SendEmail(ctx, 11, req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.StatusSent, notification.Status)
		assert.NotEqual(t, uuid.Nil, notification.ID)
	})

	t.Run("Failure - Provider error is recorded", func(t *testing.T) {
		svc, repo, _, emailService := setupNotificationServiceTest(t)

		repo.On("CreateNotification", mock.Anything, mock.AnythingOfType("*models.Notification")).Return(nil).Once()
		emailService.On("Send", mock.Anything, req).Return(errors.New("sendgrid: 401")).Once()
		repo.On("UpdateNotificationStatus", mock.Anything, mock.AnythingOfType("uuid.UUID"), models.StatusFailed, "sendgrid: 401").Return(nil).Once()

		notification, err := svc.SendEmail(ctx, 11, req)

		requireAppError(t, err, appErrors.ErrCodeThirdPartyError)
		require.NotNil(t, notification)
		assert.Equal(t, models.StatusFailed, notification.Status)
		assert.Equal(t, "sendgrid: 401", notification.ErrorMessage)
	})

	t.Run("Failure - Record not created", func(t *testing.T) {
		svc, repo, _, emailService := setupNotificationServiceTest(t)

		repo.On("CreateNotification", mock.Anything, mock.Anything).Return(errors.New("db error")).Once()

		_, err := svc.SendEmail(ctx, 11, req)

		requireAppError(t, err, appErrors.ErrCodeDatabaseError)
		emailService.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})
}

func TestNotifyPaymentDecision(t *testing.T) {
	svc, repo, userRepo, emailService := setupNotificationServiceTest(t)

	order := &models.Order{ID: 11, UserID: testUserID, OrderCode: "ORD-ABCDEFGH"}
	notes := service.RejectedNotePrefix + "Amount does not match"
	payment := &models.Payment{Status: models.PaymentStatusFailed, AdminNotes: &notes}
	done := make(chan struct{})

	userRepo.On("GetUserByID", mock.Anything, testUserID).Return(&models.User{ID: testUserID, Name: "Rani", Email: "rani@example.com"}, nil).Once()
	repo.On("CreateNotification", mock.Anything, mock.AnythingOfType("*models.Notification")).Return(nil).Once()
	emailService.On("Send", mock.Anything, mock.MatchedBy(func(req *models.EmailNotificationRequest) bool {
		return req.To == "rani@example.com" &&
			req.Subject == "Payment for order ORD-ABCDEFGH rejected" &&
			assert.ObjectsAreEqual("11", req.Metadata["order_id"]) &&
			len(req.Content) > 0
	})).Return(nil).Once()
	repo.On("UpdateNotificationStatus", mock.Anything, mock.AnythingOfType("uuid.UUID"), models.StatusSent, "").
		Run(func(mock.Arguments) { close(done) }).Return(nil).Once()

	svc.NotifyPaymentDecision(context.Background(), order, payment)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("payment notification was not sent")
	}
}

func TestListByOrder(t *testing.T) {
	svc, repo, _, _ := setupNotificationServiceTest(t)
	expected := []*models.Notification{{ID: uuid.New(), OrderID: 11, Status: models.StatusSent}}

	repo.On("ListNotificationsByOrder", mock.Anything, int64(11)).Return(expected, nil).Once()

	got, err := svc.ListByOrder(context.Background(), 11)

	require.NoError(t, err)
	assert.Equal(t, expected, got)
}
