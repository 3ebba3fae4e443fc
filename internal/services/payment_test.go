package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	cacheMocks "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/cache/mocks"
	appErrors "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/errors"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	repository "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/repositories"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/repositories/mocks"
	service "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/services"
	serviceMocks "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/services/mocks"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/storage"
	storageMocks "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type paymentMocks struct {
	order    *mocks.OrderRepository
	payment  *mocks.PaymentRepository
	files    *storageMocks.FileStorage
	cache    *cacheMocks.Cache
	notifier *serviceMocks.NotificationService
}

func setupPaymentServiceTest(t *testing.T) (service.PaymentService, *paymentMocks) {
	m := &paymentMocks{
		order:    mocks.NewOrderRepository(t),
		payment:  mocks.NewPaymentRepository(t),
		files:    storageMocks.NewFileStorage(t),
		cache:    cacheMocks.NewCache(t),
		notifier: serviceMocks.NewNotificationService(t),
	}

	svc := service.NewPaymentService(passthroughTx(t), m.order, m.payment, m.files, m.cache, m.notifier)

	return svc, m
}

func strPtr(s string) *string { return &s }

func TestUploadProof(t *testing.T) {
	ctx := context.Background()
	newURL := "/storage/payment_proofs/20261019-new.png"

	t.Run("Success - Waiting payment moves to pending and the old proof is removed", func(t *testing.T) {
		// Arrange
		svc, m := setupPaymentServiceTest(t)
		oldURL := "/storage/payment_proofs/20261018-old.png"

		m.order.On("GetOrderByID", mock.Anything, int64(11)).Return(&models.Order{ID: 11, UserID: testUserID}, nil).Once()
		m.payment.On("LockPaymentByOrderID", mock.Anything, int64(11)).
			Return(&models.Payment{ID: 5, OrderID: 11, Status: models.PaymentStatusWaitingValidation, PaymentProofURL: strPtr(oldURL)}, nil).Once()
		m.files.On("Save", mock.Anything, storage.ProofFolder, testProof).Return(newURL, nil).Once()
		m.payment.On("UpdateProof", mock.Anything, int64(5), newURL, models.PaymentStatusPending).Return(nil).Once()
		m.files.On("Delete", mock.Anything, oldURL).Return(nil).Once()
		m.cache.On("Delete", mock.Anything, "order:11").Return(nil).Once()

		// Act
		payment, err := svc.UploadProof(ctx, testUserID, 11, testProof)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPending, payment.Status)
		assert.Equal(t, newURL, *payment.PaymentProofURL)
	})

	gated := []models.PaymentStatus{models.PaymentStatusPending, models.PaymentStatusSuccess, models.PaymentStatusFailed}

	for _, status := range gated {
		t.Run("Failure - Proof rejected while payment is "+string(status), func(t *testing.T) {
			svc, m := setupPaymentServiceTest(t)

			m.order.On("GetOrderByID", mock.Anything, int64(11)).Return(&models.Order{ID: 11, UserID: testUserID}, nil).Once()
			m.payment.On("LockPaymentByOrderID", mock.Anything, int64(11)).
				Return(&models.Payment{ID: 5, OrderID: 11, Status: status, PaymentProofURL: strPtr("/storage/x.png")}, nil).Once()

			payment, err := svc.UploadProof(ctx, testUserID, 11, testProof)

			assert.Nil(t, payment)
			requireAppError(t, err, appErrors.ErrCodeInvalidState)
			m.files.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
			m.payment.AssertNotCalled(t, "UpdateProof", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("Failure - Order of another user", func(t *testing.T) {
		svc, m := setupPaymentServiceTest(t)

		m.order.On("GetOrderByID", mock.Anything, int64(11)).Return(&models.Order{ID: 11, UserID: 7}, nil).Once()

		_, err := svc.UploadProof(ctx, testUserID, 11, testProof)

		requireAppError(t, err, appErrors.ErrCodeForbidden)
	})

	t.Run("Failure - Order without payment", func(t *testing.T) {
		svc, m := setupPaymentServiceTest(t)

		m.order.On("GetOrderByID", mock.Anything, int64(11)).Return(&models.Order{ID: 11, UserID: testUserID}, nil).Once()
		m.payment.On("LockPaymentByOrderID", mock.Anything, int64(11)).Return(nil, repository.ErrNotFound).Once()

		_, err := svc.UploadProof(ctx, testUserID, 11, testProof)

		requireAppError(t, err, appErrors.ErrCodeMissingPayment)
	})

	t.Run("Failure - New proof is removed when the update fails", func(t *testing.T) {
		svc, m := setupPaymentServiceTest(t)

		m.order.On("GetOrderByID", mock.Anything, int64(11)).Return(&models.Order{ID: 11, UserID: testUserID}, nil).Once()
		m.payment.On("LockPaymentByOrderID", mock.Anything, int64(11)).
			Return(&models.Payment{ID: 5, OrderID: 11, Status: models.PaymentStatusWaitingValidation}, nil).Once()
		m.files.On("Save", mock.Anything, storage.ProofFolder, testProof).Return(newURL, nil).Once()
		m.payment.On("UpdateProof", mock.Anything, int64(5), newURL, models.PaymentStatusPending).Return(errors.New("db error")).Once()
		m.files.On("Delete", mock.Anything, newURL).Return(nil).Once()

		_, err := svc.UploadProof(ctx, testUserID, 11, testProof)

		requireAppError(t, err, appErrors.ErrCodeDatabaseError)
		m.cache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestApprovePayment(t *testing.T) {
	ctx := context.Background()

	for _, from := range []models.PaymentStatus{models.PaymentStatusWaitingValidation, models.PaymentStatusPending} {
		t.Run("Success - Approve from "+string(from), func(t *testing.T) {
			// Arrange
			svc, m := setupPaymentServiceTest(t)
			before := time.Now()

			m.order.On("GetOrderByID", mock.Anything, int64(11)).Return(&models.Order{ID: 11, UserID: testUserID, Status: models.OrderStatusPending}, nil).Once()
			m.payment.On("LockPaymentByOrderID", mock.Anything, int64(11)).Return(&models.Payment{ID: 5, OrderID: 11, Status: from}, nil).Once()
			m.payment.On("UpdateDecision", mock.Anything, int64(5), models.PaymentStatusSuccess, service.ApprovedNote,
				mock.MatchedBy(func(at *time.Time) bool { return at != nil && !at.Before(before) })).Return(nil).Once()
			m.order.On("UpdateOrderStatus", mock.Anything, int64(11), models.OrderStatusProcessing).Return(nil).Once()
			m.cache.On("Delete", mock.Anything, "order:11").Return(nil).Once()
			m.notifier.On("NotifyPaymentDecision", mock.Anything,
				mock.MatchedBy(func(o *models.Order) bool { return o.Status == models.OrderStatusProcessing }),
				mock.MatchedBy(func(p *models.Payment) bool { return p.Status == models.PaymentStatusSuccess })).Once()

			// Act
			payment, err := svc.Approve(ctx, 11)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, models.PaymentStatusSuccess, payment.Status)
			assert.Equal(t, service.ApprovedNote, *payment.AdminNotes)
			assert.NotNil(t, payment.ConfirmedAt)
		})
	}

	for _, from := range []models.PaymentStatus{models.PaymentStatusSuccess, models.PaymentStatusFailed} {
		t.Run("Failure - Already decided as "+string(from), func(t *testing.T) {
			svc, m := setupPaymentServiceTest(t)

			m.order.On("GetOrderByID", mock.Anything, int64(11)).Return(&models.Order{ID: 11}, nil).Once()
			m.payment.On("LockPaymentByOrderID", mock.Anything, int64(11)).Return(&models.Payment{ID: 5, Status: from}, nil).Once()

			_, err := svc.Approve(ctx, 11)

			requireAppError(t, err, appErrors.ErrCodeInvalidState)
			m.notifier.AssertNotCalled(t, "NotifyPaymentDecision", mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("Failure - Order not found", func(t *testing.T) {
		svc, m := setupPaymentServiceTest(t)

		m.order.On("GetOrderByID", mock.Anything, int64(99)).Return(nil, repository.ErrNotFound).Once()

		_, err := svc.Approve(ctx, 99)

		requireAppError(t, err, appErrors.ErrCodeNotFound)
	})
}

func TestRejectPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Reject sanitizes the reason and cancels the order", func(t *testing.T) {
		// Arrange
		svc, m := setupPaymentServiceTest(t)
		notes := service.RejectedNotePrefix + "Amount does not match"

		m.order.On("GetOrderByID", mock.Anything, int64(11)).Return(&models.Order{ID: 11, UserID: testUserID}, nil).Once()
		m.payment.On("LockPaymentByOrderID", mock.Anything, int64(11)).
			Return(&models.Payment{ID: 5, OrderID: 11, Status: models.PaymentStatusPending}, nil).Once()
		m.payment.On("UpdateDecision", mock.Anything, int64(5), models.PaymentStatusFailed, notes, (*time.Time)(nil)).Return(nil).Once()
		m.order.On("UpdateOrderStatus", mock.Anything, int64(11), models.OrderStatusCancelled).Return(nil).Once()
		m.cache.On("Delete", mock.Anything, "order:11").Return(nil).Once()
		m.notifier.On("NotifyPaymentDecision", mock.Anything, mock.AnythingOfType("*models.Order"), mock.AnythingOfType("*models.Payment")).Once()

		// Act
		payment, err := svc.Reject(ctx, 11, "  <b>Amount does not match</b> ")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusFailed, payment.Status)
		assert.Equal(t, notes, *payment.AdminNotes)
		assert.Nil(t, payment.ConfirmedAt)
	})

	t.Run("Success - Punctuation in the reason is stored as written", func(t *testing.T) {
		// Arrange
		svc, m := setupPaymentServiceTest(t)
		reason := "Transfer didn't arrive & amount \"100000\" < due"
		notes := service.RejectedNotePrefix + reason

		m.order.On("GetOrderByID", mock.Anything, int64(11)).Return(&models.Order{ID: 11, UserID: testUserID}, nil).Once()
		m.payment.On("LockPaymentByOrderID", mock.Anything, int64(11)).
			Return(&models.Payment{ID: 5, OrderID: 11, Status: models.PaymentStatusWaitingValidation}, nil).Once()
		m.payment.On("UpdateDecision", mock.Anything, int64(5), models.PaymentStatusFailed, notes, (*time.Time)(nil)).Return(nil).Once()
		m.order.On("UpdateOrderStatus", mock.Anything, int64(11), models.OrderStatusCancelled).Return(nil).Once()
		m.cache.On("Delete", mock.Anything, "order:11").Return(nil).Once()
		m.notifier.On("NotifyPaymentDecision", mock.Anything, mock.AnythingOfType("*models.Order"), mock.AnythingOfType("*models.Payment")).Once()

		// Act
		payment, err := svc.Reject(ctx, 11, reason)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, notes, *payment.AdminNotes)
	})

	t.Run("Failure - Blank reason", func(t *testing.T) {
		svc, _ := setupPaymentServiceTest(t)

		_, err := svc.Reject(ctx, 11, "  <i></i> ")

		requireAppError(t, err, appErrors.ErrCodeValidation)
	})

	t.Run("Failure - Reason too long", func(t *testing.T) {
		svc, _ := setupPaymentServiceTest(t)

		_, err := svc.Reject(ctx, 11, strings.Repeat("a", 256))

		requireAppError(t, err, appErrors.ErrCodeValidation)
	})

	t.Run("Failure - Already rejected", func(t *testing.T) {
		svc, m := setupPaymentServiceTest(t)

		m.order.On("GetOrderByID", mock.Anything, int64(11)).Return(&models.Order{ID: 11}, nil).Once()
		m.payment.On("LockPaymentByOrderID", mock.Anything, int64(11)).Return(&models.Payment{ID: 5, Status: models.PaymentStatusFailed}, nil).Once()

		_, err := svc.Reject(ctx, 11, "duplicate")

		requireAppError(t, err, appErrors.ErrCodeInvalidState)
		m.order.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}
