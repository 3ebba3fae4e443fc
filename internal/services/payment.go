package service

import (
	"context"
	stdErrors "errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/api/middleware"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/cache"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/errors"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/metrics"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	repository "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/repositories"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/storage"
	"github.com/microcosm-cc/bluemonday"
)

const (
	ApprovedNote       = "Payment approved by admin"
	RejectedNotePrefix = "Rejected: "
	maxReasonLength    = 255
)

type PaymentService interface {
	UploadProof(ctx context.Context, userID, orderID int64, file *models.UploadedFile) (*models.Payment, error)
	Approve(ctx context.Context, orderID int64) (*models.Payment, error)
	Reject(ctx context.Context, orderID int64, reason string) (*models.Payment, error)
}

type paymentService struct {
	tx          repository.TxManager
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	files       storage.FileStorage
	cache       cache.Cache
	notifier    NotificationService
	policy      *bluemonday.Policy
}

func NewPaymentService(
	tx repository.TxManager,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	files storage.FileStorage,
	cache cache.Cache,
	notifier NotificationService,
) PaymentService {
	return &paymentService{
		tx:          tx,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		files:       files,
		cache:       cache,
		notifier:    notifier,
		policy:      bluemonday.StrictPolicy(),
	}
}

// UploadProof accepts a proof only while the payment is waiting_validation
// and moves it to pending. The previous proof file is removed after commit.
func (s *paymentService) UploadProof(ctx context.Context, userID, orderID int64, file *models.UploadedFile) (*models.Payment, error) {
	logger := middleware.LoggerFromContext(ctx).With(slog.Int64("orderId", orderID))

	var (
		payment *models.Payment
		newURL  string
		oldURL  string
	)

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.GetOrderByID(ctx, orderID)
		if err != nil {
			return repoError(err, "Order not found", "Failed to load order")
		}

		if order.UserID != userID {
			return errors.ForbiddenError("You do not have access to this order")
		}

		payment, err = s.lockPayment(ctx, orderID)
		if err != nil {
			return err
		}

		if payment.Status != models.PaymentStatusWaitingValidation {
			return errors.InvalidStateError("Payment proof can only be uploaded while the payment is waiting for validation")
		}

		newURL, err = s.files.Save(ctx, storage.ProofFolder, file)
		if err != nil {
			if _, ok := errors.IsAppError(err); ok {
				return err
			}

			return errors.InternalError("Failed to store payment proof").WithError(err)
		}

		if err := s.paymentRepo.UpdateProof(ctx, payment.ID, newURL, models.PaymentStatusPending); err != nil {
			return repoError(err, "Payment not found", "Failed to update payment")
		}

		if payment.PaymentProofURL != nil {
			oldURL = *payment.PaymentProofURL
		}

		payment.PaymentProofURL = &newURL
		payment.Status = models.PaymentStatusPending

		return nil
	})
	if err != nil {
		if newURL != "" {
			s.removeFile(ctx, logger, newURL)
		}

		return nil, err
	}

	if oldURL != "" && oldURL != newURL {
		s.removeFile(ctx, logger, oldURL)
	}

	metrics.PaymentTransitionsTotal.WithLabelValues(string(models.PaymentStatusWaitingValidation), string(models.PaymentStatusPending)).Inc()
	invalidateOrder(ctx, s.cache, orderID)

	logger.Info("Payment proof uploaded", slog.Int64("paymentId", payment.ID))

	return payment, nil
}

func (s *paymentService) Approve(ctx context.Context, orderID int64) (*models.Payment, error) {
	return s.decide(ctx, orderID, models.PaymentStatusSuccess, ApprovedNote, models.OrderStatusProcessing)
}

func (s *paymentService) Reject(ctx context.Context, orderID int64, reason string) (*models.Payment, error) {

	// Tags are stripped but the text itself is stored unescaped.
	reason = strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(reason)))
	if reason == "" {
		return nil, errors.AddValidationError("reason", "is required")
	}

	if utf8.RuneCountInString(reason) > maxReasonLength {
		return nil, errors.AddValidationError("reason", fmt.Sprintf("must not be greater than %d characters", maxReasonLength))
	}

	return s.decide(ctx, orderID, models.PaymentStatusFailed, RejectedNotePrefix+reason, models.OrderStatusCancelled)
}

// decide applies an admin decision once. Payments that are already success
// or failed are left untouched.
func (s *paymentService) decide(ctx context.Context, orderID int64, status models.PaymentStatus, notes string, orderStatus models.OrderStatus) (*models.Payment, error) {
	logger := middleware.LoggerFromContext(ctx).With(slog.Int64("orderId", orderID))

	var (
		order   *models.Order
		payment *models.Payment
		from    models.PaymentStatus
	)

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error

		order, err = s.orderRepo.GetOrderByID(ctx, orderID)
		if err != nil {
			return repoError(err, "Order not found", "Failed to load order")
		}

		payment, err = s.lockPayment(ctx, orderID)
		if err != nil {
			return err
		}

		if payment.Status.IsTerminal() {
			return errors.InvalidStateError(fmt.Sprintf("Payment is already %s", payment.Status))
		}

		from = payment.Status

		var confirmedAt *time.Time

		if status == models.PaymentStatusSuccess {
			now := time.Now()
			confirmedAt = &now
		}

		if err := s.paymentRepo.UpdateDecision(ctx, payment.ID, status, notes, confirmedAt); err != nil {
			return repoError(err, "Payment not found", "Failed to update payment")
		}

		if err := s.orderRepo.UpdateOrderStatus(ctx, order.ID, orderStatus); err != nil {
			return repoError(err, "Order not found", "Failed to update order status")
		}

		payment.Status = status
		payment.AdminNotes = &notes
		payment.ConfirmedAt = confirmedAt
		order.Status = orderStatus
		order.Payment = payment

		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.PaymentTransitionsTotal.WithLabelValues(string(from), string(status)).Inc()
	invalidateOrder(ctx, s.cache, orderID)

	s.notifier.NotifyPaymentDecision(ctx, order, payment)

	logger.Info("Payment decided", slog.String("from", string(from)), slog.String("to", string(status)))

	return payment, nil
}

func (s *paymentService) lockPayment(ctx context.Context, orderID int64) (*models.Payment, error) {
	payment, err := s.paymentRepo.LockPaymentByOrderID(ctx, orderID)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.MissingPaymentError("Order has no payment record").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to load payment").WithError(err)
	}

	return payment, nil
}

func (s *paymentService) removeFile(ctx context.Context, logger *slog.Logger, url string) {
	if err := s.files.Delete(context.WithoutCancel(ctx), url); err != nil {
		logger.Warn("Failed to delete payment proof", slog.String("proof", url), slog.Any("error", err))
	}
}
