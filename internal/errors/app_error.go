package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code       string
	Message    string
	Detail     string
	StatusCode int
	Err        error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail

	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err

	return e
}

const (
	ErrCodeValidation               = "VALIDATION_ERROR"
	ErrCodeBadRequest               = "BAD_REQUEST"
	ErrCodeNotFound                 = "NOT_FOUND"
	ErrCodeUnauthorized             = "UNAUTHORIZED"
	ErrCodeForbidden                = "FORBIDDEN"
	ErrCodeTooManyRequests          = "TOO_MANY_REQUESTS"
	ErrCodeInsufficientStock        = "INSUFFICIENT_STOCK"
	ErrCodeEmptySelection           = "EMPTY_SELECTION"
	ErrCodePartialSelectionMismatch = "PARTIAL_SELECTION_MISMATCH"
	ErrCodePriceMissing             = "PRICE_MISSING"
	ErrCodeInvalidState             = "INVALID_STATE"
	ErrCodeMissingPayment           = "MISSING_PAYMENT"
	ErrCodeInternal                 = "INTERNAL_ERROR"
	ErrCodeDatabaseError            = "DATABASE_ERROR"
	ErrCodeThirdPartyError          = "THIRD_PARTY_ERROR"
)

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, http.StatusUnprocessableEntity)
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrCodeBadRequest, message, http.StatusBadRequest)
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message, http.StatusNotFound)
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

func ForbiddenError(message string) *AppError {
	return NewAppError(ErrCodeForbidden, message, http.StatusForbidden)
}

func TooManyRequestsError(message string) *AppError {
	return NewAppError(ErrCodeTooManyRequests, message, http.StatusTooManyRequests)
}

func InsufficientStockError(message string) *AppError {
	return NewAppError(ErrCodeInsufficientStock, message, http.StatusBadRequest)
}

func EmptySelectionError(message string) *AppError {
	return NewAppError(ErrCodeEmptySelection, message, http.StatusBadRequest)
}

func PartialSelectionMismatchError(message string) *AppError {
	return NewAppError(ErrCodePartialSelectionMismatch, message, http.StatusBadRequest)
}

func PriceMissingError(message string) *AppError {
	return NewAppError(ErrCodePriceMissing, message, http.StatusBadRequest)
}

// InvalidStateError is returned when a payment or order transition is not
// allowed from the current status.
func InvalidStateError(message string) *AppError {
	return NewAppError(ErrCodeInvalidState, message, http.StatusForbidden)
}

func MissingPaymentError(message string) *AppError {
	return NewAppError(ErrCodeMissingPayment, message, http.StatusUnprocessableEntity)
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternal, message, http.StatusInternalServerError)
}

func DatabaseError(message string) *AppError {
	return NewAppError(ErrCodeDatabaseError, message, http.StatusInternalServerError)
}

func ThirdPartyError(message string) *AppError {
	return NewAppError(ErrCodeThirdPartyError, message, http.StatusInternalServerError)
}

func IsAppError(err error) (*AppError, bool) {
	var appError *AppError

	if errors.As(err, &appError) {
		return appError, true
	}

	return nil, false
}

// field validation error.
func AddValidationError(field, reason string) *AppError {
	return ValidationError(fmt.Sprintf("Invalid field '%s': %s", field, reason))
}
