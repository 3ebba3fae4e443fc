package response

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/errors"
	"github.com/go-playground/validator/v10"
)

type APIResponse struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Error   *ErrorResponse `json:"error,omitempty"`
}

type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func WriteJson(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return json.NewEncoder(w).Encode(data)
}

func write(w http.ResponseWriter, statusCode int, body APIResponse) {
	if err := WriteJson(w, statusCode, body); err != nil {
		slog.Debug("Failed to write response", slog.Int("status", statusCode), slog.String("error", err.Error()))
	}
}

func Success(w http.ResponseWriter, statusCode int, data any) {
	write(w, statusCode, APIResponse{Success: true, Data: data})
}

// Error renders AppErrors with their own status and code. Anything else is
// reported as a generic 500 so driver messages never reach the client.
func Error(w http.ResponseWriter, err error) {
	appErr, ok := errors.IsAppError(err)
	if !ok {
		write(w, http.StatusInternalServerError, APIResponse{
			Error: &ErrorResponse{
				Code:    errors.ErrCodeInternal,
				Message: "An unexpected error occurred",
			},
		})

		return
	}

	body := &ErrorResponse{Code: appErr.Code, Message: appErr.Message}
	if appErr.Detail != "" {
		body.Details = []string{appErr.Detail}
	}

	write(w, appErr.StatusCode, APIResponse{Error: body})
}

// ValidationError sends one message per failing field with 422.
func ValidationError(w http.ResponseWriter, errs validator.ValidationErrors) {
	details := make([]string, 0, len(errs))

	for _, fe := range errs {
		details = append(details, fieldMessage(fe))
	}

	write(w, http.StatusUnprocessableEntity, APIResponse{
		Error: &ErrorResponse{
			Code:    errors.ErrCodeValidation,
			Message: "Validation failed",
			Details: details,
		},
	})
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Field %s is required", field)
	case "email":
		return fmt.Sprintf("Field %s must be a valid email address", field)
	case "numeric":
		return fmt.Sprintf("Field %s must be numeric", field)
	case "oneof":
		return fmt.Sprintf("Field %s must be one of [%s]", field, fe.Param())
	case "gt":
		return fmt.Sprintf("Field %s must be greater than %s", field, fe.Param())
	case "min", "max":
		bound := "at least"
		if fe.Tag() == "max" {
			bound = "at most"
		}

		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("Field %s must be %s %s characters long", field, bound, fe.Param())
		case reflect.Slice:
			return fmt.Sprintf("Field %s must contain %s %s item(s)", field, bound, fe.Param())
		default:
			return fmt.Sprintf("Field %s must be %s %s", field, bound, fe.Param())
		}
	default:
		return fmt.Sprintf("Field %s is invalid: %s=%s", field, fe.Tag(), fe.Param())
	}
}
