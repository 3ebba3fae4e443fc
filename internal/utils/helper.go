package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// MaxJSONBodySize caps JSON request bodies. Multipart uploads have their own
// limit.
const MaxJSONBodySize = 1 << 20

var errEmptyBody = errors.New("request body cannot be empty")

// DecodeJSONBody decodes exactly one JSON value from the request body.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dest any) error {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxJSONBodySize))

	if err := dec.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}

		return fmt.Errorf("invalid JSON format: %w", err)
	}

	if dec.More() {
		return errors.New("request body must contain a single JSON value")
	}

	return nil
}

func ValidateStruct(validate *validator.Validate, data any) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return fmt.Errorf("validation error: %w", validationErrs)
	}

	return fmt.Errorf("unexpected validation error: %w", err)
}
