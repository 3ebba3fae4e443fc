package handlers

import (
	stdErrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/errors"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/storage"
)

const (
	proofField = "payment_proof"
	// room for the non-file fields of the form
	formOverhead = 1 << 20
)

// parseMultipart bounds the request body and parses the form.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxFileSize int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFileSize+formOverhead)

	if err := r.ParseMultipartForm(maxFileSize + formOverhead); err != nil {
		var maxErr *http.MaxBytesError
		if stdErrors.As(err, &maxErr) {
			return errors.AddValidationError(proofField, fmt.Sprintf("must not be greater than %d kilobytes", maxFileSize/1024))
		}

		return errors.BadRequestError("Invalid multipart form").WithError(err)
	}

	return nil
}

// readProof loads and validates the payment proof of an already parsed form.
func readProof(r *http.Request, maxSize int64) (*models.UploadedFile, error) {
	file, header, err := r.FormFile(proofField)
	if err != nil {
		if stdErrors.Is(err, http.ErrMissingFile) {
			return nil, errors.AddValidationError(proofField, "is required")
		}

		return nil, errors.BadRequestError("Invalid payment proof upload").WithError(err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, errors.BadRequestError("Failed to read payment proof").WithError(err)
	}

	upload := &models.UploadedFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}

	if _, err := storage.ValidateImage(upload, maxSize); err != nil {
		return nil, err
	}

	return upload, nil
}
