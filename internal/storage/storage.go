package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/errors"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

const ProofFolder = "payment_proofs"

// proofs larger than this on either side are downscaled before storing
const maxProofDimension = 2000

const jpegQuality = 90

type FileStorage interface {
	// Save validates and stores the image under folder and returns its public URL.
	Save(ctx context.Context, folder string, file *models.UploadedFile) (string, error)
	// Delete removes a file previously returned by Save. Missing files are not an error.
	Delete(ctx context.Context, url string) error
}

var allowedImageTypes = []string{"image/jpeg", "image/png"}

// ValidateImage checks size and content of an uploaded proof. Only jpg and
// png files that decode as images are accepted, regardless of the declared
// content type.
func ValidateImage(file *models.UploadedFile, maxSize int64) (*mimetype.MIME, error) {
	if file == nil || len(file.Data) == 0 {
		return nil, errors.AddValidationError("payment_proof", "is required")
	}

	if int64(len(file.Data)) > maxSize {
		return nil, errors.AddValidationError("payment_proof", fmt.Sprintf("must not be greater than %d kilobytes", maxSize/1024))
	}

	mtype := mimetype.Detect(file.Data)
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		return nil, errors.AddValidationError("payment_proof", "must be a file of type: jpg, jpeg, png")
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(file.Data)); err != nil {
		return nil, errors.AddValidationError("payment_proof", "must be an image").WithError(err)
	}

	return mtype, nil
}

// normalizeImage bakes the EXIF orientation into JPEGs and downscales images
// larger than maxProofDimension. PNGs within the limit are returned as is.
func normalizeImage(data []byte, mtype *mimetype.MIME) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	isPNG := mtype.Is("image/png")

	bounds := img.Bounds()
	if bounds.Dx() > maxProofDimension || bounds.Dy() > maxProofDimension {
		img = imaging.Fit(img, maxProofDimension, maxProofDimension, imaging.Lanczos)
	} else if isPNG {
		return data, nil
	}

	format := imaging.JPEG
	if isPNG {
		format = imaging.PNG
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return buf.Bytes(), nil
}
