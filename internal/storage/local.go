package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/api/middleware"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/config"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	"github.com/google/uuid"
)

// LocalStorage keeps files on the public disk served under cfg.PublicURL.
type LocalStorage struct {
	cfg *config.Storage
}

func NewLocalStorage(cfg *config.Storage) (*LocalStorage, error) {
	if err := os.MkdirAll(cfg.PublicDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}

	return &LocalStorage{cfg: cfg}, nil
}

func (s *LocalStorage) Save(ctx context.Context, folder string, file *models.UploadedFile) (string, error) {
	mtype, err := ValidateImage(file, s.cfg.MaxProofSize)
	if err != nil {
		return "", err
	}

	data, err := normalizeImage(file.Data, mtype)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s/%s-%s%s", folder, time.Now().Format("20060102"), uuid.New().String(), mtype.Extension())
	path := filepath.Join(s.cfg.PublicDir, filepath.FromSlash(name))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create folder %s: %w", folder, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	middleware.LoggerFromContext(ctx).Debug("Stored file", slog.String("path", name), slog.Int("size", len(data)))

	return strings.TrimSuffix(s.cfg.PublicURL, "/") + "/" + name, nil
}

func (s *LocalStorage) Delete(ctx context.Context, url string) error {
	name, ok := strings.CutPrefix(url, strings.TrimSuffix(s.cfg.PublicURL, "/")+"/")
	if !ok || name == "" || !filepath.IsLocal(filepath.FromSlash(name)) {
		return fmt.Errorf("not a stored file: %s", url)
	}

	if err := os.Remove(filepath.Join(s.cfg.PublicDir, filepath.FromSlash(name))); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	middleware.LoggerFromContext(ctx).Debug("Deleted file", slog.String("path", name))

	return nil
}
