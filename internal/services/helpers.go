package service

import (
	stdErrors "errors"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/errors"
	repository "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/repositories"
)

// repoError maps repository failures to application errors. Errors that are
// already application errors pass through untouched.
func repoError(err error, notFoundMsg, failMsg string) error {
	if _, ok := errors.IsAppError(err); ok {
		return err
	}

	if stdErrors.Is(err, repository.ErrNotFound) {
		return errors.NotFoundError(notFoundMsg).WithError(err)
	}

	return errors.DatabaseError(failMsg).WithError(err)
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}

	if size < 1 || size > 50 {
		size = 10
	}

	return page, size
}
