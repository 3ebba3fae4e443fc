package service

import (
	"fmt"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/errors"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
)

// CheckAvailable is the inventory guard shared by add-to-cart and checkout.
// It only reads book.Stock; decrementing happens in the stock listener.
func CheckAvailable(book *models.Book, requested int) error {
	if requested < 1 {
		return errors.AddValidationError("quantity", "must be at least 1")
	}

	if book.Stock < requested {
		return errors.InsufficientStockError(fmt.Sprintf("Insufficient stock for '%s': %d available, %d requested", book.Title, book.Stock, requested)).
			WithDetail(fmt.Sprintf("book_id=%d", book.ID))
	}

	return nil
}
