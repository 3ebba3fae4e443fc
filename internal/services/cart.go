package service

import (
	"context"
	stdErrors "errors"
	"log/slog"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/api/middleware"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/errors"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	repository "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/repositories"
)

type CartService interface {
	GetCart(ctx context.Context, userID int64) (*models.Cart, error)
	AddItem(ctx context.Context, userID int64, req *models.AddItemRequest) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int) error
	RemoveItem(ctx context.Context, userID, itemID int64) error
}

type cartService struct {
	tx       repository.TxManager
	cartRepo repository.CartRepository
	bookRepo repository.BookRepository
}

func NewCartService(tx repository.TxManager, cartRepo repository.CartRepository, bookRepo repository.BookRepository) CartService {
	return &cartService{tx: tx, cartRepo: cartRepo, bookRepo: bookRepo}
}

func (s *cartService) GetCart(ctx context.Context, userID int64) (*models.Cart, error) {

	cart, err := s.cartRepo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to load cart").WithError(err)
	}

	items, err := s.cartRepo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to load cart items").WithError(err)
	}

	cart.Items = items

	return cart, nil
}

// AddItem merges into the existing (cart, book) row. The stock check covers
// the quantity already in the cart plus the new one, and is repeated on the
// merged row since a concurrent add may have created it in the meantime.
func (s *cartService) AddItem(ctx context.Context, userID int64, req *models.AddItemRequest) (*models.CartItem, error) {

	var item *models.CartItem

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		book, err := s.bookRepo.GetBookByID(ctx, req.BookID)
		if err != nil {
			return repoError(err, "Book not found", "Failed to load book")
		}

		cart, err := s.cartRepo.GetOrCreateCart(ctx, userID)
		if err != nil {
			return errors.DatabaseError("Failed to load cart").WithError(err)
		}

		inCart := 0

		existing, err := s.cartRepo.FindItemByBook(ctx, cart.ID, book.ID)
		switch {
		case err == nil:
			inCart = existing.Quantity
		case stdErrors.Is(err, repository.ErrNotFound):
		default:
			return errors.DatabaseError("Failed to load cart item").WithError(err)
		}

		if err := CheckAvailable(book, inCart+req.Quantity); err != nil {
			return err
		}

		item, err = s.cartRepo.UpsertItem(ctx, cart.ID, book.ID, req.Quantity, book.Price)
		if err != nil {
			return errors.DatabaseError("Failed to add item to cart").WithError(err)
		}

		if err := CheckAvailable(book, item.Quantity); err != nil {
			return err
		}

		item.Book = book

		return nil
	})
	if err != nil {
		return nil, err
	}

	middleware.LoggerFromContext(ctx).Info("Item added to cart", slog.Int64("bookId", req.BookID), slog.Int("quantity", item.Quantity))

	return item, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int) error {

	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}

	book, err := s.bookRepo.GetBookByID(ctx, item.BookID)
	if err != nil {
		return repoError(err, "Book not found", "Failed to load book")
	}

	if err := CheckAvailable(book, quantity); err != nil {
		return err
	}

	if err := s.cartRepo.UpdateItemQuantity(ctx, itemID, quantity); err != nil {
		return repoError(err, "Cart item not found", "Failed to update cart item")
	}

	return nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID, itemID int64) error {

	if _, err := s.ownedItem(ctx, userID, itemID); err != nil {
		return err
	}

	if err := s.cartRepo.DeleteItem(ctx, itemID); err != nil {
		return repoError(err, "Cart item not found", "Failed to remove cart item")
	}

	return nil
}

func (s *cartService) ownedItem(ctx context.Context, userID, itemID int64) (*models.CartItem, error) {
	item, ownerID, err := s.cartRepo.GetItem(ctx, itemID)
	if err != nil {
		return nil, repoError(err, "Cart item not found", "Failed to load cart item")
	}

	if ownerID != userID {
		return nil, errors.ForbiddenError("Cart item does not belong to you")
	}

	return item, nil
}
