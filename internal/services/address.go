package service

import (
	"context"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/errors"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	repository "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/repositories"
)

type AddressService interface {
	ListAddresses(ctx context.Context, userID int64) ([]models.UserAddress, error)
	CreateAddress(ctx context.Context, userID int64, req *models.CreateAddressRequest) (*models.UserAddress, error)
	SetPrimary(ctx context.Context, userID, addressID int64) error
}

type addressService struct {
	tx          repository.TxManager
	addressRepo repository.AddressRepository
}

func NewAddressService(tx repository.TxManager, addressRepo repository.AddressRepository) AddressService {
	return &addressService{tx: tx, addressRepo: addressRepo}
}

func (s *addressService) ListAddresses(ctx context.Context, userID int64) ([]models.UserAddress, error) {

	addresses, err := s.addressRepo.ListAddressesByUser(ctx, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list addresses").WithError(err)
	}

	return addresses, nil
}

func (s *addressService) CreateAddress(ctx context.Context, userID int64, req *models.CreateAddressRequest) (*models.UserAddress, error) {

	address := &models.UserAddress{
		UserID:        userID,
		Label:         req.Label,
		RecipientName: req.RecipientName,
		Phone:         req.Phone,
		Street:        req.Street,
		City:          req.City,
		Province:      req.Province,
		PostalCode:    req.PostalCode,
		IsPrimary:     req.IsPrimary,
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if address.IsPrimary {
			if err := s.addressRepo.ClearPrimary(ctx, userID); err != nil {
				return errors.DatabaseError("Failed to update primary address").WithError(err)
			}
		}

		if err := s.addressRepo.CreateAddress(ctx, address); err != nil {
			return errors.DatabaseError("Failed to create address").WithError(err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return address, nil
}

// SetPrimary unsets every other primary address of the user in the same
// transaction. Concurrent calls by the same user are last-writer-wins.
func (s *addressService) SetPrimary(ctx context.Context, userID, addressID int64) error {

	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		address, err := s.addressRepo.GetAddressByID(ctx, addressID)
		if err != nil {
			return repoError(err, "Address not found", "Failed to load address")
		}

		if address.UserID != userID {
			return errors.ForbiddenError("Address does not belong to you")
		}

		if err := s.addressRepo.ClearPrimary(ctx, userID); err != nil {
			return errors.DatabaseError("Failed to update primary address").WithError(err)
		}

		if err := s.addressRepo.SetPrimary(ctx, userID, addressID); err != nil {
			return repoError(err, "Address not found", "Failed to update primary address")
		}

		return nil
	})
}
