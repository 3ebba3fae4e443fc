package repository_test

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	repository "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var addressColumns = []string{"id", "user_id", "label", "recipient_name", "phone", "street", "city", "province", "postal_code", "is_primary", "created_at", "updated_at"}

func TestGetAddressByID(t *testing.T) {
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewAddressRepository(db)

		mock.ExpectQuery(`FROM user_addresses WHERE id = \$1`).WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows(addressColumns).
				AddRow(int64(3), int64(42), "Rumah", "Budi", "0812", "Jl. Merdeka 1", "Bandung", "Jawa Barat", "40111", true, now, now))

		address, err := repo.GetAddressByID(t.Context(), 3)

		require.NoError(t, err)
		assert.Equal(t, int64(42), address.UserID)
		assert.True(t, address.IsPrimary)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewAddressRepository(db)

		mock.ExpectQuery(`FROM user_addresses WHERE id = \$1`).WithArgs(int64(3)).WillReturnRows(sqlmock.NewRows(addressColumns))

		address, err := repo.GetAddressByID(t.Context(), 3)

		assert.Nil(t, address)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestListAddressesByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewAddressRepository(db)
	now := time.Now()

	mock.ExpectQuery(`FROM user_addresses WHERE user_id = \$1 ORDER BY is_primary DESC, id`).WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(addressColumns).
			AddRow(int64(3), int64(42), "Rumah", "Budi", "0812", "Jl. Merdeka 1", "Bandung", "Jawa Barat", "40111", true, now, now).
			AddRow(int64(4), int64(42), "Kantor", "Budi", "0812", "Jl. Asia Afrika 2", "Bandung", "Jawa Barat", "40112", false, now, now))

	addresses, err := repo.ListAddressesByUser(t.Context(), 42)

	require.NoError(t, err)
	require.Len(t, addresses, 2)
	assert.Equal(t, "Kantor", addresses[1].Label)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAddress(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewAddressRepository(db)
	now := time.Now()

	address := &models.UserAddress{
		UserID:        42,
		Label:         "Rumah",
		RecipientName: "Budi",
		Phone:         "0812",
		Street:        "Jl. Merdeka 1",
		City:          "Bandung",
		Province:      "Jawa Barat",
		PostalCode:    "40111",
		IsPrimary:     true,
	}

	mock.ExpectQuery(`INSERT INTO user_addresses`).
		WithArgs(int64(42), "Rumah", "Budi", "0812", "Jl. Merdeka 1", "Bandung", "Jawa Barat", "40111", true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(3), now, now))

	err := repo.CreateAddress(t.Context(), address)

	require.NoError(t, err)
	assert.Equal(t, int64(3), address.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetPrimary(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewAddressRepository(db)

	mock.ExpectExec(`UPDATE user_addresses SET is_primary = FALSE`).WithArgs(int64(42)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE user_addresses SET is_primary = TRUE`).WithArgs(int64(4), int64(42)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.ClearPrimary(t.Context(), 42))
	assert.ErrorIs(t, repo.SetPrimary(t.Context(), 42, 4), repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
