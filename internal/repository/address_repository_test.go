package repository

import (
	"testing"

	"github.com/krishimart/krishimart/internal/constants"
	"github.com/krishimart/krishimart/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAddressRepositoryTest(t *testing.T) *GormAddressRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Address{}); err != nil {
		t.Fatalf("migrate address failed: %v", err)
	}
	return NewAddressRepository(db)
}

func createTestAddress(t *testing.T, repo *GormAddressRepository, userID uint, addrType, city string, isDefault bool) *models.Address {
	t.Helper()
	address := &models.Address{
		UserID:     userID,
		Type:       addrType,
		FullName:   "Ravi Kumar",
		Phone:      "9876512345",
		Line1:      "45 Bazaar Street",
		City:       city,
		State:      "Karnataka",
		PostalCode: "560001",
		Country:    "India",
		IsDefault:  isDefault,
	}
	if err := repo.Create(address); err != nil {
		t.Fatalf("create address failed: %v", err)
	}
	return address
}

func TestSetDefaultSwitchesWithinTransaction(t *testing.T) {
	repo := setupAddressRepositoryTest(t)
	first := createTestAddress(t, repo, 31, constants.AddressTypeShipping, "Bengaluru", true)
	second := createTestAddress(t, repo, 31, constants.AddressTypeShipping, "Mysuru", false)

	err := repo.Transaction(func(tx *gorm.DB) error {
		txRepo := repo.WithTx(tx)
		if err := txRepo.ClearDefaultByUserAndType(31, constants.AddressTypeShipping); err != nil {
			return err
		}
		return txRepo.SetDefault(second.ID, 31)
	})
	if err != nil {
		t.Fatalf("switch default failed: %v", err)
	}

	got, err := repo.GetDefaultByUserAndType(31, constants.AddressTypeShipping)
	if err != nil {
		t.Fatalf("get default failed: %v", err)
	}
	if got == nil || got.ID != second.ID {
		t.Fatalf("default want %d got %+v", second.ID, got)
	}

	old, err := repo.GetByIDAndUser(first.ID, 31)
	if err != nil {
		t.Fatalf("get address failed: %v", err)
	}
	if old.IsDefault {
		t.Fatalf("old default should be cleared")
	}
}

func TestAddressDeleteScopedToOwner(t *testing.T) {
	repo := setupAddressRepositoryTest(t)
	address := createTestAddress(t, repo, 32, constants.AddressTypeShipping, "Pune", false)

	// 非本人删除无效
	affected, err := repo.Delete(address.ID, 99)
	if err != nil {
		t.Fatalf("delete address failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("cross-user delete affected want 0 got %d", affected)
	}

	affected, err = repo.Delete(address.ID, 32)
	if err != nil {
		t.Fatalf("delete address failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("owner delete affected want 1 got %d", affected)
	}
}
