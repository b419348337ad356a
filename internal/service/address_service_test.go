package service

import (
	"testing"

	"github.com/krishimart/krishimart/internal/constants"
	"github.com/krishimart/krishimart/internal/models"
	"github.com/krishimart/krishimart/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAddressServiceTest(t *testing.T) (*AddressService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Address{}); err != nil {
		t.Fatalf("migrate address failed: %v", err)
	}
	return NewAddressService(repository.NewAddressRepository(db)), db
}

func addressFixtureInput(addrType, city string, isDefault bool) AddressInput {
	return AddressInput{
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
}

func TestCreateFirstAddressPerTypeBecomesDefault(t *testing.T) {
	svc, _ := setupAddressServiceTest(t)

	shipping, err := svc.Create(41, addressFixtureInput(constants.AddressTypeShipping, "Bengaluru", false))
	if err != nil {
		t.Fatalf("create shipping address failed: %v", err)
	}
	if !shipping.IsDefault {
		t.Fatalf("first shipping address should become default")
	}

	// 已有物流默认不影响账单类型的首个默认
	billing, err := svc.Create(41, addressFixtureInput(constants.AddressTypeBilling, "Mysuru", false))
	if err != nil {
		t.Fatalf("create billing address failed: %v", err)
	}
	if !billing.IsDefault {
		t.Fatalf("first billing address should become default")
	}

	kept, err := svc.GetByIDAndUser(shipping.ID, 41)
	if err != nil {
		t.Fatalf("get shipping address failed: %v", err)
	}
	if !kept.IsDefault {
		t.Fatalf("shipping default should survive billing create")
	}
}

func TestSetDefaultPreservesOtherTypeDefault(t *testing.T) {
	svc, _ := setupAddressServiceTest(t)

	billing, err := svc.Create(42, addressFixtureInput(constants.AddressTypeBilling, "Hubballi", true))
	if err != nil {
		t.Fatalf("create billing address failed: %v", err)
	}
	first, err := svc.Create(42, addressFixtureInput(constants.AddressTypeShipping, "Bengaluru", true))
	if err != nil {
		t.Fatalf("create shipping address failed: %v", err)
	}
	second, err := svc.Create(42, addressFixtureInput(constants.AddressTypeShipping, "Mysuru", false))
	if err != nil {
		t.Fatalf("create shipping address failed: %v", err)
	}

	if err := svc.SetDefault(second.ID, 42); err != nil {
		t.Fatalf("set default failed: %v", err)
	}

	old, err := svc.GetByIDAndUser(first.ID, 42)
	if err != nil {
		t.Fatalf("get address failed: %v", err)
	}
	if old.IsDefault {
		t.Fatalf("previous shipping default should be cleared")
	}

	got, err := svc.GetByIDAndUser(second.ID, 42)
	if err != nil {
		t.Fatalf("get address failed: %v", err)
	}
	if !got.IsDefault {
		t.Fatalf("new shipping default should be set")
	}

	keptBilling, err := svc.GetByIDAndUser(billing.ID, 42)
	if err != nil {
		t.Fatalf("get billing address failed: %v", err)
	}
	if !keptBilling.IsDefault {
		t.Fatalf("billing default should not change when switching shipping default")
	}
}

func TestUpdateDefaultScopedToAddressType(t *testing.T) {
	svc, _ := setupAddressServiceTest(t)

	billing, err := svc.Create(43, addressFixtureInput(constants.AddressTypeBilling, "Belagavi", true))
	if err != nil {
		t.Fatalf("create billing address failed: %v", err)
	}
	if _, err := svc.Create(43, addressFixtureInput(constants.AddressTypeShipping, "Bengaluru", true)); err != nil {
		t.Fatalf("create shipping address failed: %v", err)
	}
	second, err := svc.Create(43, addressFixtureInput(constants.AddressTypeShipping, "Mysuru", false))
	if err != nil {
		t.Fatalf("create shipping address failed: %v", err)
	}

	updated, err := svc.Update(second.ID, 43, addressFixtureInput(constants.AddressTypeShipping, "Mysuru", true))
	if err != nil {
		t.Fatalf("update address failed: %v", err)
	}
	if !updated.IsDefault {
		t.Fatalf("updated address should be default")
	}

	keptBilling, err := svc.GetByIDAndUser(billing.ID, 43)
	if err != nil {
		t.Fatalf("get billing address failed: %v", err)
	}
	if !keptBilling.IsDefault {
		t.Fatalf("billing default should survive shipping update")
	}
}
