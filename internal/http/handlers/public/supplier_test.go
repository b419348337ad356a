package public

import (
	"errors"
	"testing"

	"github.com/krishimart/krishimart/internal/service"
)

func TestSupplierProductRequestToServiceInput(t *testing.T) {
	discount := " 42.50 "
	req := SupplierProductRequest{
		CategoryID:    3,
		Slug:          "organic-tomatoes",
		Name:          "Organic Tomatoes",
		Price:         " 48.00 ",
		DiscountPrice: &discount,
		Unit:          "kg",
		Stock:         10,
	}

	input, err := req.toServiceInput()
	if err != nil {
		t.Fatalf("toServiceInput failed: %v", err)
	}
	if input.Price.String() != "48" {
		t.Fatalf("price want 48 got %s", input.Price.String())
	}
	if input.DiscountPrice == nil || input.DiscountPrice.String() != "42.5" {
		t.Fatalf("discount price not parsed: %+v", input.DiscountPrice)
	}
}

func TestSupplierProductRequestInvalidPrice(t *testing.T) {
	req := SupplierProductRequest{CategoryID: 1, Slug: "x", Name: "x", Price: "abc"}
	if _, err := req.toServiceInput(); !errors.Is(err, service.ErrProductPriceInvalid) {
		t.Fatalf("want ErrProductPriceInvalid got %v", err)
	}

	badDiscount := "4,2"
	req = SupplierProductRequest{CategoryID: 1, Slug: "x", Name: "x", Price: "10", DiscountPrice: &badDiscount}
	if _, err := req.toServiceInput(); !errors.Is(err, service.ErrDiscountPriceInvalid) {
		t.Fatalf("want ErrDiscountPriceInvalid got %v", err)
	}
}

func TestSupplierProductRequestEmptyDiscountIgnored(t *testing.T) {
	empty := "   "
	req := SupplierProductRequest{CategoryID: 1, Slug: "x", Name: "x", Price: "10", DiscountPrice: &empty}
	input, err := req.toServiceInput()
	if err != nil {
		t.Fatalf("toServiceInput failed: %v", err)
	}
	if input.DiscountPrice != nil {
		t.Fatalf("blank discount should be ignored")
	}
}
