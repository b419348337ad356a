package shared

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type addressPayload struct {
	FullName   string `json:"full_name" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required,min=6"`
	ProductID  uint   `json:"product_id" validate:"required"`
}

func TestBindingFieldErrorsTranslatesValidatorErrors(t *testing.T) {
	err := validator.New().Struct(addressPayload{PostalCode: "56"})
	fields := BindingFieldErrors(err)
	if len(fields) != 3 {
		t.Fatalf("expected 3 field errors, got %d: %+v", len(fields), fields)
	}

	byField := make(map[string]string, len(fields))
	for _, fe := range fields {
		byField[fe.Field] = fe.Message
	}
	if byField["full_name"] != "this field is required" {
		t.Fatalf("full_name message unexpected: %q", byField["full_name"])
	}
	if byField["postal_code"] != "must be at least 6" {
		t.Fatalf("postal_code message unexpected: %q", byField["postal_code"])
	}
	if _, ok := byField["product_id"]; !ok {
		t.Fatalf("product_id missing from field errors: %+v", byField)
	}
}

func TestBindingFieldErrorsIgnoresPlainErrors(t *testing.T) {
	if fields := BindingFieldErrors(nil); fields != nil {
		t.Fatalf("nil error should yield nil, got %+v", fields)
	}
}

func TestSnakeFieldName(t *testing.T) {
	cases := map[string]string{
		"FullName":      "full_name",
		"ProductID":     "product_id",
		"Line1":         "line1",
		"DiscountPrice": "discount_price",
		"City":          "city",
	}
	for in, want := range cases {
		if got := snakeFieldName(in); got != want {
			t.Fatalf("snakeFieldName(%q) want %q got %q", in, want, got)
		}
	}
}
