package service

import (
	"errors"
	"testing"

	"github.com/krishimart/krishimart/internal/constants"
	"github.com/krishimart/krishimart/internal/models"
	"github.com/krishimart/krishimart/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (*CartService, *gorm.DB) {
	t.Helper()
	_, db := setupOrderServiceTest(t)
	svc := NewCartService(
		repository.NewCartRepository(db),
		repository.NewProductRepository(db),
		NewSettingService(repository.NewSettingRepository(db)),
	)
	return svc, db
}

func createCartTestProduct(t *testing.T, db *gorm.DB, slug string, price, discount int64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID: 1,
		SupplierID: 2,
		Slug:       slug,
		Name:       "测试农产品 " + slug,
		Price:      models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
		Unit:       constants.ProductUnitKG,
		Stock:      stock,
		IsActive:   true,
	}
	if discount > 0 {
		d := models.NewMoneyFromDecimal(decimal.NewFromInt(discount))
		product.DiscountPrice = &d
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestUpsertCartItemRejectsOverStock(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createCartTestProduct(t, db, "cart-overstock-bhindi", 35, 0, 3)

	err := svc.UpsertItem(UpsertCartItemInput{UserID: 401, ProductID: product.ID, Quantity: 5})
	if !errors.Is(err, ErrStockInsufficient) {
		t.Fatalf("expected ErrStockInsufficient, got %v", err)
	}

	if err := svc.UpsertItem(UpsertCartItemInput{UserID: 401, ProductID: product.ID, Quantity: 3}); err != nil {
		t.Fatalf("upsert within stock failed: %v", err)
	}
}

func TestCartSummaryUsesEffectivePrice(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	userID := uint(402)
	discounted := createCartTestProduct(t, db, "cart-price-apple", 100, 80, 10)
	regular := createCartTestProduct(t, db, "cart-price-banana", 40, 0, 10)

	if err := svc.UpsertItem(UpsertCartItemInput{UserID: userID, ProductID: discounted.ID, Quantity: 2}); err != nil {
		t.Fatalf("upsert discounted failed: %v", err)
	}
	if err := svc.UpsertItem(UpsertCartItemInput{UserID: userID, ProductID: regular.ID, Quantity: 1}); err != nil {
		t.Fatalf("upsert regular failed: %v", err)
	}

	summary, err := svc.ListByUser(userID)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(summary.Items) != 2 {
		t.Fatalf("expected 2 cart items, got %d", len(summary.Items))
	}
	// 折后价 80×2 + 原价 40×1 = 200
	if summary.Subtotal.String() != "200.00" {
		t.Fatalf("unexpected subtotal: %s", summary.Subtotal.String())
	}
	if summary.TotalQuantity != 3 {
		t.Fatalf("total quantity want 3 got %d", summary.TotalQuantity)
	}
}

func TestCartDropsDeactivatedProducts(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	userID := uint(403)
	product := createCartTestProduct(t, db, "cart-inactive-jaggery", 60, 0, 5)

	if err := svc.UpsertItem(UpsertCartItemInput{UserID: userID, ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product failed: %v", err)
	}

	summary, err := svc.ListByUser(userID)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(summary.Items) != 0 {
		t.Fatalf("expected deactivated product dropped from cart, got %d items", len(summary.Items))
	}

	var count int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected cart row removed, got %d", count)
	}
}
