package repository

import (
	"testing"

	"github.com/krishimart/krishimart/internal/constants"
	"github.com/krishimart/krishimart/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupProductRepositoryTest(t *testing.T) (*GormProductRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
		t.Fatalf("migrate product failed: %v", err)
	}
	return NewProductRepository(db), db
}

func createTestProduct(t *testing.T, repo *GormProductRepository, slug string, price int64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID: 1,
		SupplierID: 1,
		Slug:       slug,
		Name:       "测试农产品 " + slug,
		Price:      models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
		Unit:       constants.ProductUnitKG,
		Stock:      stock,
		IsActive:   true,
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestDecrementStockGuardsAgainstOversell(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	product := createTestProduct(t, repo, "stock-guard-tomato", 40, 5)

	affected, err := repo.DecrementStock(product.ID, 3)
	if err != nil {
		t.Fatalf("decrement stock failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("decrement affected want 1 got %d", affected)
	}

	// 剩余 2，继续扣 3 应失败
	affected, err = repo.DecrementStock(product.ID, 3)
	if err != nil {
		t.Fatalf("decrement stock failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("oversell decrement affected want 0 got %d", affected)
	}

	got, err := repo.GetByID(product.ID)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if got.Stock != 2 {
		t.Fatalf("stock want 2 got %d", got.Stock)
	}
}

func TestIncrementStockRestocksCancelledQuantity(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	product := createTestProduct(t, repo, "restock-onion", 25, 10)

	if _, err := repo.DecrementStock(product.ID, 4); err != nil {
		t.Fatalf("decrement stock failed: %v", err)
	}
	if err := repo.IncrementStock(product.ID, 4); err != nil {
		t.Fatalf("increment stock failed: %v", err)
	}

	got, err := repo.GetByID(product.ID)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if got.Stock != 10 {
		t.Fatalf("stock want 10 got %d", got.Stock)
	}
}

func TestProductListFiltersByEffectivePriceRange(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	createTestProduct(t, repo, "price-range-cheap", 20, 10)
	expensive := createTestProduct(t, repo, "price-range-expensive", 200, 10)

	// 折后价参与价格筛选
	discount := models.NewMoneyFromDecimal(decimal.NewFromInt(90))
	expensive.DiscountPrice = &discount
	if err := repo.Update(expensive); err != nil {
		t.Fatalf("update product failed: %v", err)
	}

	min := models.NewMoneyFromDecimal(decimal.NewFromInt(50))
	max := models.NewMoneyFromDecimal(decimal.NewFromInt(100))
	products, total, err := repo.List(ProductListFilter{
		Page:     1,
		PageSize: 10,
		MinPrice: &min,
		MaxPrice: &max,
	})
	if err != nil {
		t.Fatalf("list products failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("total want 1 got %d", total)
	}
	if len(products) != 1 || products[0].Slug != "price-range-expensive" {
		t.Fatalf("unexpected products: %+v", products)
	}
}

func TestProductListOnlyInStockExcludesSoldOut(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	createTestProduct(t, repo, "karela-batch-available", 15, 3)
	createTestProduct(t, repo, "karela-batch-soldout", 120, 0)

	products, total, err := repo.List(ProductListFilter{
		Page:        1,
		PageSize:    10,
		Search:      "karela-batch",
		OnlyInStock: true,
	})
	if err != nil {
		t.Fatalf("list products failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("total want 1 got %d", total)
	}
	if len(products) != 1 || products[0].Slug != "karela-batch-available" {
		t.Fatalf("unexpected products: %+v", products)
	}
}
