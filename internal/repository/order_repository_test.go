package repository

import (
	"testing"
	"time"

	"github.com/krishimart/krishimart/internal/constants"
	"github.com/krishimart/krishimart/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderRepositoryTest(t *testing.T) (*GormOrderRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}, &models.OrderStatusLog{}, &models.Payment{}, &models.Product{}); err != nil {
		t.Fatalf("migrate order tables failed: %v", err)
	}
	return NewOrderRepository(db), db
}

func createTestOrder(t *testing.T, repo *GormOrderRepository, orderNo string, userID uint, idemKey string, items []models.OrderItem) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:        orderNo,
		UserID:         userID,
		IdempotencyKey: idemKey,
		Status:         constants.OrderStatusPending,
		PaymentMethod:  constants.PaymentMethodCOD,
		Currency:       constants.SiteCurrencyDefault,
		Subtotal:       models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		TotalAmount:    models.NewMoneyFromDecimal(decimal.NewFromInt(105)),
		AddressID:      1,
		ShippingName:   "Asha Devi",
		ShippingPhone:  "9876500000",
		ShippingText:   "12 Mandi Road, Nashik, Maharashtra 422001, India",
	}
	if err := repo.Create(order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestOrderCreatePersistsItemsAndLookupByIdempotencyKey(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t)

	items := []models.OrderItem{
		{
			ProductID:   11,
			SupplierID:  2,
			ProductName: "Alphonso Mango",
			Unit:        constants.ProductUnitDozen,
			UnitPrice:   models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
			Quantity:    2,
			LineTotal:   models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		},
	}
	order := createTestOrder(t, repo, "KM-TEST-0001", 7, "idem-abc-1", items)

	got, err := repo.GetByUserAndIdempotencyKey(7, "idem-abc-1")
	if err != nil {
		t.Fatalf("get by idempotency key failed: %v", err)
	}
	if got == nil || got.ID != order.ID {
		t.Fatalf("idempotency lookup mismatch: %+v", got)
	}
	if len(got.Items) != 1 || got.Items[0].ProductName != "Alphonso Mango" {
		t.Fatalf("order items not persisted: %+v", got.Items)
	}

	// 其他用户使用同一幂等键不应命中
	other, err := repo.GetByUserAndIdempotencyKey(8, "idem-abc-1")
	if err != nil {
		t.Fatalf("get by idempotency key failed: %v", err)
	}
	if other != nil {
		t.Fatalf("expected no order for other user, got %+v", other)
	}
}

func TestOrderUpdateStatusAndStatusLogTrail(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t)
	order := createTestOrder(t, repo, "KM-TEST-0002", 9, "idem-abc-2", nil)

	now := time.Now()
	if err := repo.UpdateStatus(order.ID, constants.OrderStatusConfirmed, map[string]interface{}{"confirmed_at": &now}); err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if err := repo.CreateStatusLog(&models.OrderStatusLog{
		OrderID:    order.ID,
		FromStatus: constants.OrderStatusPending,
		ToStatus:   constants.OrderStatusConfirmed,
		ActorType:  "system",
	}); err != nil {
		t.Fatalf("create status log failed: %v", err)
	}

	got, err := repo.GetByID(order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if got.Status != constants.OrderStatusConfirmed {
		t.Fatalf("status want confirmed got %s", got.Status)
	}
	if got.ConfirmedAt == nil {
		t.Fatalf("confirmed_at not set")
	}

	logs, err := repo.ListStatusLogs(order.ID)
	if err != nil {
		t.Fatalf("list status logs failed: %v", err)
	}
	if len(logs) != 1 || logs[0].ToStatus != constants.OrderStatusConfirmed {
		t.Fatalf("unexpected status logs: %+v", logs)
	}
}

func TestListBySupplierOnlyReturnsOrdersWithSupplierItems(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t)

	supplierItems := []models.OrderItem{
		{ProductID: 21, SupplierID: 55, ProductName: "Basmati Rice", Unit: constants.ProductUnitKG, Quantity: 1},
	}
	withSupplier := createTestOrder(t, repo, "KM-TEST-0003", 10, "idem-abc-3", supplierItems)

	otherItems := []models.OrderItem{
		{ProductID: 22, SupplierID: 56, ProductName: "Mustard Oil", Unit: constants.ProductUnitLitre, Quantity: 1},
	}
	createTestOrder(t, repo, "KM-TEST-0004", 10, "idem-abc-4", otherItems)

	orders, total, err := repo.ListBySupplier(OrderListFilter{Page: 1, PageSize: 10, SupplierID: 55})
	if err != nil {
		t.Fatalf("list by supplier failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("total want 1 got %d", total)
	}
	if len(orders) != 1 || orders[0].ID != withSupplier.ID {
		t.Fatalf("unexpected supplier orders: %+v", orders)
	}

	owns, err := repo.SupplierOwnsOrder(withSupplier.ID, 55)
	if err != nil {
		t.Fatalf("supplier owns order failed: %v", err)
	}
	if !owns {
		t.Fatalf("supplier should own order %d", withSupplier.ID)
	}
}
