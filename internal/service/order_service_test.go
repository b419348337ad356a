package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/krishimart/krishimart/internal/constants"
	"github.com/krishimart/krishimart/internal/models"
	"github.com/krishimart/krishimart/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
		&models.Address{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusLog{},
		&models.Payment{},
		&models.Setting{},
	); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	settingService := NewSettingService(repository.NewSettingRepository(db))
	svc := NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		repository.NewCartRepository(db),
		repository.NewAddressRepository(db),
		repository.NewPaymentRepository(db),
		nil,
		settingService,
		30,
	)
	return svc, db
}

func seedCheckoutFixture(t *testing.T, db *gorm.DB, userID uint, slug string, price int64, stock, quantity int) (*models.Product, *models.Address) {
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
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	address := &models.Address{
		UserID:     userID,
		Type:       constants.AddressTypeShipping,
		FullName:   "Asha Devi",
		Phone:      "9876543210",
		Line1:      "12 Mandi Road",
		City:       "Nashik",
		State:      "Maharashtra",
		PostalCode: "422001",
		Country:    "India",
		IsDefault:  true,
	}
	if err := db.Create(address).Error; err != nil {
		t.Fatalf("create address failed: %v", err)
	}
	cartItem := &models.CartItem{UserID: userID, ProductID: product.ID, Quantity: quantity}
	if err := db.Create(cartItem).Error; err != nil {
		t.Fatalf("create cart item failed: %v", err)
	}
	return product, address
}

func TestCheckoutCreatesOrderWithTotals(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	userID := uint(101)
	product, address := seedCheckoutFixture(t, db, userID, "checkout-totals-onion", 100, 10, 2)

	order, err := svc.Checkout(CheckoutInput{
		UserID:         userID,
		AddressID:      address.ID,
		PaymentMethod:  constants.PaymentMethodCOD,
		IdempotencyKey: "checkout-totals-1",
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("expected pending order, got %s", order.Status)
	}
	// 小计 200，税 5% = 10，未达免邮门槛 500，运费 40
	if order.Subtotal.String() != "200.00" {
		t.Fatalf("unexpected subtotal: %s", order.Subtotal.String())
	}
	if order.TaxAmount.String() != "10.00" {
		t.Fatalf("unexpected tax: %s", order.TaxAmount.String())
	}
	if order.ShippingFee.String() != "40.00" {
		t.Fatalf("unexpected shipping fee: %s", order.ShippingFee.String())
	}
	if order.TotalAmount.String() != "250.00" {
		t.Fatalf("unexpected total: %s", order.TotalAmount.String())
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Fatalf("unexpected order items: %+v", order.Items)
	}
	// 货到付款不创建支付单
	if order.Payment != nil {
		t.Fatalf("expected no payment record for cod order, got %+v", order.Payment)
	}
	var paymentCount int64
	if err := db.Model(&models.Payment{}).Where("order_id = ?", order.ID).Count(&paymentCount).Error; err != nil {
		t.Fatalf("count payments failed: %v", err)
	}
	if paymentCount != 0 {
		t.Fatalf("expected 0 payment rows for cod order, got %d", paymentCount)
	}

	var fresh models.Product
	if err := db.First(&fresh, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if fresh.Stock != 8 {
		t.Fatalf("expected stock 8 after checkout, got %d", fresh.Stock)
	}

	// 货到付款下单后购物车应清空
	var cartCount int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&cartCount).Error; err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	if cartCount != 0 {
		t.Fatalf("expected empty cart, got %d items", cartCount)
	}
}

func TestCheckoutCapturesDiscountTotal(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	userID := uint(108)
	product := createCartTestProduct(t, db, "checkout-discount-alphonso", 100, 80, 10)
	_, address := seedCheckoutFixture(t, db, userID, "checkout-discount-guava", 50, 10, 1)
	if err := db.Create(&models.CartItem{UserID: userID, ProductID: product.ID, Quantity: 2}).Error; err != nil {
		t.Fatalf("create cart item failed: %v", err)
	}

	preview, err := svc.PreviewCheckout(userID)
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	// 折扣 (100-80)×2 = 40
	if preview.Discount.String() != "40.00" {
		t.Fatalf("unexpected preview discount: %s", preview.Discount.String())
	}

	order, err := svc.Checkout(CheckoutInput{
		UserID:         userID,
		AddressID:      address.ID,
		PaymentMethod:  constants.PaymentMethodCOD,
		IdempotencyKey: "checkout-discount-1",
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	// 小计 80×2 + 50×1 = 210
	if order.Subtotal.String() != "210.00" {
		t.Fatalf("unexpected subtotal: %s", order.Subtotal.String())
	}
	if order.Discount.String() != "40.00" {
		t.Fatalf("unexpected order discount: %s", order.Discount.String())
	}

	var fresh models.Order
	if err := db.First(&fresh, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if fresh.Discount.String() != "40.00" {
		t.Fatalf("discount not persisted: %s", fresh.Discount.String())
	}
}

func TestCheckoutIdempotentReplay(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	userID := uint(102)
	product, address := seedCheckoutFixture(t, db, userID, "checkout-replay-potato", 50, 6, 1)

	input := CheckoutInput{
		UserID:         userID,
		AddressID:      address.ID,
		PaymentMethod:  constants.PaymentMethodCOD,
		IdempotencyKey: "checkout-replay-1",
	}
	first, err := svc.Checkout(input)
	if err != nil {
		t.Fatalf("first checkout failed: %v", err)
	}
	second, err := svc.Checkout(input)
	if err != nil {
		t.Fatalf("replay checkout failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same order on replay, got %d and %d", first.ID, second.ID)
	}

	var fresh models.Product
	if err := db.First(&fresh, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if fresh.Stock != 5 {
		t.Fatalf("expected stock decremented once, got %d", fresh.Stock)
	}
}

func TestCheckoutRequiresIdempotencyKey(t *testing.T) {
	svc, _ := setupOrderServiceTest(t)
	_, err := svc.Checkout(CheckoutInput{
		UserID:        103,
		AddressID:     1,
		PaymentMethod: constants.PaymentMethodCOD,
	})
	if !errors.Is(err, ErrIdempotencyKeyRequired) {
		t.Fatalf("expected ErrIdempotencyKeyRequired, got %v", err)
	}
}

func TestCheckoutOnlinePaymentKeepsCart(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	userID := uint(104)
	_, address := seedCheckoutFixture(t, db, userID, "checkout-upi-mango", 120, 4, 1)

	order, err := svc.Checkout(CheckoutInput{
		UserID:         userID,
		AddressID:      address.ID,
		PaymentMethod:  constants.PaymentMethodUPI,
		IdempotencyKey: "checkout-upi-1",
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if order.PaymentMethod != constants.PaymentMethodUPI {
		t.Fatalf("unexpected payment method: %s", order.PaymentMethod)
	}
	if order.Payment == nil || order.Payment.Status != constants.PaymentStatusPending {
		t.Fatalf("expected pending payment record for online order, got %+v", order.Payment)
	}

	// 在线支付需等支付确认后再清购物车
	var cartCount int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&cartCount).Error; err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	if cartCount != 1 {
		t.Fatalf("expected cart kept for online payment, got %d items", cartCount)
	}
}

func TestCancelOrderRestoresStock(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	userID := uint(105)
	product, address := seedCheckoutFixture(t, db, userID, "cancel-restock-okra", 60, 5, 3)

	order, err := svc.Checkout(CheckoutInput{
		UserID:         userID,
		AddressID:      address.ID,
		PaymentMethod:  constants.PaymentMethodCOD,
		IdempotencyKey: "cancel-restock-1",
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	cancelled, err := svc.CancelOrder(order.ID, userID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled {
		t.Fatalf("expected cancelled status, got %s", cancelled.Status)
	}
	if cancelled.CancelledAt == nil {
		t.Fatalf("expected cancelled_at set")
	}
	if cancelled.Payment != nil {
		t.Fatalf("expected no payment record for cancelled cod order, got %+v", cancelled.Payment)
	}

	var fresh models.Product
	if err := db.First(&fresh, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if fresh.Stock != 5 {
		t.Fatalf("expected stock restored to 5, got %d", fresh.Stock)
	}

	// 已取消订单不可再次取消
	if _, err := svc.CancelOrder(order.ID, userID); !errors.Is(err, ErrOrderNotCancellable) {
		t.Fatalf("expected ErrOrderNotCancellable, got %v", err)
	}
}

func TestUpdateOrderStatusFollowsTransitions(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	userID := uint(106)
	_, address := seedCheckoutFixture(t, db, userID, "transition-guava", 30, 8, 2)

	order, err := svc.Checkout(CheckoutInput{
		UserID:         userID,
		AddressID:      address.ID,
		PaymentMethod:  constants.PaymentMethodCOD,
		IdempotencyKey: "transition-1",
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	// pending 不能直接跳到 shipped
	if _, err := svc.UpdateOrderStatus(order.ID, constants.OrderStatusShipped, constants.ActorTypeAdmin, 1, ""); !errors.Is(err, ErrOrderTransitionInvalid) {
		t.Fatalf("expected ErrOrderTransitionInvalid, got %v", err)
	}

	for i, target := range []string{
		constants.OrderStatusConfirmed,
		constants.OrderStatusProcessing,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
	} {
		updated, err := svc.UpdateOrderStatus(order.ID, target, constants.ActorTypeAdmin, 1, fmt.Sprintf("step %d", i+1))
		if err != nil {
			t.Fatalf("transition to %s failed: %v", target, err)
		}
		if updated.Status != target {
			t.Fatalf("expected status %s, got %s", target, updated.Status)
		}
	}

	final, err := svc.GetOrderForAdmin(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if final.ConfirmedAt == nil || final.DeliveredAt == nil {
		t.Fatalf("expected confirmed_at and delivered_at set")
	}
	// 建单 + 四次流转 = 五条状态记录
	if len(final.StatusLogs) != 5 {
		t.Fatalf("expected 5 status logs, got %d", len(final.StatusLogs))
	}

	// 已送达订单不可再取消
	if _, err := svc.UpdateOrderStatus(order.ID, constants.OrderStatusCancelled, constants.ActorTypeAdmin, 1, ""); !errors.Is(err, ErrOrderTransitionInvalid) {
		t.Fatalf("expected ErrOrderTransitionInvalid for delivered order, got %v", err)
	}
}

func TestCheckoutInsufficientStock(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	userID := uint(107)
	_, address := seedCheckoutFixture(t, db, userID, "oversell-brinjal", 25, 2, 5)

	_, err := svc.Checkout(CheckoutInput{
		UserID:         userID,
		AddressID:      address.ID,
		PaymentMethod:  constants.PaymentMethodCOD,
		IdempotencyKey: "oversell-1",
	})
	if !errors.Is(err, ErrStockInsufficient) {
		t.Fatalf("expected ErrStockInsufficient, got %v", err)
	}
}
