package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/krishimart/krishimart/internal/config"
	"github.com/krishimart/krishimart/internal/constants"
	"github.com/krishimart/krishimart/internal/models"
	"github.com/krishimart/krishimart/internal/repository"

	"gorm.io/gorm"
)

const testGatewaySecret = "test_key_secret"

func setupPaymentServiceTest(t *testing.T) (*PaymentService, *OrderService, *gorm.DB) {
	t.Helper()
	orderSvc, db := setupOrderServiceTest(t)
	paymentSvc := NewPaymentService(
		repository.NewPaymentRepository(db),
		repository.NewOrderRepository(db),
		repository.NewCartRepository(db),
		nil,
		config.GatewayConfig{
			KeyID:         "rzp_test_key",
			KeySecret:     testGatewaySecret,
			WebhookSecret: "test_webhook_secret",
		},
	)
	return paymentSvc, orderSvc, db
}

func signTestPayment(providerOrderID, providerPaymentID string) string {
	mac := hmac.New(sha256.New, []byte(testGatewaySecret))
	fmt.Fprintf(mac, "%s|%s", providerOrderID, providerPaymentID)
	return hex.EncodeToString(mac.Sum(nil))
}

func checkoutOnlineOrder(t *testing.T, orderSvc *OrderService, db *gorm.DB, userID uint, slug, idemKey, providerOrderID string) *models.Order {
	t.Helper()
	_, address := seedCheckoutFixture(t, db, userID, slug, 90, 5, 2)
	order, err := orderSvc.Checkout(CheckoutInput{
		UserID:         userID,
		AddressID:      address.ID,
		PaymentMethod:  constants.PaymentMethodUPI,
		IdempotencyKey: idemKey,
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if err := db.Model(&models.Payment{}).Where("order_id = ?", order.ID).
		Update("provider_order_id", providerOrderID).Error; err != nil {
		t.Fatalf("set provider order id failed: %v", err)
	}
	return order
}

func TestVerifyPaymentConfirmsOrderAndClearsCart(t *testing.T) {
	paymentSvc, orderSvc, db := setupPaymentServiceTest(t)
	userID := uint(201)
	order := checkoutOnlineOrder(t, orderSvc, db, userID, "verify-pay-tomato", "verify-pay-1", "order_test_201")

	verified, err := paymentSvc.VerifyPayment(VerifyPaymentInput{
		OrderID:           order.ID,
		UserID:            userID,
		ProviderOrderID:   "order_test_201",
		ProviderPaymentID: "pay_test_201",
		Signature:         signTestPayment("order_test_201", "pay_test_201"),
	})
	if err != nil {
		t.Fatalf("verify payment failed: %v", err)
	}
	if verified.Status != constants.OrderStatusConfirmed {
		t.Fatalf("expected confirmed order, got %s", verified.Status)
	}
	if verified.Payment == nil || verified.Payment.Status != constants.PaymentStatusCompleted {
		t.Fatalf("expected completed payment, got %+v", verified.Payment)
	}
	if verified.Payment.ProviderPaymentID != "pay_test_201" {
		t.Fatalf("unexpected provider payment id: %s", verified.Payment.ProviderPaymentID)
	}

	var cartCount int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&cartCount).Error; err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	if cartCount != 0 {
		t.Fatalf("expected cart cleared after payment, got %d items", cartCount)
	}

	// 重复验签应幂等返回
	again, err := paymentSvc.VerifyPayment(VerifyPaymentInput{
		OrderID:           order.ID,
		UserID:            userID,
		ProviderOrderID:   "order_test_201",
		ProviderPaymentID: "pay_test_201",
		Signature:         signTestPayment("order_test_201", "pay_test_201"),
	})
	if err != nil {
		t.Fatalf("replay verify failed: %v", err)
	}
	if again.ID != order.ID {
		t.Fatalf("expected same order on replay, got %d", again.ID)
	}
}

func TestVerifyPaymentRejectsBadSignature(t *testing.T) {
	paymentSvc, orderSvc, db := setupPaymentServiceTest(t)
	userID := uint(202)
	order := checkoutOnlineOrder(t, orderSvc, db, userID, "verify-bad-sig-peas", "verify-bad-1", "order_test_202")

	_, err := paymentSvc.VerifyPayment(VerifyPaymentInput{
		OrderID:           order.ID,
		UserID:            userID,
		ProviderOrderID:   "order_test_202",
		ProviderPaymentID: "pay_test_202",
		Signature:         "deadbeef",
	})
	if !errors.Is(err, ErrPaymentSignatureInvalid) {
		t.Fatalf("expected ErrPaymentSignatureInvalid, got %v", err)
	}

	// 验签失败订单保持待支付，可重试
	fresh, err := orderSvc.GetOrderByUser(order.ID, userID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if fresh.Status != constants.OrderStatusPending {
		t.Fatalf("expected order still pending, got %s", fresh.Status)
	}
	if fresh.Payment == nil || fresh.Payment.Status != constants.PaymentStatusPending {
		t.Fatalf("expected payment still pending, got %+v", fresh.Payment)
	}
	if fresh.Payment.FailureReason == "" {
		t.Fatalf("expected failure reason recorded")
	}
}

func TestHandleWebhookCapturedCompletesPayment(t *testing.T) {
	paymentSvc, orderSvc, db := setupPaymentServiceTest(t)
	userID := uint(203)
	order := checkoutOnlineOrder(t, orderSvc, db, userID, "webhook-capture-corn", "webhook-1", "order_test_203")

	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_test_203","order_id":"order_test_203"}}}}`)
	mac := hmac.New(sha256.New, []byte("test_webhook_secret"))
	mac.Write(body)
	signature := hex.EncodeToString(mac.Sum(nil))

	if err := paymentSvc.HandleWebhook(body, signature); err != nil {
		t.Fatalf("handle webhook failed: %v", err)
	}

	fresh, err := orderSvc.GetOrderByUser(order.ID, userID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if fresh.Status != constants.OrderStatusConfirmed {
		t.Fatalf("expected confirmed order after webhook, got %s", fresh.Status)
	}

	// 重放同一事件应为空操作
	if err := paymentSvc.HandleWebhook(body, signature); err != nil {
		t.Fatalf("replay webhook failed: %v", err)
	}
}

func TestCreatePaymentOrderRejectsCOD(t *testing.T) {
	paymentSvc, orderSvc, db := setupPaymentServiceTest(t)
	userID := uint(204)
	_, address := seedCheckoutFixture(t, db, userID, "cod-no-gateway-chili", 45, 4, 1)

	order, err := orderSvc.Checkout(CheckoutInput{
		UserID:         userID,
		AddressID:      address.ID,
		PaymentMethod:  constants.PaymentMethodCOD,
		IdempotencyKey: "cod-no-gateway-1",
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if _, err := paymentSvc.CreatePaymentOrder(context.Background(), order.ID, userID); !errors.Is(err, ErrPaymentNotRequired) {
		t.Fatalf("expected ErrPaymentNotRequired, got %v", err)
	}
}

func TestRecordFailureKeepsOrderRecoverable(t *testing.T) {
	paymentSvc, orderSvc, db := setupPaymentServiceTest(t)
	userID := uint(205)
	order := checkoutOnlineOrder(t, orderSvc, db, userID, "fail-retry-okra", "fail-retry-1", "order_test_205")

	if err := paymentSvc.RecordFailure(RecordFailureInput{
		OrderID: order.ID,
		UserID:  userID,
		Reason:  "upi app timed out",
	}); err != nil {
		t.Fatalf("record failure failed: %v", err)
	}

	fresh, err := orderSvc.GetOrderByUser(order.ID, userID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if fresh.Status != constants.OrderStatusPending {
		t.Fatalf("expected order still pending after failure, got %s", fresh.Status)
	}
	if fresh.Payment == nil || fresh.Payment.Status != constants.PaymentStatusFailed {
		t.Fatalf("expected failed payment, got %+v", fresh.Payment)
	}
	if fresh.Payment.FailureReason != "upi app timed out" {
		t.Fatalf("unexpected failure reason: %q", fresh.Payment.FailureReason)
	}

	// 失败后重试支付仍可验签成功
	verified, err := paymentSvc.VerifyPayment(VerifyPaymentInput{
		OrderID:           order.ID,
		UserID:            userID,
		ProviderOrderID:   "order_test_205",
		ProviderPaymentID: "pay_test_205",
		Signature:         signTestPayment("order_test_205", "pay_test_205"),
	})
	if err != nil {
		t.Fatalf("verify after failure failed: %v", err)
	}
	if verified.Payment == nil || verified.Payment.Status != constants.PaymentStatusCompleted {
		t.Fatalf("expected completed payment after retry, got %+v", verified.Payment)
	}

	// 支付完成后不再接受失败上报
	err = paymentSvc.RecordFailure(RecordFailureInput{OrderID: order.ID, UserID: userID})
	if !errors.Is(err, ErrPaymentAlreadyCompleted) {
		t.Fatalf("expected ErrPaymentAlreadyCompleted, got %v", err)
	}
}
