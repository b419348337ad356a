package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/krishimart/krishimart/internal/config"
	"github.com/krishimart/krishimart/internal/constants"
	"github.com/krishimart/krishimart/internal/logger"
	"github.com/krishimart/krishimart/internal/models"
	"github.com/krishimart/krishimart/internal/payment/razorpay"
	"github.com/krishimart/krishimart/internal/queue"
	"github.com/krishimart/krishimart/internal/repository"

	"gorm.io/gorm"
)

// PaymentService 支付服务
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	queueClient *queue.Client
	gatewayCfg  config.GatewayConfig
}

// NewPaymentService 创建支付服务
func NewPaymentService(paymentRepo repository.PaymentRepository, orderRepo repository.OrderRepository, cartRepo repository.CartRepository, queueClient *queue.Client, gatewayCfg config.GatewayConfig) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		queueClient: queueClient,
		gatewayCfg:  gatewayCfg,
	}
}

// PaymentOrderInfo 网关下单信息（前端拉起收银台所需）
type PaymentOrderInfo struct {
	PaymentID       uint   `json:"payment_id"`
	OrderNo         string `json:"order_no"`
	ProviderOrderID string `json:"provider_order_id"`
	Amount          int64  `json:"amount"` // 最小货币单位（paise）
	Currency        string `json:"currency"`
	KeyID           string `json:"key_id"`
}

// VerifyPaymentInput 支付回跳验签输入
type VerifyPaymentInput struct {
	OrderID           uint
	UserID            uint
	ProviderOrderID   string
	ProviderPaymentID string
	Signature         string
}

// CreatePaymentOrder 为在线支付订单创建网关订单（幂等）
func (s *PaymentService) CreatePaymentOrder(ctx context.Context, orderID, userID uint) (*PaymentOrderInfo, error) {
	cfg, err := s.resolveGatewayConfig()
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !isOnlinePaymentMethod(order.PaymentMethod) {
		return nil, ErrPaymentNotRequired
	}
	if order.Status != constants.OrderStatusPending {
		return nil, ErrOrderTransitionInvalid
	}

	payment, err := s.paymentRepo.GetByOrderID(order.ID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	if payment.Status == constants.PaymentStatusCompleted {
		return nil, ErrPaymentAlreadyCompleted
	}

	// 已有网关订单时直接复用
	if payment.ProviderOrderID != "" {
		amount, err := razorpay.AmountToSubunits(payment.Amount.String())
		if err != nil {
			return nil, err
		}
		return &PaymentOrderInfo{
			PaymentID:       payment.ID,
			OrderNo:         order.OrderNo,
			ProviderOrderID: payment.ProviderOrderID,
			Amount:          amount,
			Currency:        payment.Currency,
			KeyID:           cfg.KeyID,
		}, nil
	}

	result, err := razorpay.CreateOrder(ctx, cfg, razorpay.CreateOrderInput{
		OrderNo:  order.OrderNo,
		Amount:   order.TotalAmount.String(),
		Currency: order.Currency,
		Notes:    map[string]string{"order_no": order.OrderNo},
	})
	if err != nil {
		return nil, err
	}

	if err := s.paymentRepo.Updates(payment.ID, map[string]interface{}{
		"provider_order_id": result.ProviderOrderID,
		"updated_at":        time.Now(),
	}); err != nil {
		return nil, err
	}

	return &PaymentOrderInfo{
		PaymentID:       payment.ID,
		OrderNo:         order.OrderNo,
		ProviderOrderID: result.ProviderOrderID,
		Amount:          result.Amount,
		Currency:        result.Currency,
		KeyID:           cfg.KeyID,
	}, nil
}

// VerifyPayment 支付回跳验签，成功后确认订单并清空购物车
func (s *PaymentService) VerifyPayment(input VerifyPaymentInput) (*models.Order, error) {
	cfg, err := s.resolveGatewayConfig()
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByIDAndUser(input.OrderID, input.UserID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	payment, err := s.paymentRepo.GetByOrderID(order.ID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	if payment.Status == constants.PaymentStatusCompleted {
		return order, nil
	}
	if payment.ProviderOrderID == "" || payment.ProviderOrderID != strings.TrimSpace(input.ProviderOrderID) {
		return nil, ErrPaymentSignatureInvalid
	}

	if err := razorpay.VerifyPaymentSignature(cfg, input.ProviderOrderID, input.ProviderPaymentID, input.Signature); err != nil {
		// 验签失败只记录原因，订单保持待支付可重试
		if updateErr := s.paymentRepo.Updates(payment.ID, map[string]interface{}{
			"failure_reason": "signature verification failed",
			"updated_at":     time.Now(),
		}); updateErr != nil {
			logger.Warnw("payment_record_failure_failed",
				"payment_id", payment.ID,
				"error", updateErr,
			)
		}
		return nil, ErrPaymentSignatureInvalid
	}

	if err := s.completePayment(order, payment, strings.TrimSpace(input.ProviderPaymentID)); err != nil {
		return nil, err
	}
	s.enqueueStatusEmail(order.ID, constants.OrderStatusConfirmed)
	return s.orderRepo.GetByID(order.ID)
}

// RecordFailureInput 支付失败上报输入
type RecordFailureInput struct {
	OrderID uint
	UserID  uint
	Reason  string
}

// RecordFailure 记录前端上报的支付失败（订单保持待支付，可重试）
func (s *PaymentService) RecordFailure(input RecordFailureInput) error {
	order, err := s.orderRepo.GetByIDAndUser(input.OrderID, input.UserID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}

	payment, err := s.paymentRepo.GetByOrderID(order.ID)
	if err != nil {
		return err
	}
	if payment == nil {
		return ErrPaymentNotFound
	}
	if payment.Status == constants.PaymentStatusCompleted {
		return ErrPaymentAlreadyCompleted
	}

	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		reason = "payment failed"
	}
	if len(reason) > 500 {
		reason = reason[:500]
	}
	if err := s.paymentRepo.Updates(payment.ID, map[string]interface{}{
		"status":         constants.PaymentStatusFailed,
		"failure_reason": reason,
		"updated_at":     time.Now(),
	}); err != nil {
		return err
	}
	logger.Infow("payment_failure_recorded",
		"order_id", order.ID,
		"payment_id", payment.ID,
		"reason", reason,
	)
	return nil
}

// webhookEvent 网关 Webhook 事件载荷
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID               string `json:"id"`
				OrderID          string `json:"order_id"`
				ErrorDescription string `json:"error_description"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook 处理网关异步通知（幂等）
func (s *PaymentService) HandleWebhook(body []byte, signature string) error {
	cfg, err := s.resolveGatewayConfig()
	if err != nil {
		return err
	}
	if err := razorpay.VerifyWebhookSignature(cfg, body, signature); err != nil {
		return ErrPaymentSignatureInvalid
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return err
	}
	providerOrderID := strings.TrimSpace(event.Payload.Payment.Entity.OrderID)
	if providerOrderID == "" {
		return nil
	}

	payment, err := s.paymentRepo.GetByProviderOrderID(providerOrderID)
	if err != nil {
		return err
	}
	if payment == nil {
		logger.Warnw("payment_webhook_unknown_order",
			"provider_order_id", providerOrderID,
			"event", event.Event,
		)
		return nil
	}
	if payment.Status == constants.PaymentStatusCompleted {
		return nil
	}

	switch event.Event {
	case "payment.captured":
		order, err := s.orderRepo.GetByID(payment.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if err := s.completePayment(order, payment, event.Payload.Payment.Entity.ID); err != nil {
			return err
		}
		s.enqueueStatusEmail(order.ID, constants.OrderStatusConfirmed)
		return nil
	case "payment.failed":
		return s.paymentRepo.Updates(payment.ID, map[string]interface{}{
			"failure_reason": strings.TrimSpace(event.Payload.Payment.Entity.ErrorDescription),
			"updated_at":     time.Now(),
		})
	default:
		return nil
	}
}

// GetPaymentByOrder 查询订单支付记录
func (s *PaymentService) GetPaymentByOrder(orderID, userID uint) (*models.Payment, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	payment, err := s.paymentRepo.GetByOrderID(order.ID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}

// ListPayments 管理端支付记录列表
func (s *PaymentService) ListPayments(filter repository.PaymentListFilter) ([]models.Payment, int64, error) {
	return s.paymentRepo.List(filter)
}

// completePayment 支付完成：支付记录置完成、订单确认、清空购物车
func (s *PaymentService) completePayment(order *models.Order, payment *models.Payment, providerPaymentID string) error {
	now := time.Now()
	return s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		paymentRepo := s.paymentRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		if err := paymentRepo.Updates(payment.ID, map[string]interface{}{
			"status":              constants.PaymentStatusCompleted,
			"provider_payment_id": providerPaymentID,
			"failure_reason":      "",
			"completed_at":        now,
			"updated_at":          now,
		}); err != nil {
			return err
		}

		if order.Status == constants.OrderStatusPending {
			if err := orderRepo.UpdateStatus(order.ID, constants.OrderStatusConfirmed, map[string]interface{}{
				"confirmed_at": now,
				"updated_at":   now,
			}); err != nil {
				return err
			}
			if err := orderRepo.CreateStatusLog(&models.OrderStatusLog{
				OrderID:    order.ID,
				FromStatus: order.Status,
				ToStatus:   constants.OrderStatusConfirmed,
				ActorType:  constants.ActorTypeSystem,
				Note:       "payment completed",
				CreatedAt:  now,
			}); err != nil {
				return err
			}
		}

		return cartRepo.ClearByUser(order.UserID)
	})
}

// enqueueStatusEmail 投递订单状态通知邮件任务
func (s *PaymentService) enqueueStatusEmail(orderID uint, status string) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	payload := queue.OrderStatusEmailPayload{OrderID: orderID, Status: status}
	if err := s.queueClient.EnqueueOrderStatusEmail(payload); err != nil {
		logger.Warnw("payment_enqueue_status_email_failed",
			"order_id", orderID,
			"status", status,
			"error", err,
		)
	}
}

// resolveGatewayConfig 读取并校验网关配置
func (s *PaymentService) resolveGatewayConfig() (*razorpay.Config, error) {
	cfg := &razorpay.Config{
		BaseURL:       s.gatewayCfg.BaseURL,
		KeyID:         s.gatewayCfg.KeyID,
		KeySecret:     s.gatewayCfg.KeySecret,
		WebhookSecret: s.gatewayCfg.WebhookSecret,
		TimeoutMS:     s.gatewayCfg.TimeoutMS,
	}
	if err := razorpay.ValidateConfig(cfg); err != nil {
		return nil, ErrPaymentGatewayNotConfigured
	}
	return cfg, nil
}
