package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/krishimart/krishimart/internal/constants"
	"github.com/krishimart/krishimart/internal/logger"
	"github.com/krishimart/krishimart/internal/models"
	"github.com/krishimart/krishimart/internal/queue"
	"github.com/krishimart/krishimart/internal/repository"

	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo      repository.OrderRepository
	productRepo    repository.ProductRepository
	cartRepo       repository.CartRepository
	addressRepo    repository.AddressRepository
	paymentRepo    repository.PaymentRepository
	queueClient    *queue.Client
	settingService *SettingService
	expireMinutes  int
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, cartRepo repository.CartRepository, addressRepo repository.AddressRepository, paymentRepo repository.PaymentRepository, queueClient *queue.Client, settingService *SettingService, expireMinutes int) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		cartRepo:       cartRepo,
		addressRepo:    addressRepo,
		paymentRepo:    paymentRepo,
		queueClient:    queueClient,
		settingService: settingService,
		expireMinutes:  expireMinutes,
	}
}

// CheckoutInput 下单输入
type CheckoutInput struct {
	UserID         uint
	AddressID      uint
	PaymentMethod  string
	IdempotencyKey string
	Notes          string
	ClientIP       string
}

// OrderPreview 结算金额预览
type OrderPreview struct {
	Currency    string             `json:"currency"`
	Subtotal    models.Money       `json:"subtotal"`
	Discount    models.Money       `json:"discount"`
	TaxAmount   models.Money       `json:"tax_amount"`
	ShippingFee models.Money       `json:"shipping_fee"`
	TotalAmount models.Money       `json:"total_amount"`
	Items       []OrderPreviewItem `json:"items"`
}

// OrderPreviewItem 结算订单项预览
type OrderPreviewItem struct {
	ProductID   uint         `json:"product_id"`
	ProductName string       `json:"product_name"`
	Unit        string       `json:"unit"`
	UnitPrice   models.Money `json:"unit_price"`
	Quantity    int          `json:"quantity"`
	LineTotal   models.Money `json:"line_total"`
}

// checkoutPlan 结算计划数据
type checkoutPlan struct {
	Items       []models.OrderItem
	Subtotal    models.Money
	Discount    models.Money
	TaxAmount   models.Money
	ShippingFee models.Money
	TotalAmount models.Money
	Currency    string
}

// PreviewCheckout 结算金额预览（不落库）
func (s *OrderService) PreviewCheckout(userID uint) (*OrderPreview, error) {
	plan, err := s.buildCheckoutPlan(userID)
	if err != nil {
		return nil, err
	}
	items := make([]OrderPreviewItem, 0, len(plan.Items))
	for _, item := range plan.Items {
		items = append(items, OrderPreviewItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Unit:        item.Unit,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal,
		})
	}
	return &OrderPreview{
		Currency:    plan.Currency,
		Subtotal:    plan.Subtotal,
		Discount:    plan.Discount,
		TaxAmount:   plan.TaxAmount,
		ShippingFee: plan.ShippingFee,
		TotalAmount: plan.TotalAmount,
		Items:       items,
	}, nil
}

// Checkout 购物车下单（幂等键相同的请求返回同一订单）
func (s *OrderService) Checkout(input CheckoutInput) (*models.Order, error) {
	if input.UserID == 0 {
		return nil, ErrCartItemInvalid
	}
	idempotencyKey := strings.TrimSpace(input.IdempotencyKey)
	if idempotencyKey == "" {
		return nil, ErrIdempotencyKeyRequired
	}

	existing, err := s.orderRepo.GetByUserAndIdempotencyKey(input.UserID, idempotencyKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	method := normalizePaymentMethod(input.PaymentMethod)
	if method == "" {
		return nil, ErrPaymentMethodInvalid
	}

	address, err := s.addressRepo.GetByIDAndUser(input.AddressID, input.UserID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrAddressRequired
	}

	plan, err := s.buildCheckoutPlan(input.UserID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &models.Order{
		OrderNo:        generateOrderNo(),
		UserID:         input.UserID,
		IdempotencyKey: idempotencyKey,
		Status:         constants.OrderStatusPending,
		PaymentMethod:  method,
		Currency:       plan.Currency,
		Subtotal:       plan.Subtotal,
		Discount:       plan.Discount,
		TaxAmount:      plan.TaxAmount,
		ShippingFee:    plan.ShippingFee,
		TotalAmount:    plan.TotalAmount,
		AddressID:      address.ID,
		ShippingName:   address.FullName,
		ShippingPhone:  address.Phone,
		ShippingText:   formatShippingText(address),
		Notes:          strings.TrimSpace(input.Notes),
		ClientIP:       strings.TrimSpace(input.ClientIP),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		paymentRepo := s.paymentRepo.WithTx(tx)

		for _, item := range plan.Items {
			affected, err := productRepo.DecrementStock(item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrStockInsufficient
			}
		}

		if err := orderRepo.Create(order, plan.Items); err != nil {
			return err
		}

		// 仅在线支付方式需要支付单，货到付款不落支付记录
		if method != constants.PaymentMethodCOD {
			payment := &models.Payment{
				OrderID:   order.ID,
				Method:    method,
				Status:    constants.PaymentStatusPending,
				Amount:    plan.TotalAmount,
				Currency:  plan.Currency,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := paymentRepo.Create(payment); err != nil {
				return err
			}
		}

		statusLog := &models.OrderStatusLog{
			OrderID:    order.ID,
			FromStatus: "",
			ToStatus:   constants.OrderStatusPending,
			ActorType:  constants.ActorTypeUser,
			ActorID:    input.UserID,
			CreatedAt:  now,
		}
		if err := orderRepo.CreateStatusLog(statusLog); err != nil {
			return err
		}

		// 货到付款立即清空购物车，在线支付等支付确认后再清
		if method == constants.PaymentMethodCOD {
			cartRepo := s.cartRepo.WithTx(tx)
			if err := cartRepo.ClearByUser(input.UserID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// 幂等键并发冲突时返回已存在的订单
		replay, lookupErr := s.orderRepo.GetByUserAndIdempotencyKey(input.UserID, idempotencyKey)
		if lookupErr == nil && replay != nil {
			return replay, nil
		}
		return nil, err
	}

	if isOnlinePaymentMethod(method) && s.queueClient != nil && s.queueClient.Enabled() {
		delay := time.Duration(s.resolveExpireMinutes()) * time.Minute
		if err := s.queueClient.EnqueuePaymentExpire(queue.PaymentExpirePayload{OrderID: order.ID}, delay); err != nil {
			logger.Warnw("order_enqueue_payment_expire_failed",
				"order_id", order.ID,
				"error", err,
			)
		}
	}
	s.enqueueStatusEmail(order.ID, constants.OrderStatusPending)

	return s.GetOrderByUser(order.ID, input.UserID)
}

// buildCheckoutPlan 基于购物车构建结算计划
func (s *OrderService) buildCheckoutPlan(userID uint) (*checkoutPlan, error) {
	cartItems, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, ErrCartEmpty
	}

	settings, err := s.settingService.GetCheckoutSettings()
	if err != nil {
		return nil, err
	}

	plan := checkoutPlan{
		Items:    make([]models.OrderItem, 0, len(cartItems)),
		Subtotal: models.ZeroMoney(),
		Discount: models.ZeroMoney(),
		Currency: settings.Currency,
	}
	for _, cartItem := range cartItems {
		product, err := s.productRepo.GetByID(cartItem.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.IsActive {
			return nil, ErrProductNotAvailable
		}
		if product.Stock < cartItem.Quantity {
			return nil, ErrStockInsufficient
		}

		unitPrice := product.EffectivePrice()
		lineTotal := unitPrice.MulInt(int64(cartItem.Quantity))
		plan.Subtotal = plan.Subtotal.Add(lineTotal)
		plan.Discount = plan.Discount.Add(product.Price.Sub(unitPrice).MulInt(int64(cartItem.Quantity)))
		plan.Items = append(plan.Items, models.OrderItem{
			ProductID:   product.ID,
			SupplierID:  product.SupplierID,
			ProductName: product.Name,
			Unit:        product.Unit,
			UnitPrice:   unitPrice,
			Quantity:    cartItem.Quantity,
			LineTotal:   lineTotal,
		})
	}

	plan.TaxAmount = plan.Subtotal.MulRate(settings.TaxRatePercent)
	if plan.Subtotal.Cmp(settings.FreeShippingThreshold) >= 0 {
		plan.ShippingFee = models.ZeroMoney()
	} else {
		plan.ShippingFee = settings.ShippingFlatFee
	}
	plan.TotalAmount = plan.Subtotal.Add(plan.TaxAmount).Add(plan.ShippingFee)
	return &plan, nil
}

// GetOrderByUser 用户查询订单详情
func (s *OrderService) GetOrderByUser(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetOrderByUserOrderNo 用户按订单号查询
func (s *OrderService) GetOrderByUserOrderNo(orderNo string, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(strings.TrimSpace(orderNo))
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrdersByUser 用户订单列表
func (s *OrderService) ListOrdersByUser(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(filter)
}

// ListOrdersForAdmin 管理端订单列表
func (s *OrderService) ListOrdersForAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// GetOrderForAdmin 管理端订单详情
func (s *OrderService) GetOrderForAdmin(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrdersForSupplier 供应商订单列表（含其商品的订单）
func (s *OrderService) ListOrdersForSupplier(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListBySupplier(filter)
}

// GetOrderForSupplier 供应商订单详情
func (s *OrderService) GetOrderForSupplier(orderID, supplierID uint) (*models.Order, error) {
	owns, err := s.orderRepo.SupplierOwnsOrder(orderID, supplierID)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, ErrOrderNotFound
	}
	return s.GetOrderForAdmin(orderID)
}

// ListStatusLogs 订单状态流转记录
func (s *OrderService) ListStatusLogs(orderID uint) ([]models.OrderStatusLog, error) {
	return s.orderRepo.ListStatusLogs(orderID)
}

// CancelOrder 用户取消订单（仅 pending 可取消，取消后回补库存）
func (s *OrderService) CancelOrder(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPending {
		return nil, ErrOrderNotCancellable
	}
	if err := s.cancelOrder(order, constants.ActorTypeUser, userID, "cancelled by customer"); err != nil {
		return nil, err
	}
	s.enqueueStatusEmail(order.ID, constants.OrderStatusCancelled)
	return s.GetOrderByUser(orderID, userID)
}

// UpdateOrderStatus 管理端/供应商推进订单状态
func (s *OrderService) UpdateOrderStatus(orderID uint, targetStatus, actorType string, actorID uint, note string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	target := normalizeOrderStatus(targetStatus)
	if target == "" {
		return nil, ErrOrderTransitionInvalid
	}
	if order.Status == target {
		return order, nil
	}
	if !canTransitionOrderStatus(order.Status, target) {
		return nil, ErrOrderTransitionInvalid
	}

	if target == constants.OrderStatusCancelled {
		if err := s.cancelOrder(order, actorType, actorID, note); err != nil {
			return nil, err
		}
		s.enqueueStatusEmail(order.ID, target)
		return s.GetOrderForAdmin(orderID)
	}

	now := time.Now()
	updates := map[string]interface{}{"updated_at": now}
	switch target {
	case constants.OrderStatusConfirmed:
		updates["confirmed_at"] = now
	case constants.OrderStatusDelivered:
		updates["delivered_at"] = now
	}

	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		if err := orderRepo.UpdateStatus(order.ID, target, updates); err != nil {
			return err
		}
		return orderRepo.CreateStatusLog(&models.OrderStatusLog{
			OrderID:    order.ID,
			FromStatus: order.Status,
			ToStatus:   target,
			ActorType:  actorType,
			ActorID:    actorID,
			Note:       strings.TrimSpace(note),
			CreatedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.enqueueStatusEmail(order.ID, target)
	return s.GetOrderForAdmin(orderID)
}

// CancelExpiredOrder 在线支付超时未付的订单自动取消（worker 调用）
func (s *OrderService) CancelExpiredOrder(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPending || !isOnlinePaymentMethod(order.PaymentMethod) {
		return order, nil
	}
	if order.Payment != nil && order.Payment.Status == constants.PaymentStatusCompleted {
		return order, nil
	}
	if err := s.cancelOrder(order, constants.ActorTypeSystem, 0, "payment window expired"); err != nil {
		return nil, err
	}
	s.enqueueStatusEmail(order.ID, constants.OrderStatusCancelled)
	return s.GetOrderForAdmin(orderID)
}

// SweepStalePending 兜底扫描取消超时未付的在线订单
func (s *OrderService) SweepStalePending(limit int) (int, error) {
	before := time.Now().Add(-time.Duration(s.resolveExpireMinutes()) * time.Minute)
	orders, err := s.orderRepo.ListStalePendingOnline(before, limit)
	if err != nil {
		return 0, err
	}
	cancelled := 0
	for _, order := range orders {
		if _, err := s.CancelExpiredOrder(order.ID); err != nil {
			logger.Warnw("order_expire_sweep_failed",
				"order_id", order.ID,
				"error", err,
			)
			continue
		}
		cancelled++
	}
	return cancelled, nil
}

// cancelOrder 取消订单并回补库存
func (s *OrderService) cancelOrder(order *models.Order, actorType string, actorID uint, note string) error {
	now := time.Now()
	return s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		paymentRepo := s.paymentRepo.WithTx(tx)

		updates := map[string]interface{}{
			"cancelled_at": now,
			"updated_at":   now,
		}
		if err := orderRepo.UpdateStatus(order.ID, constants.OrderStatusCancelled, updates); err != nil {
			return err
		}

		for _, item := range order.Items {
			if err := productRepo.IncrementStock(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		payment, err := paymentRepo.GetByOrderID(order.ID)
		if err != nil {
			return err
		}
		if payment != nil && payment.Status == constants.PaymentStatusPending {
			if err := paymentRepo.Updates(payment.ID, map[string]interface{}{
				"status":         constants.PaymentStatusFailed,
				"failure_reason": strings.TrimSpace(note),
				"updated_at":     now,
			}); err != nil {
				return err
			}
		}

		return orderRepo.CreateStatusLog(&models.OrderStatusLog{
			OrderID:    order.ID,
			FromStatus: order.Status,
			ToStatus:   constants.OrderStatusCancelled,
			ActorType:  actorType,
			ActorID:    actorID,
			Note:       strings.TrimSpace(note),
			CreatedAt:  now,
		})
	})
}

// enqueueStatusEmail 订单状态变更后投递通知邮件任务
func (s *OrderService) enqueueStatusEmail(orderID uint, status string) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	payload := queue.OrderStatusEmailPayload{OrderID: orderID, Status: status}
	if err := s.queueClient.EnqueueOrderStatusEmail(payload); err != nil {
		logger.Warnw("order_enqueue_status_email_failed",
			"order_id", orderID,
			"status", status,
			"error", err,
		)
	}
}

// resolveExpireMinutes 在线支付超时时长（分钟）
func (s *OrderService) resolveExpireMinutes() int {
	if s.expireMinutes > 0 {
		return s.expireMinutes
	}
	return 30
}

// formatShippingText 收货地址快照（单行文本）
func formatShippingText(address *models.Address) string {
	parts := make([]string, 0, 6)
	for _, part := range []string{address.Line1, address.Line2, address.City, address.State, address.PostalCode, address.Country} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, ", ")
}

// generateOrderNo 生成订单编号
func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("KM%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		fmt.Fprintf(&b, "%d", n.Int64())
	}
	return b.String()
}
