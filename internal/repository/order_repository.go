package repository

import (
	"errors"
	"time"

	"github.com/krishimart/krishimart/internal/constants"
	"github.com/krishimart/krishimart/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem) error
	GetByID(id uint) (*models.Order, error)
	GetByIDAndUser(id, userID uint) (*models.Order, error)
	GetByOrderNo(orderNo string) (*models.Order, error)
	GetByUserAndIdempotencyKey(userID uint, key string) (*models.Order, error)
	ListByUser(filter OrderListFilter) ([]models.Order, int64, error)
	ListAdmin(filter OrderListFilter) ([]models.Order, int64, error)
	ListBySupplier(filter OrderListFilter) ([]models.Order, int64, error)
	SupplierOwnsOrder(orderID, supplierID uint) (bool, error)
	UpdateStatus(id uint, status string, updates map[string]interface{}) error
	CreateStatusLog(log *models.OrderStatusLog) error
	ListStatusLogs(orderID uint) ([]models.OrderStatusLog, error)
	ListStalePendingOnline(before time.Time, limit int) ([]models.Order, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Transaction 执行事务
func (r *GormOrderRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create 创建订单与订单项
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem) error {
	if err := r.db.Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	order.Items = items
	return nil
}

func (r *GormOrderRepository) withDetail(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Items").
		Preload("Items.Product").
		Preload("Payment").
		Preload("StatusLogs", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		})
}

// GetByID 按ID获取订单（含明细）
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.withDetail(r.db).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDAndUser 获取用户自己的订单
func (r *GormOrderRepository) GetByIDAndUser(id, userID uint) (*models.Order, error) {
	var order models.Order
	err := r.withDetail(r.db).Where("id = ? AND user_id = ?", id, userID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo 按订单编号获取订单
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	var order models.Order
	err := r.withDetail(r.db).Where("order_no = ?", orderNo).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByUserAndIdempotencyKey 幂等键查重
func (r *GormOrderRepository) GetByUserAndIdempotencyKey(userID uint, key string) (*models.Order, error) {
	var order models.Order
	err := r.withDetail(r.db).Where("user_id = ? AND idempotency_key = ?", userID, key).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func applyOrderListFilter(query *gorm.DB, filter OrderListFilter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OrderNo != "" {
		query = query.Where("order_no = ?", filter.OrderNo)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("orders.created_at >= ?", filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("orders.created_at <= ?", filter.CreatedTo)
	}
	return query
}

// ListByUser 用户订单列表
func (r *GormOrderRepository) ListByUser(filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order

	query := r.db.Model(&models.Order{}).Where("user_id = ?", filter.UserID)
	query = applyOrderListFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Preload("Items").Preload("Payment").Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListAdmin 管理端订单列表
func (r *GormOrderRepository) ListAdmin(filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order

	query := r.db.Model(&models.Order{})
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	query = applyOrderListFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Preload("Items").Preload("Payment").Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListBySupplier 供应商相关订单列表（订单项含该供应商商品）
func (r *GormOrderRepository) ListBySupplier(filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order

	sub := r.db.Model(&models.OrderItem{}).Select("order_id").Where("supplier_id = ?", filter.SupplierID)
	query := r.db.Model(&models.Order{}).Where("id IN (?)", sub)
	query = applyOrderListFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// SupplierOwnsOrder 判断订单是否包含该供应商的商品
func (r *GormOrderRepository) SupplierOwnsOrder(orderID, supplierID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.OrderItem{}).Where("order_id = ? AND supplier_id = ?", orderID, supplierID).Count(&count).Error
	return count > 0, err
}

// UpdateStatus 更新订单状态及附加字段
func (r *GormOrderRepository) UpdateStatus(id uint, status string, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

// CreateStatusLog 写入状态变更记录
func (r *GormOrderRepository) CreateStatusLog(log *models.OrderStatusLog) error {
	if log == nil {
		return nil
	}
	return r.db.Create(log).Error
}

// ListStatusLogs 获取订单状态变更记录
func (r *GormOrderRepository) ListStatusLogs(orderID uint) ([]models.OrderStatusLog, error) {
	var logs []models.OrderStatusLog
	if err := r.db.Where("order_id = ?", orderID).Order("created_at ASC, id ASC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// ListStalePendingOnline 获取超时未支付的在线支付订单（过期清理用）
func (r *GormOrderRepository) ListStalePendingOnline(before time.Time, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var orders []models.Order
	err := r.db.Preload("Items").Preload("Payment").
		Where("status = ? AND payment_method <> ? AND created_at < ?",
			constants.OrderStatusPending, constants.PaymentMethodCOD, before).
		Order("created_at ASC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
