package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                         // 主键
	OrderNo        string         `gorm:"uniqueIndex;not null" json:"order_no"`                         // 订单编号
	UserID         uint           `gorm:"index;not null;uniqueIndex:idx_order_user_idem" json:"user_id"` // 用户ID
	IdempotencyKey string         `gorm:"not null;uniqueIndex:idx_order_user_idem" json:"-"`            // 幂等键（与 UserID 联合唯一）
	Status         string         `gorm:"index;not null" json:"status"`                                 // 订单状态
	PaymentMethod  string         `gorm:"type:varchar(30);not null" json:"payment_method"`              // 支付方式
	Currency       string         `gorm:"not null" json:"currency"`                                     // 币种
	Subtotal       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`        // 商品小计
	Discount       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount"`        // 折扣合计（原价与成交价差额）
	TaxAmount      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"tax_amount"`      // 税费
	ShippingFee    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_fee"`    // 运费
	TotalAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`    // 应付总额
	AddressID      uint           `gorm:"not null" json:"address_id"`                                   // 下单时选择的地址ID
	ShippingName   string         `gorm:"not null" json:"shipping_name"`                                // 收货人快照
	ShippingPhone  string         `gorm:"type:varchar(20);not null" json:"shipping_phone"`              // 联系电话快照
	ShippingText   string         `gorm:"type:text;not null" json:"shipping_text"`                      // 收货地址快照（单行文本）
	Notes          string         `gorm:"type:text" json:"notes"`                                       // 买家备注
	ClientIP       string         `gorm:"type:varchar(64)" json:"client_ip,omitempty"`                  // 下单客户端IP
	ConfirmedAt    *time.Time     `json:"confirmed_at"`                                                 // 确认时间
	DeliveredAt    *time.Time     `gorm:"index" json:"delivered_at"`                                    // 送达时间
	CancelledAt    *time.Time     `gorm:"index" json:"cancelled_at"`                                    // 取消时间
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	// 关联
	Items      []OrderItem      `gorm:"foreignKey:OrderID" json:"items,omitempty"`       // 订单项
	Payment    *Payment         `gorm:"foreignKey:OrderID" json:"payment,omitempty"`     // 支付记录
	StatusLogs []OrderStatusLog `gorm:"foreignKey:OrderID" json:"status_logs,omitempty"` // 状态变更记录
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
