package models

import (
	"time"
)

// Payment 支付记录表（每订单一条）
type Payment struct {
	ID                uint       `gorm:"primarykey" json:"id"`                                    // 主键
	OrderID           uint       `gorm:"not null;uniqueIndex" json:"order_id"`                    // 订单ID
	Method            string     `gorm:"type:varchar(30);not null" json:"method"`                 // 支付方式
	Status            string     `gorm:"type:varchar(20);not null;index" json:"status"`           // 支付状态（pending/completed/failed/refunded）
	Amount            Money      `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`     // 支付金额
	Currency          string     `gorm:"not null" json:"currency"`                                // 币种
	ProviderOrderID   string     `gorm:"index" json:"provider_order_id,omitempty"`                // 网关订单号
	ProviderPaymentID string     `gorm:"index" json:"provider_payment_id,omitempty"`              // 网关支付流水号
	FailureReason     string     `gorm:"type:text" json:"failure_reason,omitempty"`               // 失败原因
	CompletedAt       *time.Time `gorm:"index" json:"completed_at"`                               // 完成时间
	CreatedAt         time.Time  `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt         time.Time  `json:"updated_at"`                                              // 更新时间
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
