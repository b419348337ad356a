package models

import (
	"time"
)

// OrderStatusLog 订单状态变更记录表
type OrderStatusLog struct {
	ID         uint      `gorm:"primarykey" json:"id"`                          // 主键
	OrderID    uint      `gorm:"not null;index" json:"order_id"`                // 订单ID
	FromStatus string    `gorm:"type:varchar(20);not null" json:"from_status"`  // 变更前状态
	ToStatus   string    `gorm:"type:varchar(20);not null" json:"to_status"`    // 变更后状态
	ActorType  string    `gorm:"type:varchar(20);not null" json:"actor_type"`   // 操作者类型（user/supplier/admin/system）
	ActorID    uint      `gorm:"not null;default:0" json:"actor_id"`            // 操作者ID（system 为 0）
	Note       string    `gorm:"type:text" json:"note"`                         // 备注
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                       // 创建时间
}

// TableName 指定表名
func (OrderStatusLog) TableName() string {
	return "order_status_logs"
}
