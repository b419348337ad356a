package models

import (
	"time"
)

// OrderItem 订单项表（下单时快照商品信息）
type OrderItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                      // 主键
	OrderID     uint      `gorm:"not null;index" json:"order_id"`                            // 订单ID
	ProductID   uint      `gorm:"not null;index" json:"product_id"`                          // 商品ID
	SupplierID  uint      `gorm:"not null;index" json:"supplier_id"`                         // 供应商用户ID快照
	ProductName string    `gorm:"not null" json:"product_name"`                              // 商品名称快照
	Unit        string    `gorm:"type:varchar(20);not null" json:"unit"`                     // 计量单位快照
	UnitPrice   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`   // 成交单价快照
	Quantity    int       `gorm:"not null" json:"quantity"`                                  // 数量
	LineTotal   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"line_total"`   // 行小计
	CreatedAt   time.Time `json:"created_at"`                                                // 创建时间

	// 关联
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 商品信息（展示用）
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
