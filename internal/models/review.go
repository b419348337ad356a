package models

import (
	"time"

	"gorm.io/gorm"
)

// Review 商品评价表（user_id + product_id + order_id 唯一）
type Review struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                              // 主键
	UserID    uint           `gorm:"not null;uniqueIndex:idx_review_user_product_order" json:"user_id"` // 用户ID
	ProductID uint           `gorm:"not null;uniqueIndex:idx_review_user_product_order;index" json:"product_id"` // 商品ID
	OrderID   uint           `gorm:"not null;uniqueIndex:idx_review_user_product_order" json:"order_id"` // 订单ID（须已送达）
	Rating    int            `gorm:"not null" json:"rating"`                                            // 评分（1-5）
	Title     string         `gorm:"size:255" json:"title"`                                             // 评价标题（可选）
	Comment   string         `gorm:"type:text;not null" json:"comment"`                                 // 评价内容（必填）
	Images    StringArray    `gorm:"type:text" json:"images"`                                           // 评价图片（可选）
	IsVisible bool           `gorm:"not null;default:true;index" json:"is_visible"`                     // 是否展示（管理员可隐藏）
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                                           // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                                        // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                                    // 软删除时间

	// 关联
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`       // 评价用户
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 商品信息
}

// TableName 指定表名
func (Review) TableName() string {
	return "reviews"
}
