package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 农产品表
type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                         // 主键
	CategoryID    uint           `gorm:"not null;index" json:"category_id"`                            // 分类ID
	SupplierID    uint           `gorm:"not null;index" json:"supplier_id"`                            // 供应商用户ID
	Slug          string         `gorm:"uniqueIndex;not null" json:"slug"`                             // 唯一标识
	Name          string         `gorm:"not null;index" json:"name"`                                   // 商品名称
	Description   string         `gorm:"type:text" json:"description"`                                 // 商品描述
	Price         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`          // 标价
	DiscountPrice *Money         `gorm:"type:decimal(20,2)" json:"discount_price,omitempty"`          // 折后价（必须严格低于标价）
	Unit          string         `gorm:"type:varchar(20);not null;default:'kg'" json:"unit"`          // 计量单位（kg/gram/litre/piece/dozen/quintal）
	Stock         int            `gorm:"not null;default:0" json:"stock"`                              // 库存数量
	IsOrganic     bool           `gorm:"default:false;index" json:"is_organic"`                        // 是否有机
	Origin        string         `gorm:"type:varchar(100)" json:"origin"`                              // 产地
	Images        StringArray    `gorm:"type:text" json:"images"`                                      // 图片数组
	Tags          StringArray    `gorm:"type:text" json:"tags"`                                        // 标签数组
	IsActive      bool           `gorm:"default:true;index" json:"is_active"`                          // 是否上架
	SortOrder     int            `gorm:"default:0;index" json:"sort_order"`                            // 排序权重
	RatingAvg     float64        `gorm:"not null;default:0" json:"rating_avg"`                         // 平均评分（评价写入后更新）
	RatingCount   int            `gorm:"not null;default:0" json:"rating_count"`                       // 评价数量
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                                   // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	// 关联
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
	Supplier User     `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"` // 供应商信息
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// EffectivePrice 实际售价（有折后价时取折后价）
func (p Product) EffectivePrice() Money {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}
