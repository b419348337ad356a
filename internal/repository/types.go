package repository

import (
	"time"

	"github.com/krishimart/krishimart/internal/models"
)

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page         int
	PageSize     int
	CategoryID   uint
	SupplierID   uint
	Search       string
	MinPrice     *models.Money
	MaxPrice     *models.Money
	IsOrganic    *bool
	OnlyActive   bool
	OnlyInStock  bool
	WithCategory bool
	OrderBy      string
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	SupplierID  uint
	Status      string
	OrderNo     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	Role        string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// ReviewListFilter 查询评价列表的过滤条件
type ReviewListFilter struct {
	Page        int
	PageSize    int
	ProductID   uint
	UserID      uint
	Rating      int
	OnlyVisible bool
	WithUser    bool
	WithProduct bool
}

// PaymentListFilter 查询支付记录列表的过滤条件
type PaymentListFilter struct {
	Page        int
	PageSize    int
	OrderID     uint
	Method      string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// CategoryListFilter 查询分类列表的过滤条件
type CategoryListFilter struct {
	Page       int
	PageSize   int
	Search     string
	OnlyActive bool
}
