package repository

import (
	"errors"
	"strings"

	"github.com/krishimart/krishimart/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetByID(id uint) (*models.Product, error)
	GetBySlug(slug string, onlyActive bool) (*models.Product, error)
	ListByIDs(ids []uint) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
	CountBySlug(slug string, excludeID uint) (int64, error)
	DecrementStock(productID uint, quantity int) (int64, error)
	IncrementStock(productID uint, quantity int) error
	UpdateRating(productID uint, avg float64, count int) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Transaction 执行事务
func (r *GormProductRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List 商品列表
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	var products []models.Product

	query := r.db.Model(&models.Product{})
	if filter.WithCategory {
		query = query.Preload("Category")
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.OnlyInStock {
		query = query.Where("stock > 0")
	}
	if filter.CategoryID > 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.SupplierID > 0 {
		query = query.Where("supplier_id = ?", filter.SupplierID)
	}
	if filter.IsOrganic != nil {
		query = query.Where("is_organic = ?", *filter.IsOrganic)
	}
	// 价格筛选基于实际售价（有折后价时取折后价）
	if filter.MinPrice != nil {
		query = query.Where("COALESCE(discount_price, price) >= ?", filter.MinPrice.String())
	}
	if filter.MaxPrice != nil {
		query = query.Where("COALESCE(discount_price, price) <= ?", filter.MaxPrice.String())
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		condition, argCount := buildLikeCondition(r.db, []string{"name", "slug", "description", "origin"})
		query = query.Where(condition, repeatLikeArgs(like, argCount)...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	query = query.Order(productOrderClause(filter.OrderBy))
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func productOrderClause(orderBy string) string {
	switch strings.ToLower(strings.TrimSpace(orderBy)) {
	case "price_asc":
		return "COALESCE(discount_price, price) ASC, id ASC"
	case "price_desc":
		return "COALESCE(discount_price, price) DESC, id ASC"
	case "rating":
		return "rating_avg DESC, rating_count DESC, id ASC"
	case "newest":
		return "created_at DESC, id DESC"
	default:
		return "sort_order DESC, created_at DESC"
	}
}

// GetByID 按ID获取商品
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Category").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetBySlug 按 slug 获取商品
func (r *GormProductRepository) GetBySlug(slug string, onlyActive bool) (*models.Product, error) {
	query := r.db.Preload("Category").Where("slug = ?", slug)
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	var product models.Product
	if err := query.First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// ListByIDs 批量获取商品
func (r *GormProductRepository) ListByIDs(ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update 保存商品
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// Delete 删除商品（软删除）
func (r *GormProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

// CountBySlug slug 查重
func (r *GormProductRepository) CountBySlug(slug string, excludeID uint) (int64, error) {
	query := r.db.Model(&models.Product{}).Where("slug = ?", slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

// DecrementStock 条件扣减库存，返回受影响行数（0 表示库存不足）
func (r *GormProductRepository) DecrementStock(productID uint, quantity int) (int64, error) {
	if quantity <= 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	return result.RowsAffected, result.Error
}

// IncrementStock 回补库存（取消订单时）
func (r *GormProductRepository) IncrementStock(productID uint, quantity int) error {
	if quantity <= 0 {
		return nil
	}
	return r.db.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity)).Error
}

// UpdateRating 更新商品评分聚合
func (r *GormProductRepository) UpdateRating(productID uint, avg float64, count int) error {
	return r.db.Model(&models.Product{}).Where("id = ?", productID).Updates(map[string]interface{}{
		"rating_avg":   avg,
		"rating_count": count,
	}).Error
}
