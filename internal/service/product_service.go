package service

import (
	"strings"

	"github.com/krishimart/krishimart/internal/constants"
	"github.com/krishimart/krishimart/internal/models"
	"github.com/krishimart/krishimart/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductService 商品业务服务
type ProductService struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductService {
	return &ProductService{repo: repo, categoryRepo: categoryRepo}
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	CategoryID    uint
	Slug          string
	Name          string
	Description   string
	Price         decimal.Decimal
	DiscountPrice *decimal.Decimal
	Unit          string
	Stock         int
	IsOrganic     bool
	Origin        string
	Images        []string
	Tags          []string
	IsActive      *bool
	SortOrder     int
}

// ListPublic 获取公开商品列表
func (s *ProductService) ListPublic(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	filter.OnlyActive = true
	filter.WithCategory = true
	return s.repo.List(filter)
}

// GetPublicBySlug 获取公开商品详情
func (s *ProductService) GetPublicBySlug(slug string) (*models.Product, error) {
	product, err := s.repo.GetBySlug(strings.TrimSpace(slug), true)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListAdmin 获取后台商品列表
func (s *ProductService) ListAdmin(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	filter.OnlyActive = false
	filter.WithCategory = true
	return s.repo.List(filter)
}

// ListBySupplier 获取供应商自己的商品列表
func (s *ProductService) ListBySupplier(supplierID uint, filter repository.ProductListFilter) ([]models.Product, int64, error) {
	filter.SupplierID = supplierID
	filter.OnlyActive = false
	filter.WithCategory = true
	return s.repo.List(filter)
}

// GetByID 获取商品详情（后台/供应商）
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create 供应商创建商品
func (s *ProductService) Create(supplierID uint, input ProductInput) (*models.Product, error) {
	price, discountPrice, err := s.normalizePricing(input)
	if err != nil {
		return nil, err
	}
	unit := normalizeProductUnit(input.Unit)
	if unit == "" {
		return nil, ErrProductUnitInvalid
	}
	if input.Stock < 0 {
		return nil, ErrStockInsufficient
	}

	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	slug := strings.TrimSpace(input.Slug)
	count, err := s.repo.CountBySlug(slug, 0)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrProductSlugExists
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	product := models.Product{
		CategoryID:    input.CategoryID,
		SupplierID:    supplierID,
		Slug:          slug,
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		Price:         price,
		DiscountPrice: discountPrice,
		Unit:          unit,
		Stock:         input.Stock,
		IsOrganic:     input.IsOrganic,
		Origin:        strings.TrimSpace(input.Origin),
		Images:        models.StringArray(input.Images),
		Tags:          models.StringArray(input.Tags),
		IsActive:      isActive,
		SortOrder:     input.SortOrder,
	}
	if err := s.repo.Create(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Update 供应商更新自己的商品（supplierID 为 0 表示管理员操作）
func (s *ProductService) Update(id, supplierID uint, input ProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if supplierID != 0 && product.SupplierID != supplierID {
		return nil, ErrNotProductOwner
	}

	price, discountPrice, err := s.normalizePricing(input)
	if err != nil {
		return nil, err
	}
	unit := normalizeProductUnit(input.Unit)
	if unit == "" {
		return nil, ErrProductUnitInvalid
	}
	if input.Stock < 0 {
		return nil, ErrStockInsufficient
	}

	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	slug := strings.TrimSpace(input.Slug)
	count, err := s.repo.CountBySlug(slug, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrProductSlugExists
	}

	product.CategoryID = input.CategoryID
	product.Slug = slug
	product.Name = strings.TrimSpace(input.Name)
	product.Description = input.Description
	product.Price = price
	product.DiscountPrice = discountPrice
	product.Unit = unit
	product.Stock = input.Stock
	product.IsOrganic = input.IsOrganic
	product.Origin = strings.TrimSpace(input.Origin)
	product.Images = models.StringArray(input.Images)
	product.Tags = models.StringArray(input.Tags)
	product.SortOrder = input.SortOrder
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete 删除商品（supplierID 为 0 表示管理员操作）
func (s *ProductService) Delete(id, supplierID uint) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if supplierID != 0 && product.SupplierID != supplierID {
		return ErrNotProductOwner
	}
	return s.repo.Delete(id)
}

// normalizePricing 校验标价与折后价（折后价必须严格低于标价）
func (s *ProductService) normalizePricing(input ProductInput) (models.Money, *models.Money, error) {
	priceAmount := input.Price.Round(2)
	if priceAmount.LessThanOrEqual(decimal.Zero) {
		return models.Money{}, nil, ErrProductPriceInvalid
	}
	price := models.NewMoneyFromDecimal(priceAmount)

	if input.DiscountPrice == nil {
		return price, nil, nil
	}
	discountAmount := input.DiscountPrice.Round(2)
	if discountAmount.LessThanOrEqual(decimal.Zero) || discountAmount.GreaterThanOrEqual(priceAmount) {
		return models.Money{}, nil, ErrDiscountPriceInvalid
	}
	discount := models.NewMoneyFromDecimal(discountAmount)
	return price, &discount, nil
}

// normalizeProductUnit 归一化计量单位
func normalizeProductUnit(unit string) string {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case constants.ProductUnitKG:
		return constants.ProductUnitKG
	case constants.ProductUnitGram:
		return constants.ProductUnitGram
	case constants.ProductUnitLitre:
		return constants.ProductUnitLitre
	case constants.ProductUnitPiece:
		return constants.ProductUnitPiece
	case constants.ProductUnitDozen:
		return constants.ProductUnitDozen
	case constants.ProductUnitQuintal:
		return constants.ProductUnitQuintal
	case "":
		return constants.ProductUnitKG
	default:
		return ""
	}
}
