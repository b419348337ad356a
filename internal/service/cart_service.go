package service

import (
	"time"

	"github.com/krishimart/krishimart/internal/models"
	"github.com/krishimart/krishimart/internal/repository"
)

// CartItemDetail 购物车项详情（用于响应）
type CartItemDetail struct {
	ProductID     uint            `json:"product_id"`
	Quantity      int             `json:"quantity"`
	UnitPrice     models.Money    `json:"unit_price"`
	OriginalPrice models.Money    `json:"original_price"`
	LineTotal     models.Money    `json:"line_total"`
	InStock       bool            `json:"in_stock"`
	Product       *models.Product `json:"product"`
}

// CartSummary 购物车汇总
type CartSummary struct {
	Items         []CartItemDetail `json:"items"`
	TotalQuantity int              `json:"total_quantity"`
	Subtotal      models.Money     `json:"subtotal"`
	Currency      string           `json:"currency"`
}

// UpsertCartItemInput 购物车更新输入
type UpsertCartItemInput struct {
	UserID    uint
	ProductID uint
	Quantity  int
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	settingSvc  *SettingService
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, settingSvc *SettingService) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		settingSvc:  settingSvc,
	}
}

// ListByUser 获取用户购物车（失效商品自动移除）
func (s *CartService) ListByUser(userID uint) (*CartSummary, error) {
	if userID == 0 {
		return nil, ErrCartItemInvalid
	}
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingSvc.GetCheckoutSettings()
	if err != nil {
		return nil, err
	}

	summary := CartSummary{
		Items:    make([]CartItemDetail, 0, len(items)),
		Subtotal: models.ZeroMoney(),
		Currency: settings.Currency,
	}
	for _, item := range items {
		product := item.Product
		if product.ID == 0 {
			p, err := s.productRepo.GetByID(item.ProductID)
			if err != nil {
				return nil, err
			}
			if p == nil {
				_, _ = s.cartRepo.DeleteByUserAndProduct(userID, item.ProductID)
				continue
			}
			product = *p
		}
		if !product.IsActive {
			_, _ = s.cartRepo.DeleteByUserAndProduct(userID, item.ProductID)
			continue
		}

		unitPrice := product.EffectivePrice()
		lineTotal := unitPrice.MulInt(int64(item.Quantity))
		summary.TotalQuantity += item.Quantity
		summary.Subtotal = summary.Subtotal.Add(lineTotal)

		itemProduct := product
		summary.Items = append(summary.Items, CartItemDetail{
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			UnitPrice:     unitPrice,
			OriginalPrice: product.Price,
			LineTotal:     lineTotal,
			InStock:       product.Stock >= item.Quantity,
			Product:       &itemProduct,
		})
	}
	return &summary, nil
}

// UpsertItem 添加或更新购物车项（数量受库存约束）
func (s *CartService) UpsertItem(input UpsertCartItemInput) error {
	if input.UserID == 0 || input.ProductID == 0 || input.Quantity <= 0 {
		return ErrCartItemInvalid
	}
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return err
	}
	if product == nil || !product.IsActive {
		return ErrProductNotAvailable
	}
	if product.Stock < input.Quantity {
		return ErrStockInsufficient
	}

	now := time.Now()
	item := &models.CartItem{
		UserID:    input.UserID,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.cartRepo.Upsert(item)
}

// RemoveItem 删除购物车项
func (s *CartService) RemoveItem(userID, productID uint) error {
	if userID == 0 || productID == 0 {
		return ErrCartItemInvalid
	}
	rows, err := s.cartRepo.DeleteByUserAndProduct(userID, productID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear 清空购物车
func (s *CartService) Clear(userID uint) error {
	if userID == 0 {
		return ErrCartItemInvalid
	}
	return s.cartRepo.ClearByUser(userID)
}
