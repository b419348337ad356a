package service

import (
	"strings"

	"github.com/krishimart/krishimart/internal/constants"
	"github.com/krishimart/krishimart/internal/logger"
	"github.com/krishimart/krishimart/internal/models"
	"github.com/krishimart/krishimart/internal/repository"
)

// ReviewService 商品评价服务
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

// NewReviewService 创建评价服务
func NewReviewService(reviewRepo repository.ReviewRepository, orderRepo repository.OrderRepository, productRepo repository.ProductRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// CreateReviewInput 创建评价输入
type CreateReviewInput struct {
	UserID    uint
	ProductID uint
	OrderID   uint
	Rating    int
	Title     string
	Comment   string
	Images    []string
}

// normalizeReviewComment 校验评价内容（必填且限长）
func normalizeReviewComment(raw string) (string, error) {
	comment := strings.TrimSpace(raw)
	if comment == "" {
		return "", ErrReviewCommentRequired
	}
	if len(comment) > constants.ReviewCommentMaxLen {
		return "", ErrReviewCommentTooLong
	}
	return comment, nil
}

// Create 创建评价（仅限已送达订单中的商品，同单同品一次）
func (s *ReviewService) Create(input CreateReviewInput) (*models.Review, error) {
	if input.Rating < constants.ReviewRatingMin || input.Rating > constants.ReviewRatingMax {
		return nil, ErrReviewRatingInvalid
	}
	comment, err := normalizeReviewComment(input.Comment)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByIDAndUser(input.OrderID, input.UserID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusDelivered {
		return nil, ErrReviewNotAllowed
	}
	productInOrder := false
	for _, item := range order.Items {
		if item.ProductID == input.ProductID {
			productInOrder = true
			break
		}
	}
	if !productInOrder {
		return nil, ErrReviewNotAllowed
	}

	existing, err := s.reviewRepo.GetByUserProductOrder(input.UserID, input.ProductID, input.OrderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrReviewExists
	}

	review := models.Review{
		UserID:    input.UserID,
		ProductID: input.ProductID,
		OrderID:   input.OrderID,
		Rating:    input.Rating,
		Title:     strings.TrimSpace(input.Title),
		Comment:   comment,
		Images:    input.Images,
		IsVisible: true,
	}
	if err := s.reviewRepo.Create(&review); err != nil {
		return nil, err
	}

	s.refreshProductRating(input.ProductID)
	return &review, nil
}

// UpdateReviewInput 更新评价输入
type UpdateReviewInput struct {
	Rating  int
	Title   string
	Comment string
	Images  []string
}

// Update 更新本人评价内容
func (s *ReviewService) Update(id, userID uint, input UpdateReviewInput) (*models.Review, error) {
	if input.Rating < constants.ReviewRatingMin || input.Rating > constants.ReviewRatingMax {
		return nil, ErrReviewRatingInvalid
	}
	comment, err := normalizeReviewComment(input.Comment)
	if err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if review == nil || review.UserID != userID {
		return nil, ErrReviewNotFound
	}

	review.Rating = input.Rating
	review.Title = strings.TrimSpace(input.Title)
	review.Comment = comment
	review.Images = input.Images
	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}
	s.refreshProductRating(review.ProductID)
	return review, nil
}

// ReviewableProduct 已送达订单中可评价的商品
type ReviewableProduct struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Reviewed  bool   `json:"reviewed"`
}

// ListReviewableByOrder 列出订单内可评价的商品（订单须已送达且属于本人）
func (s *ReviewService) ListReviewableByOrder(orderID, userID uint) ([]ReviewableProduct, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusDelivered {
		return nil, ErrReviewNotAllowed
	}

	items := make([]ReviewableProduct, 0, len(order.Items))
	for _, item := range order.Items {
		existing, err := s.reviewRepo.GetByUserProductOrder(userID, item.ProductID, orderID)
		if err != nil {
			return nil, err
		}
		items = append(items, ReviewableProduct{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			Reviewed:  existing != nil,
		})
	}
	return items, nil
}

// ListByProduct 商品公开评价列表
func (s *ReviewService) ListByProduct(productID uint, page, pageSize int) ([]models.Review, int64, error) {
	return s.reviewRepo.List(repository.ReviewListFilter{
		Page:        page,
		PageSize:    pageSize,
		ProductID:   productID,
		OnlyVisible: true,
		WithUser:    true,
	})
}

// ListByUser 用户自己的评价列表
func (s *ReviewService) ListByUser(userID uint, page, pageSize int) ([]models.Review, int64, error) {
	return s.reviewRepo.List(repository.ReviewListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      userID,
		WithProduct: true,
	})
}

// ListForAdmin 管理端评价列表
func (s *ReviewService) ListForAdmin(filter repository.ReviewListFilter) ([]models.Review, int64, error) {
	filter.WithUser = true
	filter.WithProduct = true
	return s.reviewRepo.List(filter)
}

// SetVisibility 管理端显示/隐藏评价
func (s *ReviewService) SetVisibility(id uint, visible bool) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	review.IsVisible = visible
	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}
	s.refreshProductRating(review.ProductID)
	return review, nil
}

// Delete 删除评价（本人或管理员，userID 为 0 表示管理员操作）
func (s *ReviewService) Delete(id, userID uint) error {
	review, err := s.reviewRepo.GetByID(id)
	if err != nil {
		return err
	}
	if review == nil {
		return ErrReviewNotFound
	}
	if userID != 0 && review.UserID != userID {
		return ErrReviewNotFound
	}
	if err := s.reviewRepo.Delete(id); err != nil {
		return err
	}
	s.refreshProductRating(review.ProductID)
	return nil
}

// refreshProductRating 重算商品评分聚合
func (s *ReviewService) refreshProductRating(productID uint) {
	avg, count, err := s.reviewRepo.AggregateByProduct(productID)
	if err != nil {
		logger.Warnw("review_rating_aggregate_failed",
			"product_id", productID,
			"error", err,
		)
		return
	}
	if err := s.productRepo.UpdateRating(productID, avg, int(count)); err != nil {
		logger.Warnw("review_rating_update_failed",
			"product_id", productID,
			"error", err,
		)
	}
}
