package service

import (
	"errors"
	"testing"

	"github.com/krishimart/krishimart/internal/constants"
	"github.com/krishimart/krishimart/internal/models"
	"github.com/krishimart/krishimart/internal/repository"

	"gorm.io/gorm"
)

func setupReviewServiceTest(t *testing.T) (*ReviewService, *OrderService, *gorm.DB) {
	t.Helper()
	orderSvc, db := setupOrderServiceTest(t)
	if err := db.AutoMigrate(&models.Review{}); err != nil {
		t.Fatalf("migrate review failed: %v", err)
	}
	reviewSvc := NewReviewService(
		repository.NewReviewRepository(db),
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
	)
	return reviewSvc, orderSvc, db
}

func deliverOrder(t *testing.T, orderSvc *OrderService, orderID uint) {
	t.Helper()
	for _, target := range []string{
		constants.OrderStatusConfirmed,
		constants.OrderStatusProcessing,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
	} {
		if _, err := orderSvc.UpdateOrderStatus(orderID, target, constants.ActorTypeAdmin, 1, ""); err != nil {
			t.Fatalf("transition to %s failed: %v", target, err)
		}
	}
}

func TestCreateReviewRequiresDeliveredOrder(t *testing.T) {
	reviewSvc, orderSvc, db := setupReviewServiceTest(t)
	userID := uint(301)
	product, address := seedCheckoutFixture(t, db, userID, "review-pending-wheat", 80, 6, 1)

	order, err := orderSvc.Checkout(CheckoutInput{
		UserID:         userID,
		AddressID:      address.ID,
		PaymentMethod:  constants.PaymentMethodCOD,
		IdempotencyKey: "review-pending-1",
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	_, err = reviewSvc.Create(CreateReviewInput{
		UserID:    userID,
		ProductID: product.ID,
		OrderID:   order.ID,
		Rating:    5,
		Comment:   "बहुत अच्छा गेहूं",
	})
	if !errors.Is(err, ErrReviewNotAllowed) {
		t.Fatalf("expected ErrReviewNotAllowed for pending order, got %v", err)
	}
}

func TestCreateReviewUpdatesProductRating(t *testing.T) {
	reviewSvc, orderSvc, db := setupReviewServiceTest(t)
	userID := uint(302)
	product, address := seedCheckoutFixture(t, db, userID, "review-rating-rice", 70, 6, 2)

	order, err := orderSvc.Checkout(CheckoutInput{
		UserID:         userID,
		AddressID:      address.ID,
		PaymentMethod:  constants.PaymentMethodCOD,
		IdempotencyKey: "review-rating-1",
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	deliverOrder(t, orderSvc, order.ID)

	review, err := reviewSvc.Create(CreateReviewInput{
		UserID:    userID,
		ProductID: product.ID,
		OrderID:   order.ID,
		Rating:    4,
		Comment:   "Good quality rice",
	})
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}
	if !review.IsVisible {
		t.Fatalf("expected visible review by default")
	}

	var fresh models.Product
	if err := db.First(&fresh, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if fresh.RatingCount != 1 || fresh.RatingAvg != 4 {
		t.Fatalf("expected rating avg 4 count 1, got %v/%d", fresh.RatingAvg, fresh.RatingCount)
	}

	// 同单同品不可重复评价
	_, err = reviewSvc.Create(CreateReviewInput{
		UserID:    userID,
		ProductID: product.ID,
		OrderID:   order.ID,
		Rating:    2,
		Comment:   "second attempt",
	})
	if !errors.Is(err, ErrReviewExists) {
		t.Fatalf("expected ErrReviewExists, got %v", err)
	}
}

func TestCreateReviewRejectsInvalidRating(t *testing.T) {
	reviewSvc, _, _ := setupReviewServiceTest(t)
	_, err := reviewSvc.Create(CreateReviewInput{UserID: 303, ProductID: 1, OrderID: 1, Rating: 0})
	if !errors.Is(err, ErrReviewRatingInvalid) {
		t.Fatalf("expected ErrReviewRatingInvalid, got %v", err)
	}
	_, err = reviewSvc.Create(CreateReviewInput{UserID: 303, ProductID: 1, OrderID: 1, Rating: 6})
	if !errors.Is(err, ErrReviewRatingInvalid) {
		t.Fatalf("expected ErrReviewRatingInvalid, got %v", err)
	}
}

func TestCreateReviewRequiresComment(t *testing.T) {
	reviewSvc, orderSvc, db := setupReviewServiceTest(t)
	userID := uint(308)
	product, address := seedCheckoutFixture(t, db, userID, "review-comment-jowar", 45, 6, 1)

	order, err := orderSvc.Checkout(CheckoutInput{
		UserID:         userID,
		AddressID:      address.ID,
		PaymentMethod:  constants.PaymentMethodCOD,
		IdempotencyKey: "review-comment-1",
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	deliverOrder(t, orderSvc, order.ID)

	// 空白内容视为缺失
	_, err = reviewSvc.Create(CreateReviewInput{
		UserID:    userID,
		ProductID: product.ID,
		OrderID:   order.ID,
		Rating:    3,
		Comment:   "   ",
	})
	if !errors.Is(err, ErrReviewCommentRequired) {
		t.Fatalf("expected ErrReviewCommentRequired, got %v", err)
	}

	review, err := reviewSvc.Create(CreateReviewInput{
		UserID:    userID,
		ProductID: product.ID,
		OrderID:   order.ID,
		Rating:    3,
		Title:     "  Decent jowar  ",
		Comment:   "grains were slightly uneven",
		Images:    []string{"https://cdn.krishimart.in/reviews/jowar-1.jpg"},
	})
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}
	if review.Title != "Decent jowar" {
		t.Fatalf("title want trimmed got %q", review.Title)
	}

	var fresh models.Review
	if err := db.First(&fresh, review.ID).Error; err != nil {
		t.Fatalf("reload review failed: %v", err)
	}
	if fresh.Title != "Decent jowar" || len(fresh.Images) != 1 {
		t.Fatalf("review optional fields not persisted: %+v", fresh)
	}

	if _, err := reviewSvc.Update(review.ID, userID, UpdateReviewInput{Rating: 4, Comment: ""}); !errors.Is(err, ErrReviewCommentRequired) {
		t.Fatalf("expected ErrReviewCommentRequired on update, got %v", err)
	}
}

func TestHideReviewRecalculatesAggregate(t *testing.T) {
	reviewSvc, orderSvc, db := setupReviewServiceTest(t)
	userID := uint(304)
	product, address := seedCheckoutFixture(t, db, userID, "review-hide-dal", 55, 6, 1)

	order, err := orderSvc.Checkout(CheckoutInput{
		UserID:         userID,
		AddressID:      address.ID,
		PaymentMethod:  constants.PaymentMethodCOD,
		IdempotencyKey: "review-hide-1",
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	deliverOrder(t, orderSvc, order.ID)

	review, err := reviewSvc.Create(CreateReviewInput{
		UserID:    userID,
		ProductID: product.ID,
		OrderID:   order.ID,
		Rating:    1,
		Comment:   "damaged packaging",
	})
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}

	if _, err := reviewSvc.SetVisibility(review.ID, false); err != nil {
		t.Fatalf("hide review failed: %v", err)
	}

	var fresh models.Product
	if err := db.First(&fresh, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if fresh.RatingCount != 0 {
		t.Fatalf("expected rating count 0 after hiding, got %d", fresh.RatingCount)
	}

	visible, total, err := reviewSvc.ListByProduct(product.ID, 1, 10)
	if err != nil {
		t.Fatalf("list reviews failed: %v", err)
	}
	if total != 0 || len(visible) != 0 {
		t.Fatalf("expected no visible reviews, got %d", total)
	}
}

func TestUpdateReviewRefreshesAggregate(t *testing.T) {
	reviewSvc, orderSvc, db := setupReviewServiceTest(t)
	userID := uint(305)
	product, address := seedCheckoutFixture(t, db, userID, "review-update-ghee", 520, 6, 1)

	order, err := orderSvc.Checkout(CheckoutInput{
		UserID:         userID,
		AddressID:      address.ID,
		PaymentMethod:  constants.PaymentMethodCOD,
		IdempotencyKey: "review-update-1",
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	deliverOrder(t, orderSvc, order.ID)

	review, err := reviewSvc.Create(CreateReviewInput{
		UserID:    userID,
		ProductID: product.ID,
		OrderID:   order.ID,
		Rating:    2,
		Comment:   "arrived late",
	})
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}

	updated, err := reviewSvc.Update(review.ID, userID, UpdateReviewInput{
		Rating:  5,
		Comment: "  replacement was excellent  ",
	})
	if err != nil {
		t.Fatalf("update review failed: %v", err)
	}
	if updated.Rating != 5 || updated.Comment != "replacement was excellent" {
		t.Fatalf("unexpected updated review: %d %q", updated.Rating, updated.Comment)
	}

	var fresh models.Product
	if err := db.First(&fresh, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if fresh.RatingAvg != 5 {
		t.Fatalf("expected rating avg 5 after update, got %v", fresh.RatingAvg)
	}

	// 他人无法修改该评价
	if _, err := reviewSvc.Update(review.ID, userID+1, UpdateReviewInput{Rating: 1, Comment: "not mine"}); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound for other user, got %v", err)
	}
	if _, err := reviewSvc.Update(review.ID, userID, UpdateReviewInput{Rating: 9}); !errors.Is(err, ErrReviewRatingInvalid) {
		t.Fatalf("expected ErrReviewRatingInvalid, got %v", err)
	}
}

func TestListReviewableByOrder(t *testing.T) {
	reviewSvc, orderSvc, db := setupReviewServiceTest(t)
	userID := uint(306)
	product, address := seedCheckoutFixture(t, db, userID, "reviewable-methi", 30, 6, 2)

	order, err := orderSvc.Checkout(CheckoutInput{
		UserID:         userID,
		AddressID:      address.ID,
		PaymentMethod:  constants.PaymentMethodCOD,
		IdempotencyKey: "reviewable-1",
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	// 未送达不可评价
	if _, err := reviewSvc.ListReviewableByOrder(order.ID, userID); !errors.Is(err, ErrReviewNotAllowed) {
		t.Fatalf("expected ErrReviewNotAllowed before delivery, got %v", err)
	}

	deliverOrder(t, orderSvc, order.ID)

	items, err := reviewSvc.ListReviewableByOrder(order.ID, userID)
	if err != nil {
		t.Fatalf("list reviewable failed: %v", err)
	}
	if len(items) != 1 || items[0].ProductID != product.ID || items[0].Reviewed {
		t.Fatalf("unexpected reviewable items: %+v", items)
	}

	if _, err := reviewSvc.Create(CreateReviewInput{
		UserID:    userID,
		ProductID: product.ID,
		OrderID:   order.ID,
		Rating:    4,
		Comment:   "fresh methi leaves",
	}); err != nil {
		t.Fatalf("create review failed: %v", err)
	}

	items, err = reviewSvc.ListReviewableByOrder(order.ID, userID)
	if err != nil {
		t.Fatalf("list reviewable after review failed: %v", err)
	}
	if len(items) != 1 || !items[0].Reviewed {
		t.Fatalf("expected reviewed flag set, got %+v", items)
	}

	// 他人订单不可见
	if _, err := reviewSvc.ListReviewableByOrder(order.ID, userID+1); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for other user, got %v", err)
	}
}
