package service

import "errors"

// 服务层哨兵错误，处理器按 errors.Is 映射为业务码与多语言文案
var (
	ErrNotFound = errors.New("record not found")

	// 认证
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user disabled")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrWeakPassword       = errors.New("password too weak")
	ErrRoleInvalid        = errors.New("role invalid")
	ErrUserStatusInvalid  = errors.New("user status invalid")
	ErrProfileEmpty       = errors.New("profile update empty")
	ErrCaptchaInvalid     = errors.New("captcha invalid")

	// 分类
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategorySlugExists  = errors.New("category slug exists")
	ErrCategoryHasProducts = errors.New("category has products")

	// 商品
	ErrProductNotFound      = errors.New("product not found")
	ErrProductPriceInvalid  = errors.New("product price invalid")
	ErrProductUnitInvalid   = errors.New("product unit invalid")
	ErrProductNotAvailable  = errors.New("product not available")
	ErrProductSlugExists    = errors.New("product slug exists")
	ErrDiscountPriceInvalid = errors.New("discount price must be lower than price")
	ErrStockInsufficient    = errors.New("stock insufficient")
	ErrNotProductOwner      = errors.New("not product owner")

	// 购物车
	ErrCartItemInvalid = errors.New("cart item invalid")
	ErrCartEmpty       = errors.New("cart is empty")

	// 地址
	ErrAddressNotFound = errors.New("address not found")
	ErrAddressRequired = errors.New("shipping address required")

	// 订单
	ErrOrderNotFound          = errors.New("order not found")
	ErrOrderTransitionInvalid = errors.New("order status transition invalid")
	ErrOrderNotCancellable    = errors.New("order not cancellable")
	ErrIdempotencyKeyRequired = errors.New("idempotency key required")
	ErrPaymentMethodInvalid   = errors.New("payment method invalid")

	// 支付
	ErrPaymentNotFound             = errors.New("payment not found")
	ErrPaymentAlreadyCompleted     = errors.New("payment already completed")
	ErrPaymentSignatureInvalid     = errors.New("payment signature invalid")
	ErrPaymentNotRequired          = errors.New("payment not required for this order")
	ErrPaymentGatewayNotConfigured = errors.New("payment gateway not configured")

	// 评价
	ErrReviewExists          = errors.New("review already exists")
	ErrReviewNotAllowed      = errors.New("review requires delivered order")
	ErrReviewRatingInvalid   = errors.New("review rating invalid")
	ErrReviewCommentRequired = errors.New("review comment required")
	ErrReviewCommentTooLong  = errors.New("review comment too long")
	ErrReviewNotFound        = errors.New("review not found")

	// 站点设置与外围服务
	ErrSettingInvalid            = errors.New("setting invalid")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
)
