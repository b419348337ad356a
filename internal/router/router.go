package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/krishimart/krishimart/internal/authz"
	"github.com/krishimart/krishimart/internal/cache"
	"github.com/krishimart/krishimart/internal/config"
	adminhandlers "github.com/krishimart/krishimart/internal/http/handlers/admin"
	publichandlers "github.com/krishimart/krishimart/internal/http/handlers/public"
	"github.com/krishimart/krishimart/internal/http/response"
	"github.com/krishimart/krishimart/internal/logger"
	"github.com/krishimart/krishimart/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "km"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/config", publicHandler.GetShopConfig)
			public.GET("/categories", publicHandler.GetCategories)
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/products/:slug", publicHandler.GetProductBySlug)
			public.GET("/products/:slug/reviews", publicHandler.GetProductReviews)
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.UserRegister)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetUserProfile)
			user.PUT("/me/profile", publicHandler.UpdateUserProfile)
			user.PUT("/me/password", publicHandler.UserChangePassword)
			user.GET("/me/reviews", publicHandler.ListMyReviews)

			user.GET("/cart", publicHandler.GetCart)
			user.POST("/cart/items", publicHandler.UpsertCartItem)
			user.DELETE("/cart/items/:product_id", publicHandler.RemoveCartItem)
			user.DELETE("/cart", publicHandler.ClearCart)

			user.GET("/addresses", publicHandler.ListAddresses)
			user.POST("/addresses", publicHandler.CreateAddress)
			user.PUT("/addresses/:id", publicHandler.UpdateAddress)
			user.POST("/addresses/:id/default", publicHandler.SetDefaultAddress)
			user.DELETE("/addresses/:id", publicHandler.DeleteAddress)

			user.POST("/orders/preview", publicHandler.PreviewCheckout)
			user.POST("/orders", publicHandler.Checkout)
			user.GET("/orders", publicHandler.ListUserOrders)
			user.GET("/orders/:id", publicHandler.GetUserOrder)
			user.GET("/orders/by-order-no/:order_no", publicHandler.GetUserOrderByNo)
			user.GET("/orders/:id/status-logs", publicHandler.ListUserOrderStatusLogs)
			user.POST("/orders/:id/cancel", publicHandler.CancelUserOrder)

			user.POST("/orders/:id/payment", publicHandler.CreatePaymentOrder)
			user.POST("/orders/:id/payment/verify", publicHandler.VerifyPayment)
			user.POST("/orders/:id/payment/failure", publicHandler.PaymentFailure)
			user.GET("/orders/:id/payment", publicHandler.GetOrderPayment)

			user.GET("/orders/:id/reviewable", publicHandler.ListReviewableProducts)
			user.POST("/reviews", publicHandler.CreateReview)
			user.PUT("/reviews/:id", publicHandler.UpdateMyReview)
			user.DELETE("/reviews/:id", publicHandler.DeleteMyReview)

			// 供应商接口
			supplier := user.Group("/supplier")
			supplier.Use(SupplierRoleMiddleware())
			{
				supplier.GET("/products", publicHandler.ListSupplierProducts)
				supplier.POST("/products", publicHandler.CreateSupplierProduct)
				supplier.PUT("/products/:id", publicHandler.UpdateSupplierProduct)
				supplier.DELETE("/products/:id", publicHandler.DeleteSupplierProduct)
				supplier.GET("/orders", publicHandler.ListSupplierOrders)
				supplier.GET("/orders/:id", publicHandler.GetSupplierOrder)
				supplier.PATCH("/orders/:id", publicHandler.UpdateSupplierOrderStatus)
			}
		}

		apiV1.POST("/payments/webhook/razorpay", publicHandler.PaymentWebhook)

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.GET("/captcha/image", adminHandler.GetAdminCaptcha)
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
			{
				authorized.GET("/me", adminHandler.GetAdminProfile)
				authorized.PUT("/password", adminHandler.UpdateAdminPassword)

				// 分类管理
				authorized.GET("/categories", adminHandler.GetAdminCategories)
				authorized.GET("/categories/:id", adminHandler.GetAdminCategory)
				authorized.POST("/categories", adminHandler.CreateCategory)
				authorized.PUT("/categories/:id", adminHandler.UpdateCategory)
				authorized.DELETE("/categories/:id", adminHandler.DeleteCategory)

				// 商品管理
				authorized.GET("/products", adminHandler.GetAdminProducts)
				authorized.GET("/products/:id", adminHandler.GetAdminProduct)
				authorized.POST("/products", adminHandler.CreateProduct)
				authorized.PUT("/products/:id", adminHandler.UpdateProduct)
				authorized.DELETE("/products/:id", adminHandler.DeleteProduct)

				// 订单管理
				authorized.GET("/orders", adminHandler.AdminListOrders)
				authorized.GET("/orders/:id", adminHandler.AdminGetOrder)
				authorized.GET("/orders/:id/status-logs", adminHandler.AdminListOrderStatusLogs)
				authorized.PATCH("/orders/:id", adminHandler.AdminUpdateOrderStatus)

				// 用户管理
				authorized.GET("/users", adminHandler.AdminListUsers)
				authorized.GET("/users/:id", adminHandler.AdminGetUser)
				authorized.PATCH("/users/:id/status", adminHandler.AdminSetUserStatus)

				// 评价管理
				authorized.GET("/reviews", adminHandler.AdminListReviews)
				authorized.PATCH("/reviews/:id/visibility", adminHandler.AdminSetReviewVisibility)
				authorized.DELETE("/reviews/:id", adminHandler.AdminDeleteReview)

				// 支付记录
				authorized.GET("/payments", adminHandler.AdminListPayments)

				// 设置管理
				authorized.GET("/settings", adminHandler.AdminGetSettings)
				authorized.PUT("/settings", adminHandler.AdminUpdateSettings)

				// 权限管理
				authorized.GET("/authz/me", adminHandler.GetAuthzMe)
				authorized.GET("/authz/roles", adminHandler.ListAuthzRoles)
				authorized.GET("/authz/admins", adminHandler.ListAuthzAdmins)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})
				authorized.POST("/authz/roles", adminHandler.CreateAuthzRole)
				authorized.DELETE("/authz/roles/:role", adminHandler.DeleteAuthzRole)
				authorized.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
				authorized.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
				authorized.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
				authorized.PUT("/authz/admins/:id/roles", adminHandler.SetAuthzAdminRoles)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		if item.Path == "/api/v1/admin/login" || item.Path == "/api/v1/admin/captcha/image" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}
