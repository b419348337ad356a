package provider

import (
	"github.com/krishimart/krishimart/internal/authz"
	"github.com/krishimart/krishimart/internal/cache"
	"github.com/krishimart/krishimart/internal/config"
	"github.com/krishimart/krishimart/internal/logger"
	"github.com/krishimart/krishimart/internal/models"
	"github.com/krishimart/krishimart/internal/queue"
	"github.com/krishimart/krishimart/internal/repository"
	"github.com/krishimart/krishimart/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo    repository.AdminRepository
	UserRepo     repository.UserRepository
	CategoryRepo repository.CategoryRepository
	ProductRepo  repository.ProductRepository
	CartRepo     repository.CartRepository
	AddressRepo  repository.AddressRepository
	OrderRepo    repository.OrderRepository
	PaymentRepo  repository.PaymentRepository
	ReviewRepo   repository.ReviewRepository
	SettingRepo  repository.SettingRepository

	// Services
	AuthzService    *authz.Service
	AuthService     *service.AuthService
	UserAuthService *service.UserAuthService
	UserService     *service.UserService
	EmailService    *service.EmailService
	CaptchaService  *service.CaptchaService
	CategoryService *service.CategoryService
	ProductService  *service.ProductService
	CartService     *service.CartService
	AddressService  *service.AddressService
	OrderService    *service.OrderService
	PaymentService  *service.PaymentService
	ReviewService   *service.ReviewService
	SettingService  *service.SettingService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.AddressRepo = repository.NewAddressRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.SettingService = service.NewSettingService(c.SettingRepo)
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.UserService = service.NewUserService(c.UserRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, c.SettingService)
	c.AddressService = service.NewAddressService(c.AddressRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo, c.CartRepo, c.AddressRepo, c.PaymentRepo, c.QueueClient, c.SettingService, c.Config.Payment.PendingExpireMin)
	c.PaymentService = service.NewPaymentService(c.PaymentRepo, c.OrderRepo, c.CartRepo, c.QueueClient, c.Config.Payment.Gateway)
	c.ReviewService = service.NewReviewService(c.ReviewRepo, c.OrderRepo, c.ProductRepo)
}
