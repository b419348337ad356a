package constants

// 订单状态常量
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// 支付状态常量
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// 支付方式常量
const (
	PaymentMethodCOD        = "cash_on_delivery"
	PaymentMethodCard       = "card"
	PaymentMethodUPI        = "upi"
	PaymentMethodNetBanking = "net_banking"
)

// 用户角色常量
const (
	UserRoleCustomer = "customer"
	UserRoleSupplier = "supplier"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 地址类型常量
const (
	AddressTypeShipping = "shipping"
	AddressTypeBilling  = "billing"
	AddressTypeBusiness = "business"
)

// 状态流转操作方常量
const (
	ActorTypeUser     = "user"
	ActorTypeSupplier = "supplier"
	ActorTypeAdmin    = "admin"
	ActorTypeSystem   = "system"
)

// 商品计量单位常量
const (
	ProductUnitKG      = "kg"
	ProductUnitGram    = "gram"
	ProductUnitLitre   = "litre"
	ProductUnitPiece   = "piece"
	ProductUnitDozen   = "dozen"
	ProductUnitQuintal = "quintal"
)

// 站点货币默认值
const SiteCurrencyDefault = "INR"

// 设置项字段常量
const (
	SettingFieldSiteName              = "site_name"
	SettingFieldSiteCurrency          = "site_currency"
	SettingFieldTaxRatePercent        = "tax_rate_percent"
	SettingFieldFreeShippingThreshold = "free_shipping_threshold"
	SettingFieldShippingFlatFee       = "shipping_flat_fee"
	SettingFieldSupportEmail          = "support_email"
)

// 队列名称常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型常量
const (
	TaskOrderStatusEmail = "order:status_email"
	TaskPaymentExpire    = "payment:expire"
)

// 评分边界常量
const (
	ReviewRatingMin     = 1
	ReviewRatingMax     = 5
	ReviewCommentMaxLen = 2000
)
