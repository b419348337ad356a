package i18n

// messages 按语言组织的消息目录
var messages = map[string]map[string]string{
	"en-IN": {
		"error.bad_request":       "invalid request",
		"error.validation_failed": "validation failed",
		"error.unauthorized":      "unauthorized",
		"error.forbidden":         "forbidden",
		"error.not_found":         "resource not found",
		"error.internal":          "internal server error",

		"error.auth_header_missing":      "authorization header missing",
		"error.auth_header_invalid":      "authorization header invalid",
		"error.jwt_secret_missing":       "jwt secret not configured",
		"error.token_invalid":            "invalid token",
		"error.token_revoked":            "token revoked, please sign in again",
		"error.login_too_many":           "too many login attempts, try again in %d seconds",
		"error.rate_limited":             "too many requests, try again in %d seconds",
		"error.rate_limit_unavailable":   "rate limiter unavailable",
		"error.user_disabled":            "account disabled",
		"error.supplier_role_required":   "supplier account required",
		"error.credentials_invalid":      "email or password incorrect",
		"error.account_disabled":         "account disabled",
		"error.email_exists":             "email already registered",
		"error.email_invalid":            "invalid email address",
		"error.password_policy":          "password does not meet the policy",
		"error.password_incorrect":       "current password incorrect",
		"error.password_min_length":      "password must be at least %d characters",
		"error.password_require_upper":   "password must contain an uppercase letter",
		"error.password_require_lower":   "password must contain a lowercase letter",
		"error.password_require_number":  "password must contain a digit",
		"error.password_require_special": "password must contain a special character",
		"error.role_not_allowed":         "operation not allowed for this role",
		"error.user_id_invalid":          "invalid user id",
		"error.user_id_type_invalid":     "invalid user id type",
		"error.admin_id_invalid":         "invalid admin id",
		"error.admin_id_type_invalid":    "invalid admin id type",
		"error.user_status_invalid":      "user status must be active or disabled",
		"error.captcha_required":         "captcha required",
		"error.captcha_invalid":          "captcha incorrect or expired",

		"error.category_not_found":     "category not found",
		"error.category_name_required": "category name required",
		"error.category_in_use":        "category still referenced by products",

		"error.product_not_found":        "product not found",
		"error.product_not_available":    "product not available",
		"error.product_price_invalid":    "product price invalid",
		"error.product_discount_invalid": "discount price must be less than price",
		"error.product_stock_invalid":    "product stock invalid",
		"error.product_not_owned":        "product belongs to another supplier",
		"error.product_unit_invalid":     "product unit not supported",

		"error.cart_item_invalid":       "cart item invalid",
		"error.cart_quantity_invalid":   "quantity must be at least 1",
		"error.cart_stock_insufficient": "requested quantity exceeds available stock",
		"error.cart_empty":              "cart is empty",
		"error.cart_fetch_failed":       "failed to load cart",
		"error.cart_update_failed":      "failed to update cart",

		"error.address_not_found":    "address not found",
		"error.address_invalid":      "address fields invalid",
		"error.address_type_invalid": "address type invalid",
		"error.address_required":     "a delivery address is required",

		"error.order_not_found":          "order not found",
		"error.order_create_failed":      "failed to place order",
		"error.order_fetch_failed":       "failed to load order",
		"error.order_update_failed":      "failed to update order",
		"error.order_cancel_not_allowed": "order can no longer be cancelled",
		"error.order_status_invalid":     "unknown order status",
		"error.order_transition_invalid": "status change not allowed from current status",
		"error.idempotency_key_required": "idempotency key required",
		"error.payment_method_invalid":   "payment method not supported",

		"error.payment_not_found":                "payment not found",
		"error.payment_invalid":                  "payment request invalid",
		"error.payment_not_required":             "order does not require online payment",
		"error.payment_status_invalid":           "payment is not awaiting confirmation",
		"error.payment_signature_invalid":        "payment signature verification failed",
		"error.payment_amount_mismatch":          "payment amount mismatch",
		"error.payment_gateway_request_failed":   "payment gateway request failed",
		"error.payment_gateway_response_invalid": "payment gateway response invalid",
		"error.payment_config_invalid":           "payment gateway not configured",
		"error.payment_already_completed":        "payment already completed for this order",

		"error.review_not_found":            "review not found",
		"error.review_rating_invalid":       "rating must be between 1 and 5",
		"error.review_comment_required":     "review comment required",
		"error.review_comment_too_long":     "review comment too long",
		"error.review_order_not_delivered":  "order must be delivered before reviewing",
		"error.review_product_not_in_order": "product is not part of this order",
		"error.review_exists":               "product already reviewed for this order",
		"error.review_not_owned":            "review belongs to another user",

		"error.settings_update_failed": "failed to update settings",
		"error.config_fetch_failed":    "failed to load shop configuration",
		"error.queue_unavailable":      "background queue unavailable",

		"order.status.pending":    "Pending",
		"order.status.confirmed":  "Confirmed",
		"order.status.processing": "Processing",
		"order.status.shipped":    "Shipped",
		"order.status.delivered":  "Delivered",
		"order.status.cancelled":  "Cancelled",

		"email.order_status.subject":        "Your order is now %s",
		"email.order_status.body":           "Order %s is now %s.\nOrder total: %s %s.\n\nThank you for shopping with KrishiMart.",
		"email.order_status.body_delivered": "Order %s has been delivered.\nOrder total: %s %s.\n\nWe hope the produce reached you fresh. You can now review the items from your orders page.",
		"email.order_status.body_cancelled": "Order %s has been cancelled.\nOrder total: %s %s.\n\nIf you already paid online, the amount will be reconciled by our support team.",
	},
	"hi-IN": {
		"error.bad_request":              "अमान्य अनुरोध",
		"error.unauthorized":             "अनधिकृत",
		"error.forbidden":                "अनुमति नहीं है",
		"error.not_found":                "संसाधन नहीं मिला",
		"error.internal":                 "आंतरिक सर्वर त्रुटि",
		"error.credentials_invalid":      "ईमेल या पासवर्ड गलत है",
		"error.cart_empty":               "कार्ट खाली है",
		"error.cart_stock_insufficient":  "मांगी गई मात्रा उपलब्ध स्टॉक से अधिक है",
		"error.address_required":         "डिलीवरी पता आवश्यक है",
		"error.order_not_found":          "ऑर्डर नहीं मिला",
		"error.order_cancel_not_allowed": "ऑर्डर अब रद्द नहीं किया जा सकता",
		"error.review_exists":            "इस ऑर्डर के लिए उत्पाद की समीक्षा पहले से मौजूद है",

		"order.status.pending":   "लंबित",
		"order.status.confirmed": "पुष्टि हो गई",
		"order.status.shipped":   "भेज दिया गया",
		"order.status.delivered": "डिलीवर हो गया",
		"order.status.cancelled": "रद्द",

		"email.order_status.subject": "आपका ऑर्डर अब %s है",
		"email.order_status.body":    "ऑर्डर %s अब %s है।\nऑर्डर राशि: %s %s।\n\nKrishiMart से खरीदारी के लिए धन्यवाद।",
	},
}
