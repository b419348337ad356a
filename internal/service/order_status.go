package service

import (
	"strings"

	"github.com/krishimart/krishimart/internal/constants"
)

// allowedTransitions 订单状态机（cancelled 仅允许从 pending 进入）
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusConfirmed: true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusConfirmed: {
		constants.OrderStatusProcessing: true,
	},
	constants.OrderStatusProcessing: {
		constants.OrderStatusShipped: true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered: true,
	},
}

// canTransitionOrderStatus 判断状态流转是否合法
func canTransitionOrderStatus(from, to string) bool {
	targets, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

// normalizeOrderStatus 归一化订单状态
func normalizeOrderStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case constants.OrderStatusPending:
		return constants.OrderStatusPending
	case constants.OrderStatusConfirmed:
		return constants.OrderStatusConfirmed
	case constants.OrderStatusProcessing:
		return constants.OrderStatusProcessing
	case constants.OrderStatusShipped:
		return constants.OrderStatusShipped
	case constants.OrderStatusDelivered:
		return constants.OrderStatusDelivered
	case constants.OrderStatusCancelled:
		return constants.OrderStatusCancelled
	default:
		return ""
	}
}

// normalizePaymentMethod 归一化支付方式
func normalizePaymentMethod(method string) string {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case constants.PaymentMethodCOD:
		return constants.PaymentMethodCOD
	case constants.PaymentMethodCard:
		return constants.PaymentMethodCard
	case constants.PaymentMethodUPI:
		return constants.PaymentMethodUPI
	case constants.PaymentMethodNetBanking:
		return constants.PaymentMethodNetBanking
	default:
		return ""
	}
}

// isOnlinePaymentMethod 是否在线支付方式（需走网关）
func isOnlinePaymentMethod(method string) bool {
	switch method {
	case constants.PaymentMethodCard, constants.PaymentMethodUPI, constants.PaymentMethodNetBanking:
		return true
	default:
		return false
	}
}
