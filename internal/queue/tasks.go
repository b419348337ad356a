package queue

import (
	"encoding/json"

	"github.com/krishimart/krishimart/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderStatusEmail 订单状态邮件通知任务
	TaskOrderStatusEmail = constants.TaskOrderStatusEmail
	// TaskPaymentExpire 在线支付超时清理任务
	TaskPaymentExpire = constants.TaskPaymentExpire
)

// OrderStatusEmailPayload 订单状态邮件任务载荷
type OrderStatusEmailPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

// PaymentExpirePayload 支付超时清理任务载荷
type PaymentExpirePayload struct {
	OrderID uint `json:"order_id"`
}

// NewOrderStatusEmailTask 创建订单状态邮件任务
func NewOrderStatusEmailTask(payload OrderStatusEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusEmail, body), nil
}

// NewPaymentExpireTask 创建支付超时清理任务
func NewPaymentExpireTask(payload PaymentExpirePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPaymentExpire, body), nil
}
