package worker

import (
	"context"
	"testing"

	"github.com/krishimart/krishimart/internal/provider"
	"github.com/krishimart/krishimart/internal/queue"

	"github.com/hibiken/asynq"
)

func TestHandlePaymentExpireRejectsMalformedPayload(t *testing.T) {
	c := NewConsumer(&provider.Container{})
	task := asynq.NewTask(queue.TaskPaymentExpire, []byte("{not json"))
	if err := c.handlePaymentExpire(context.Background(), task); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func TestHandlePaymentExpireSkipsZeroOrderID(t *testing.T) {
	c := NewConsumer(&provider.Container{})
	task := asynq.NewTask(queue.TaskPaymentExpire, []byte(`{"order_id":0}`))
	if err := c.handlePaymentExpire(context.Background(), task); err != nil {
		t.Fatalf("expected nil for empty payload, got %v", err)
	}
}

func TestHandleOrderStatusEmailRejectsMalformedPayload(t *testing.T) {
	c := NewConsumer(&provider.Container{})
	task := asynq.NewTask(queue.TaskOrderStatusEmail, []byte("{not json"))
	if err := c.handleOrderStatusEmail(context.Background(), task); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func TestRegisterNilMuxIsNoop(t *testing.T) {
	c := NewConsumer(nil)
	c.Register(nil)
}
