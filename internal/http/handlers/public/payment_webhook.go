package public

import (
	"io"
	"strings"

	"github.com/krishimart/krishimart/internal/http/response"

	"github.com/gin-gonic/gin"
)

const webhookRawBodyLogLimit = 4096

func webhookRawBodyForLog(body []byte) string {
	if len(body) > webhookRawBodyLogLimit {
		return string(body[:webhookRawBodyLogLimit])
	}
	return string(body)
}

// PaymentWebhook 支付网关异步通知回调
func (h *Handler) PaymentWebhook(c *gin.Context) {
	log := requestLog(c)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Warnw("payment_webhook_body_read_failed", "error", err)
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	signature := strings.TrimSpace(c.GetHeader("X-Razorpay-Signature"))
	log.Infow("payment_webhook_received",
		"client_ip", c.ClientIP(),
		"body_size", len(body),
		"raw_body", webhookRawBodyForLog(body),
	)

	if err := h.PaymentService.HandleWebhook(body, signature); err != nil {
		log.Warnw("payment_webhook_handle_failed", "error", err)
		respondPaymentOrderError(c, err)
		return
	}

	response.Success(c, gin.H{"accepted": true})
}
