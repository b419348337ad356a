package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL   = "https://api.razorpay.com"
	ordersAPIPath    = "/v1/orders"
	defaultTimeoutMS = 10000
)

var (
	ErrConfigInvalid    = errors.New("razorpay config invalid")
	ErrRequestFailed    = errors.New("razorpay request failed")
	ErrResponseInvalid  = errors.New("razorpay response invalid")
	ErrSignatureInvalid = errors.New("razorpay signature invalid")
)

// Config 网关配置
type Config struct {
	BaseURL       string `json:"base_url"`       // 网关地址
	KeyID         string `json:"key_id"`         // API Key
	KeySecret     string `json:"key_secret"`     // API Secret（签名密钥）
	WebhookSecret string `json:"webhook_secret"` // Webhook 签名密钥
	TimeoutMS     int    `json:"timeout_ms"`     // 请求超时（毫秒）
}

// CreateOrderInput 网关下单输入
type CreateOrderInput struct {
	OrderNo  string // 商户订单号（receipt）
	Amount   string // 金额（主币种单位，定点字符串）
	Currency string
	Notes    map[string]string
}

// CreateOrderResult 网关下单结果
type CreateOrderResult struct {
	ProviderOrderID string
	Amount          int64 // 最小货币单位（paise）
	Currency        string
	Status          string
	Raw             map[string]interface{}
}

// ParseConfig 解析配置
func ParseConfig(raw map[string]interface{}) (*Config, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: empty config", ErrConfigInvalid)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal config failed", ErrConfigInvalid)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: unmarshal config failed", ErrConfigInvalid)
	}
	cfg.normalize()
	return &cfg, nil
}

// ValidateConfig 校验配置完整性
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.KeyID) == "" {
		return fmt.Errorf("%w: key_id is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.KeySecret) == "" {
		return fmt.Errorf("%w: key_secret is required", ErrConfigInvalid)
	}
	return nil
}

func (c *Config) normalize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.TimeoutMS <= 0 {
		c.TimeoutMS = defaultTimeoutMS
	}
}

// CreateOrder 创建网关订单
// 金额以最小货币单位（paise）上送，响应中的 id 作为 provider_order_id 保存。
func CreateOrder(ctx context.Context, cfg *Config, input CreateOrderInput) (*CreateOrderResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if input.OrderNo == "" || input.Amount == "" {
		return nil, fmt.Errorf("%w: order_no and amount are required", ErrConfigInvalid)
	}
	subunits, err := toSubunits(input.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: amount %q", ErrConfigInvalid, input.Amount)
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "INR"
	}

	body := map[string]interface{}{
		"amount":   subunits,
		"currency": currency,
		"receipt":  input.OrderNo,
	}
	if len(input.Notes) > 0 {
		body["notes"] = input.Notes
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request failed", ErrRequestFailed)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL+ordersAPIPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(cfg.KeyID, cfg.KeySecret)

	client := &http.Client{Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response failed", ErrResponseInvalid)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, truncate(string(respBytes), 200))
	}

	var raw map[string]interface{}
	_ = json.Unmarshal(respBytes, &raw)
	var parsed struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Status   string `json:"status"`
	}
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return nil, ErrResponseInvalid
	}
	if parsed.ID == "" {
		return nil, fmt.Errorf("%w: missing order id", ErrResponseInvalid)
	}
	return &CreateOrderResult{
		ProviderOrderID: parsed.ID,
		Amount:          parsed.Amount,
		Currency:        parsed.Currency,
		Status:          parsed.Status,
		Raw:             raw,
	}, nil
}

// VerifyPaymentSignature 校验支付完成签名
// 签名内容为 "<provider_order_id>|<provider_payment_id>"，HMAC-SHA256 十六进制。
func VerifyPaymentSignature(cfg *Config, providerOrderID, providerPaymentID, signature string) error {
	if cfg == nil || strings.TrimSpace(cfg.KeySecret) == "" {
		return ErrConfigInvalid
	}
	if providerOrderID == "" || providerPaymentID == "" || signature == "" {
		return ErrSignatureInvalid
	}
	expected := signHMAC(providerOrderID+"|"+providerPaymentID, cfg.KeySecret)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature)))) != 1 {
		return ErrSignatureInvalid
	}
	return nil
}

// VerifyWebhookSignature 校验 Webhook 回调签名（对原始请求体做 HMAC-SHA256）
func VerifyWebhookSignature(cfg *Config, body []byte, signature string) error {
	if cfg == nil || strings.TrimSpace(cfg.WebhookSecret) == "" {
		return ErrConfigInvalid
	}
	if len(body) == 0 || signature == "" {
		return ErrSignatureInvalid
	}
	expected := signHMAC(string(body), cfg.WebhookSecret)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature)))) != 1 {
		return ErrSignatureInvalid
	}
	return nil
}

// AmountToSubunits 将定点金额字符串转为最小货币单位
func AmountToSubunits(amount string) (int64, error) {
	return toSubunits(amount)
}

func signHMAC(content, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(content))
	return hex.EncodeToString(mac.Sum(nil))
}

// toSubunits 将定点金额字符串转为最小货币单位（两位小数）
func toSubunits(amount string) (int64, error) {
	trimmed := strings.TrimSpace(amount)
	if trimmed == "" {
		return 0, fmt.Errorf("empty amount")
	}
	negative := false
	if strings.HasPrefix(trimmed, "-") {
		negative = true
		trimmed = trimmed[1:]
	}
	parts := strings.SplitN(trimmed, ".", 2)
	whole := parts[0]
	frac := ""
	if len(parts) == 2 {
		frac = parts[1]
	}
	if len(frac) > 2 {
		frac = frac[:2]
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if whole == "" {
		whole = "0"
	}
	var total int64
	for _, r := range whole + frac {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid amount %q", amount)
		}
		total = total*10 + int64(r-'0')
	}
	if negative {
		total = -total
	}
	return total, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
