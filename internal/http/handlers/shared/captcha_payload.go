package shared

import "strings"

// CaptchaPayloadRequest 验证码请求载荷。
type CaptchaPayloadRequest struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// Normalized 返回去除空白后的验证码参数。
func (r CaptchaPayloadRequest) Normalized() (string, string) {
	return strings.TrimSpace(r.CaptchaID), strings.TrimSpace(r.CaptchaCode)
}
