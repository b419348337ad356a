package admin

import "strings"

// CaptchaPayloadRequest 验证码请求载荷。
type CaptchaPayloadRequest struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

func (r CaptchaPayloadRequest) normalized() (string, string) {
	return strings.TrimSpace(r.CaptchaID), strings.TrimSpace(r.CaptchaCode)
}
