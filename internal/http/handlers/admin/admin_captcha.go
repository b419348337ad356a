package admin

import (
	"github.com/krishimart/krishimart/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetAdminCaptcha 获取管理员登录验证码
func (h *Handler) GetAdminCaptcha(c *gin.Context) {
	if h.CaptchaService == nil || !h.CaptchaService.Required() {
		response.Success(c, gin.H{"required": false})
		return
	}

	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, gin.H{
		"required":     true,
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}
