package public

import "github.com/krishimart/krishimart/internal/provider"

// Handler 前台/用户侧接口处理器入口
// 说明：该处理器仅用于商城前台、顾客与供应商侧 API。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
