package public

import (
	handlershared "github.com/krishimart/krishimart/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondErrorWithMsg(c, code, msg, err)
}

func respondBindingError(c *gin.Context, err error) {
	handlershared.RespondBindingError(c, err)
}

func respondFieldError(c *gin.Context, field, key string) {
	handlershared.RespondFieldError(c, field, key)
}
