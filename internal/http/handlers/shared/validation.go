package shared

import (
	"errors"
	"strings"
	"unicode"

	"github.com/krishimart/krishimart/internal/http/response"
	"github.com/krishimart/krishimart/internal/i18n"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BindingFieldErrors 将绑定校验错误转换为字段级错误列表；非校验错误返回 nil。
func BindingFieldErrors(err error) []response.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]response.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, response.FieldError{
			Field:   snakeFieldName(fe.Field()),
			Message: fieldRuleMessage(fe),
		})
	}
	return fields
}

// RespondBindingError 返回请求体绑定失败响应，可识别的校验错误携带字段明细。
func RespondBindingError(c *gin.Context, err error) {
	fields := BindingFieldErrors(err)
	if len(fields) == 0 {
		RespondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	locale := i18n.ResolveLocale(c)
	response.ValidationFailed(c, i18n.T(locale, "error.validation_failed"), fields)
}

// RespondFieldError 返回单字段业务校验失败响应。
func RespondFieldError(c *gin.Context, field, key string) {
	locale := i18n.ResolveLocale(c)
	response.ValidationFailed(c, i18n.T(locale, "error.validation_failed"), []response.FieldError{
		{Field: field, Message: i18n.T(locale, key)},
	})
}

// fieldRuleMessage 按校验规则生成提示文案
func fieldRuleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "invalid value"
	}
}

// snakeFieldName 将结构体字段名转为下划线形式（与 JSON 字段对齐）
func snakeFieldName(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (!unicode.IsUpper(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
