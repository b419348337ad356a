package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// DefaultLocale 默认语言
const DefaultLocale = "en-IN"

var supportedLocales = map[string]bool{
	"en-IN": true,
	"hi-IN": true,
}

// ResolveLocale 解析请求语言（query 优先，其次 Accept-Language）
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if locale := normalizeLocale(c.Query("locale")); locale != "" {
		return locale
	}
	header := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if locale := normalizeLocale(tag); locale != "" {
			return locale
		}
	}
	return DefaultLocale
}

// T 翻译消息 key，未命中时回退默认语言，仍未命中返回 key 本身
func T(locale, key string) string {
	locale = normalizeLocale(locale)
	if locale == "" {
		locale = DefaultLocale
	}
	if catalog, ok := messages[locale]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}
	if locale != DefaultLocale {
		if msg, ok := messages[DefaultLocale][key]; ok {
			return msg
		}
	}
	return key
}

// Sprintf 翻译并格式化消息
func Sprintf(locale, key string, args ...interface{}) string {
	format := T(locale, key)
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

func normalizeLocale(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if supportedLocales[raw] {
		return raw
	}
	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(lower, "hi"):
		return "hi-IN"
	case strings.HasPrefix(lower, "en"):
		return "en-IN"
	}
	return ""
}
