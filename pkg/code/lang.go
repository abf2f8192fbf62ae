package code

import (
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
)

// lang holds the English and Chinese text of a message.
// lang 存储中英文文本
type lang struct {
	en    string
	zh_cn string
}

const (
	LangEN = "en"
	LangZH = "zh_cn"

	FALLBACK_LNG = LangEN
)

var lng atomic.Value

func init() {
	lng.Store(FALLBACK_LNG)
}

// GetMessage returns the message in the global language, falling back to
// English when no translation exists.
// GetMessage 根据全局语言返回消息
func (l lang) GetMessage() string {
	return l.In(GetGlobalDefaultLang())
}

// In returns the message in the given language.
func (l lang) In(language string) string {
	if NormalizeLang(language) == LangZH && l.zh_cn != "" {
		return l.zh_cn
	}
	return l.en
}

// NormalizeLang maps Accept-Language style values ("zh-CN", "zh", "en-US")
// onto a supported language, or "" when none matches.
func NormalizeLang(language string) string {
	l := strings.ToLower(strings.TrimSpace(language))
	if i := strings.IndexAny(l, ",;"); i >= 0 {
		l = l[:i]
	}
	l = strings.ReplaceAll(l, "-", "_")
	switch {
	case l == "zh" || strings.HasPrefix(l, "zh_"):
		return LangZH
	case l == "en" || strings.HasPrefix(l, "en_"):
		return LangEN
	}
	return ""
}

// SetGlobalDefaultLang sets the global language. Unsupported values reset it
// to English and return an error.
// 设置全局默认语言
func SetGlobalDefaultLang(language string) error {
	if l := NormalizeLang(language); l != "" {
		lng.Store(l)
		return nil
	}
	lng.Store(FALLBACK_LNG)
	return errors.New("unsupported language type, set defaulting to " + FALLBACK_LNG)
}

// GetGlobalDefaultLang 获取全局默认语言
func GetGlobalDefaultLang() string {
	return lng.Load().(string)
}
