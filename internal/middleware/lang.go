package middleware

import (
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/app"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/code"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"golang.org/x/text/language"
)

// supportedLangs 顺序与 langCodes 对应，第一个为默认语言
var (
	supportedLangs = []language.Tag{language.English, language.SimplifiedChinese}
	langCodes      = []string{code.LangEN, code.LangZH}
	langMatcher    = language.NewMatcher(supportedLangs)
)

// LangWithTranslator 语言中间件
// 依次读取 lang 查询参数、lang 请求头和 Accept-Language，
// 把匹配的语言和校验翻译器写入 Context
func LangWithTranslator(uni *ut.UniversalTranslator, fallback string) gin.HandlerFunc {
	if code.NormalizeLang(fallback) == "" {
		fallback = code.LangEN
	}
	return func(c *gin.Context) {
		lang := matchLang(c, fallback)
		c.Set(app.LangKey, lang)

		transKey := "en"
		if lang == code.LangZH {
			transKey = "zh"
		}
		if trans, found := uni.GetTranslator(transKey); found {
			c.Set(app.TransKey, trans)
		}

		c.Next()
	}
}

func matchLang(c *gin.Context, fallback string) string {
	var prefs []string
	if s, ok := c.GetQuery("lang"); ok && s != "" {
		prefs = append(prefs, s)
	}
	if s := c.GetHeader("lang"); s != "" {
		prefs = append(prefs, s)
	}
	if s := c.GetHeader("Accept-Language"); s != "" {
		prefs = append(prefs, s)
	}
	if len(prefs) == 0 {
		return code.NormalizeLang(fallback)
	}

	var tags []language.Tag
	for _, p := range prefs {
		parsed, _, err := language.ParseAcceptLanguage(normalizeTag(p))
		if err == nil {
			tags = append(tags, parsed...)
		}
	}
	_, idx, confidence := langMatcher.Match(tags...)
	if confidence == language.No {
		return code.NormalizeLang(fallback)
	}
	return langCodes[idx]
}

// normalizeTag accepts the zh_cn style used by clients
func normalizeTag(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] == '_' {
			b[i] = '-'
		}
	}
	return string(b)
}
