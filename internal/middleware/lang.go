package middleware

import (
	"github.com/haierkeys/locket-service/pkg/code"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// LangWithTranslator picks the request language from ?lang=, the lang header or Accept-Language.
// The normalized key is stored as "lang" and the validator translator as "trans".
func LangWithTranslator(uni *ut.UniversalTranslator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var lang string

		if s, exist := c.GetQuery("lang"); exist {
			lang = s
		} else if s = c.GetHeader("lang"); len(s) != 0 {
			lang = s
		} else if s = c.GetHeader("Accept-Language"); len(s) >= 2 {
			lang = s[:2]
		}

		lang = code.NormalizeLang(lang)
		if lang == "" {
			lang = code.GetGlobalDefaultLang()
		}
		c.Set("lang", lang)

		transKey := "en"
		if lang == "zh_cn" {
			transKey = "zh"
		}
		if trans, found := uni.GetTranslator(transKey); found {
			c.Set("trans", trans)
		}

		c.Next()
	}
}
