package code

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
)

// lang holds the English and Chinese text of a code
// lang 存储英文和中文文本
type lang struct {
	en    string
	zh_cn string
}

const FALLBACK_LNG = "en"

var supportedLanguages = []string{"en", "zh_cn"}

// lng is read by package-level code vars during initialization, before it was ever stored.
var lng atomic.Value

// NormalizeLang turns "zh-CN", "ZH_cn" and friends into a supported key, or "" when unsupported.
func NormalizeLang(language string) string {
	language = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(language), "-", "_"))
	switch {
	case language == "":
		return ""
	case language == "zh" || strings.HasPrefix(language, "zh_"):
		return "zh_cn"
	case strings.HasPrefix(language, "en"):
		return "en"
	}
	return ""
}

// Get returns the message in the requested language, falling back to English.
// Get 按语言返回消息，缺失时回退到英文
func (l lang) Get(language string) string {
	switch NormalizeLang(language) {
	case "zh_cn":
		if l.zh_cn != "" {
			return l.zh_cn
		}
	case "en":
		if l.en != "" {
			return l.en
		}
	}
	if l.en != "" {
		return l.en
	}
	return fmt.Sprintf("No message available for language: %s", language)
}

// GetMessage returns the message in the process default language.
func (l lang) GetMessage() string {
	return l.Get(GetGlobalDefaultLang())
}

func GetSupportedLanguages() []string {
	return append([]string(nil), supportedLanguages...)
}

// SetGlobalDefaultLang sets the process default language, used when a request does not ask for one.
// SetGlobalDefaultLang 设置全局默认语言
func SetGlobalDefaultLang(language string) error {
	if n := NormalizeLang(language); n != "" {
		lng.Store(n)
		return nil
	}
	lng.Store(FALLBACK_LNG)
	return errors.New("unsupported language type, set defaulting to " + FALLBACK_LNG)
}

func GetGlobalDefaultLang() string {
	if l, ok := lng.Load().(string); ok && l != "" {
		return l
	}
	return FALLBACK_LNG
}
