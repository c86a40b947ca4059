// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

import "time"

// ServiceConfig service layer configuration
// ServiceConfig 服务层配置
type ServiceConfig struct {
	Fetcher FetcherConfig // Title fetcher // 标题抓取
	Token   TokenConfig   // API tokens // 访问令牌
}

// FetcherConfig title fetcher configuration
// FetcherConfig 标题抓取配置
type FetcherConfig struct {
	Timeout      time.Duration // Per request timeout, 10s by default // 单次请求超时
	UserAgent    string        // User-Agent header // 请求 UA
	MaxBodyBytes int64         // Body read limit // 读取上限
}

// TokenConfig token service configuration
// TokenConfig 令牌服务配置
type TokenConfig struct {
	DefaultScopes []string      // Scopes when none requested // 默认权限
	Retention     time.Duration // Keep revoked/expired rows this long // 失效令牌保留时间
}

const (
	DefaultFetchTimeout   = 10 * time.Second
	DefaultFetchUserAgent = "Mozilla/5.0 (compatible; LocketBot/1.0)"
	DefaultFetchMaxBody   = 2 << 20
	DefaultTokenRetention = 30 * 24 * time.Hour
)

func (c *ServiceConfig) fetcher() FetcherConfig {
	var f FetcherConfig
	if c != nil {
		f = c.Fetcher
	}
	if f.Timeout <= 0 {
		f.Timeout = DefaultFetchTimeout
	}
	if f.UserAgent == "" {
		f.UserAgent = DefaultFetchUserAgent
	}
	if f.MaxBodyBytes <= 0 {
		f.MaxBodyBytes = DefaultFetchMaxBody
	}
	return f
}

func (c *ServiceConfig) token() TokenConfig {
	var t TokenConfig
	if c != nil {
		t = c.Token
	}
	if len(t.DefaultScopes) == 0 {
		t.DefaultScopes = []string{"*"}
	}
	if t.Retention <= 0 {
		t.Retention = DefaultTokenRetention
	}
	return t
}
