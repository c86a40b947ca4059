package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// 默认 Token 签发者
const DefaultTokenIssuer = "locket"

// DefaultTokenExpiry personal access tokens live a year unless configured otherwise
const DefaultTokenExpiry = 365 * 24 * time.Hour

// TokenConfig 定义 Token 管理器的配置
type TokenConfig struct {
	SecretKey string        // JWT 签名密钥
	Expiry    time.Duration // Token 过期时间
	Issuer    string        // Token 签发者
}

// TokenManager 定义 Token 管理接口
type TokenManager interface {
	// Generate signs a token for uid whose jti is tokenID, the id of the persisted token row.
	Generate(uid int64, tokenID, name string, scopes []string) (string, time.Time, error)
	Parse(token string) (*TokenClaims, error)
	Validate(token string) error
}

// tokenManager 实现 TokenManager 接口
type tokenManager struct {
	config TokenConfig
}

// NewTokenManager 创建一个新的 TokenManager 实例
func NewTokenManager(cfg TokenConfig) TokenManager {
	if cfg.Expiry == 0 {
		cfg.Expiry = DefaultTokenExpiry
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultTokenIssuer
	}
	return &tokenManager{config: cfg}
}

// TokenClaims is what an API token carries.
type TokenClaims struct {
	UID    int64    `json:"uid"`
	Name   string   `json:"name"`
	Scopes []string `json:"scopes,omitempty"`
	jwt.RegisteredClaims
}

// Can reports whether the token grants scope; "*" grants everything.
func (t *TokenClaims) Can(scope string) bool {
	for _, s := range t.Scopes {
		if s == "*" || s == scope {
			return true
		}
	}
	return false
}

// Generate 生成一个新的 JWT Token
func (t *tokenManager) Generate(uid int64, tokenID, name string, scopes []string) (string, time.Time, error) {
	now := time.Now()
	expirationTime := now.Add(t.config.Expiry)
	claims := &TokenClaims{
		UID:    uid,
		Name:   name,
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    t.config.Issuer,
			Subject:   fmt.Sprintf("%d", uid),
			ID:        tokenID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(t.config.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expirationTime, nil
}

// Parse 解析 JWT Token 并返回声明
func (t *tokenManager) Parse(token string) (*TokenClaims, error) {
	return ParseTokenWithKey(token, t.config.SecretKey, t.config.Issuer)
}

// Validate 验证 Token 签名与有效期
func (t *tokenManager) Validate(token string) error {
	_, err := t.Parse(token)
	return err
}

// ParseTokenWithKey 使用指定密钥解析 Token
func ParseTokenWithKey(tokenString, secretKey, issuer string) (*TokenClaims, error) {
	claims := &TokenClaims{}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	}, opts...)

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// GetUID extracts the user ID from the request context.
func GetUID(ctx *gin.Context) (out int64) {
	if claims := GetTokenClaims(ctx); claims != nil {
		out = claims.UID
	}
	return
}

// GetTokenClaims returns the claims the auth middleware stored, nil for anonymous requests.
func GetTokenClaims(ctx *gin.Context) *TokenClaims {
	user, exist := ctx.Get("user_token")
	if !exist {
		return nil
	}
	claims, _ := user.(*TokenClaims)
	return claims
}

type uidKey struct{}

// ContextWithUID carries the acting user into a plain context.Context (agent transports use this).
func ContextWithUID(ctx context.Context, uid int64) context.Context {
	return context.WithValue(ctx, uidKey{}, uid)
}

// UIDFromContext returns the acting user id and whether one was set.
func UIDFromContext(ctx context.Context) (int64, bool) {
	uid, ok := ctx.Value(uidKey{}).(int64)
	return uid, ok && uid > 0
}
