package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/haierkeys/locket-service/pkg/app"
	"github.com/haierkeys/locket-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// TokenCookie holds the API token for the web form front door.
const TokenCookie = "locket_token"

// TokenValidator resolves a plain API token to its claims.
type TokenValidator interface {
	ValidateToken(ctx context.Context, plain string) (*app.TokenClaims, error)
}

// ExtractToken looks at the Authorization header, the Token header, ?token= and the locket_token cookie, in that order.
// A "Bearer " prefix is stripped.
func ExtractToken(c *gin.Context) string {
	var token string
	if s := c.GetHeader("Authorization"); len(s) != 0 {
		token = s
	} else if s = c.GetHeader("Token"); len(s) != 0 {
		token = s
	} else if s, exist := c.GetQuery("token"); exist {
		token = s
	} else if s, err := c.Cookie(TokenCookie); err == nil {
		token = s
	}

	token = strings.TrimSpace(token)
	if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}

// UserAuthToken rejects requests without a valid token.
// UserAuthToken 用户 Token 认证中间件
func UserAuthToken(v TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := app.NewResponse(c)

		token := ExtractToken(c)
		if token == "" {
			response.ToResponse(code.ErrorNotUserAuthToken)
			c.Abort()
			return
		}

		claims, err := v.ValidateToken(c.Request.Context(), token)
		if err != nil {
			response.ToResponse(authCode(err))
			c.Abort()
			return
		}

		setUser(c, claims)
		c.Next()
	}
}

// OptionalUserAuthToken resolves the user when a valid token is present and lets anonymous requests through.
func OptionalUserAuthToken(v TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := ExtractToken(c); token != "" {
			if claims, err := v.ValidateToken(c.Request.Context(), token); err == nil {
				setUser(c, claims)
			}
		}
		c.Next()
	}
}

func setUser(c *gin.Context, claims *app.TokenClaims) {
	c.Set("user_token", claims)
	c.Request = c.Request.WithContext(app.ContextWithUID(c.Request.Context(), claims.UID))
}

func authCode(err error) *code.Code {
	var c *code.Code
	if errors.As(err, &c) && c.Kind() == code.KindUnauthenticated {
		return c
	}
	return code.ErrorInvalidUserAuthToken
}
