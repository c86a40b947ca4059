package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_GenerateAndParse(t *testing.T) {
	cfg := TokenConfig{
		SecretKey: "user-secret",
		Expiry:    24 * time.Hour,
		Issuer:    "user-issuer",
	}
	tm := NewTokenManager(cfg)

	uid := int64(1001)

	// 1. 测试生成和解析
	token, expiresAt, err := tm.Generate(uid, "c0ffee", "laptop", []string{"*"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(cfg.Expiry), expiresAt, 2*time.Second)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uid, claims.UID)
	assert.Equal(t, "laptop", claims.Name)
	assert.Equal(t, "c0ffee", claims.ID)
	assert.Equal(t, cfg.Issuer, claims.Issuer)
	assert.True(t, claims.Can("links:write"))

	// 2. 测试过期
	expiredCfg := cfg
	expiredCfg.Expiry = -1 * time.Second
	expiredToken, _, err := NewTokenManager(expiredCfg).Generate(uid, "old", "old", nil)
	require.NoError(t, err)
	assert.Error(t, tm.Validate(expiredToken))

	// 3. 测试错误的密钥
	wrongKeyCfg := cfg
	wrongKeyCfg.SecretKey = "wrong-user-secret"
	wrongToken, _, _ := NewTokenManager(wrongKeyCfg).Generate(uid, "x", "x", nil)
	assert.Error(t, tm.Validate(wrongToken))

	// 4. 测试篡改后的 Token
	assert.Error(t, tm.Validate(token+"xyz"))

	// 5. 签发者不一致
	otherIssuer := cfg
	otherIssuer.Issuer = "someone-else"
	foreign, _, _ := NewTokenManager(otherIssuer).Generate(uid, "y", "y", nil)
	assert.Error(t, tm.Validate(foreign))
}

func TestTokenClaims_Can(t *testing.T) {
	c := &TokenClaims{Scopes: []string{"links:read"}}
	assert.True(t, c.Can("links:read"))
	assert.False(t, c.Can("links:write"))
	assert.False(t, (&TokenClaims{}).Can("links:read"))
}

func TestUIDContext(t *testing.T) {
	_, ok := UIDFromContext(context.Background())
	assert.False(t, ok)

	uid, ok := UIDFromContext(ContextWithUID(context.Background(), 42))
	assert.True(t, ok)
	assert.Equal(t, int64(42), uid)

	_, ok = UIDFromContext(ContextWithUID(context.Background(), 0))
	assert.False(t, ok)
}
