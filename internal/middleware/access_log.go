package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/haierkeys/locket-service/pkg/app"
	"github.com/haierkeys/locket-service/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	filtered      = "[FILTERED]"
	maxLoggedBody = 4 << 10
)

var (
	sensitiveHeaders = []string{"Authorization", "Cookie", "Set-Cookie", "X-Api-Key", "Token"}
	sensitiveKeys    = []string{"password", "token", "secret"}
)

// AccessLog 访问日志, 敏感请求头与请求体字段替换为 [FILTERED]
func AccessLog(lg *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		var body string
		if c.Request.Method != http.MethodGet && c.Request.Body != nil {
			raw, _ := io.ReadAll(io.LimitReader(c.Request.Body, maxLoggedBody))
			rest, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(raw), bytes.NewReader(rest)))
			body = filterBody(raw, c.ContentType())
		}

		startTime := time.Now()
		c.Next()

		fields := []zap.Field{
			logger.TraceID(GetTraceIDFromGin(c)),
			zap.String("method", c.Request.Method),
			zap.String("url", path+"?"+query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("time-cost", time.Since(startTime)),
			zap.String("ip", app.GetRequestIP(c)),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.Any("headers", filterHeaders(c.Request.Header)),
			zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()),
		}
		if uid := app.GetUID(c); uid > 0 {
			fields = append(fields, logger.UID(uid))
		}
		if body != "" {
			fields = append(fields, zap.String("body", body))
		}
		lg.Info(path, fields...)
	}
}

func filterHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = strings.Join(v, ",")
	}
	for _, k := range sensitiveHeaders {
		if _, ok := out[http.CanonicalHeaderKey(k)]; ok {
			out[http.CanonicalHeaderKey(k)] = filtered
		}
	}
	return out
}

// filterBody masks sensitive keys of a JSON or form body; anything else is logged by size only.
func filterBody(raw []byte, contentType string) string {
	if len(raw) == 0 {
		return ""
	}
	switch {
	case strings.Contains(contentType, "json"):
		var m map[string]interface{}
		if err := sonic.Unmarshal(raw, &m); err != nil {
			return "[unparsed json]"
		}
		for k := range m {
			if isSensitive(k) {
				m[k] = filtered
			}
		}
		out, _ := sonic.MarshalString(m)
		return out
	case strings.Contains(contentType, "form-urlencoded"):
		pairs := strings.Split(string(raw), "&")
		for i, p := range pairs {
			if k, _, ok := strings.Cut(p, "="); ok && isSensitive(k) {
				pairs[i] = k + "=" + filtered
			}
		}
		return strings.Join(pairs, "&")
	}
	return "[" + contentType + " body]"
}

func isSensitive(key string) bool {
	key = strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}
