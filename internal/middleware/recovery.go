package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/haierkeys/locket-service/pkg/app"
	"github.com/haierkeys/locket-service/pkg/code"
	"github.com/haierkeys/locket-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryWithLogger 创建带日志器的 Recovery 中间件
// The panic value and stack go to the log only; the client gets a generic 500.
func RecoveryWithLogger(lg *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		defer func() {
			if err := recover(); err != nil {
				fields := []zap.Field{
					logger.TraceID(GetTraceIDFromGin(c)),
					zap.String("router", path),
					zap.String("method", c.Request.Method),
					zap.String("query", query),
					zap.String("ip", c.ClientIP()),
					zap.String("user-agent", c.Request.UserAgent()),
					zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()),
					zap.String("stack", string(debug.Stack())),
				}
				switch v := err.(type) {
				case error:
					lg.Error("Recovered from panic", append(fields, zap.Error(v))...)
				default:
					lg.Error("Recovered from unknown panic", append(fields, zap.String("panic_value", fmt.Sprintf("%v", v)))...)
				}

				app.NewResponse(c).ToResponse(code.ErrorServerInternal)
				c.Abort()
			}
		}()

		c.Next()
	}
}
