package cmd

import (
	"os"

	"github.com/haierkeys/locket-service/pkg/logger"

	"go.uber.org/zap"
)

// bootstrapLogger 启动阶段日志器, 主日志器初始化之前使用
var bootstrapLogger = newBootstrapLogger()

// newBootstrapLogger logs to stderr; LOCKET_DEBUG turns on debug level.
func newBootstrapLogger() *zap.Logger {
	level := "info"
	if os.Getenv("LOCKET_DEBUG") != "" {
		level = "debug"
	}
	lg, err := logger.NewLogger(logger.Config{Level: level, Stderr: true})
	if err != nil {
		return zap.NewNop()
	}
	return lg
}
