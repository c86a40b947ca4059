// Package api_router 提供 HTTP API 路由处理器
package api_router

import (
	"context"

	"github.com/haierkeys/locket-service/internal/app"
	"github.com/haierkeys/locket-service/internal/middleware"
	"github.com/haierkeys/locket-service/internal/service"
	"github.com/haierkeys/locket-service/pkg/code"
	"github.com/haierkeys/locket-service/pkg/convert"
	apperrors "github.com/haierkeys/locket-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 基础 Handler 结构体，封装 App Container
// 所有 API Handler 都应该嵌入此结构体以获得依赖注入能力
type Handler struct {
	App *app.App
}

// NewHandler 创建基础 Handler 实例
func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}

// logError 记录错误日志，包含 Trace ID; 校验错误只记 info
func (h *Handler) logError(ctx context.Context, method string, err error) {
	traceID := middleware.GetTraceID(ctx)
	if apperrors.IsKind(err, code.KindValidation) || apperrors.IsKind(err, code.KindNotFound) {
		h.App.Logger().Info(method, zap.Error(err), zap.String("traceId", traceID))
		return
	}
	h.App.Logger().Error(method,
		zap.Error(err),
		zap.String("traceId", traceID),
	)
}

// pathID parses :id, answering 404 when it is not a positive integer.
func pathID(c *gin.Context, notFound *code.Code) (int64, bool) {
	id, err := convert.StrTo(c.Param("id")).Int64()
	if err != nil || id <= 0 {
		apperrors.ErrorResponse(c, notFound.Clone())
		return 0, false
	}
	return id, true
}

func listLimit(limit int) int {
	if limit <= 0 {
		return service.DefaultListLimit
	}
	return limit
}
