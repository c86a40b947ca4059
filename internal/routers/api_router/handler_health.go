package api_router

import (
	"time"

	"github.com/haierkeys/locket-service/internal/app"
	pkgapp "github.com/haierkeys/locket-service/pkg/app"
	"github.com/haierkeys/locket-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	*Handler
}

// NewHealthHandler 创建健康检查处理器实例
func NewHealthHandler(a *app.App) *HealthHandler {
	return &HealthHandler{Handler: NewHandler(a)}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status      string  `json:"status"`   // "healthy" 或 "unhealthy"
	Version     string  `json:"version"`  // 服务版本号
	Uptime      float64 `json:"uptime"`   // 运行时间（秒）
	Database    string  `json:"database"` // "connected" 或 "error"
	FeedClients int     `json:"feed_clients"`
}

// Check 健康检查接口 (无需认证)
func (h *HealthHandler) Check(c *gin.Context) {
	response := HealthResponse{
		Status:      "healthy",
		Version:     h.App.Version().Version,
		Uptime:      time.Since(h.App.StartTime).Seconds(),
		Database:    "connected",
		FeedClients: h.App.Feed.Count(),
	}

	// 检查数据库连接
	if err := h.App.Ping(c.Request.Context()); err != nil {
		h.logError(c.Request.Context(), "HealthHandler.Check", err)
		response.Status = "unhealthy"
		response.Database = "error"
		pkgapp.NewResponse(c).ToResponse(code.Failed.Clone().WithHTTPStatus(503).WithData(response))
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.Clone().WithData(response))
}
