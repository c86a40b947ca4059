package api_router

import (
	"github.com/haierkeys/locket-service/internal/app"
	"github.com/haierkeys/locket-service/internal/dto"
	pkgapp "github.com/haierkeys/locket-service/pkg/app"
	"github.com/haierkeys/locket-service/pkg/code"
	apperrors "github.com/haierkeys/locket-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatusHandler 动态 API 路由处理器
type StatusHandler struct {
	*Handler
}

// NewStatusHandler 创建 StatusHandler 实例
func NewStatusHandler(a *app.App) *StatusHandler {
	return &StatusHandler{Handler: NewHandler(a)}
}

// Recent 全站最近动态
func (h *StatusHandler) Recent(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.StatusListRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Info("StatusHandler.Recent.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.Clone().WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	statuses, err := h.App.QueryService.RecentStatuses(ctx, params.Limit)
	if err != nil {
		h.logError(ctx, "StatusHandler.Recent", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponseList(code.Success, statuses, len(statuses), listLimit(params.Limit))
}

// Mine 当前用户的动态
func (h *StatusHandler) Mine(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.StatusListRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Info("StatusHandler.Mine.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.Clone().WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	statuses, err := h.App.QueryService.RecentUserStatuses(ctx, pkgapp.GetUID(c), params.Limit)
	if err != nil {
		h.logError(ctx, "StatusHandler.Mine", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponseList(code.Success, statuses, len(statuses), listLimit(params.Limit))
}

// Create 发布动态
func (h *StatusHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.StatusCreateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Info("StatusHandler.Create.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.Clone().WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	status, err := h.App.StatusService.Create(ctx, pkgapp.GetUID(c), params)
	if err != nil {
		h.logError(ctx, "StatusHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessCreate.Clone().WithData(status))
}

// Delete 删除自己的动态
func (h *StatusHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	statusID, ok := pathID(c, code.ErrorStatusNotFound)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.App.StatusService.Delete(ctx, pkgapp.GetUID(c), statusID); err != nil {
		h.logError(ctx, "StatusHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessDelete)
}
