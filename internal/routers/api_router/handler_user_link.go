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

// UserLinkHandler 书签 API 路由处理器
type UserLinkHandler struct {
	*Handler
}

// NewUserLinkHandler 创建 UserLinkHandler 实例
func NewUserLinkHandler(a *app.App) *UserLinkHandler {
	return &UserLinkHandler{Handler: NewHandler(a)}
}

// Dashboard 当前用户全部书签（含自己的笔记）和最近动态
func (h *UserLinkHandler) Dashboard(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	ctx := c.Request.Context()

	dash, err := h.App.QueryService.Dashboard(ctx, pkgapp.GetUID(c))
	if err != nil {
		h.logError(ctx, "UserLinkHandler.Dashboard", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.Clone().WithData(dash))
}

// Last 最近添加的书签; 没有时 data 为 null
func (h *UserLinkHandler) Last(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	ctx := c.Request.Context()

	last, err := h.App.QueryService.LastAddedLink(ctx, pkgapp.GetUID(c))
	if err != nil {
		h.logError(ctx, "UserLinkHandler.Last", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.Clone().WithData(last))
}

// Update 修改书签状态或分类
func (h *UserLinkHandler) Update(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	userLinkID, ok := pathID(c, code.ErrorUserLinkNotFound)
	if !ok {
		return
	}

	params := &dto.UserLinkUpdateRequest{}
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Info("UserLinkHandler.Update.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.Clone().WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	result, err := h.App.LinkService.UpdateBookmark(ctx, pkgapp.GetUID(c), userLinkID, params)
	if err != nil {
		h.logError(ctx, "UserLinkHandler.Update", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessUpdate.Clone().WithData(result))
}
