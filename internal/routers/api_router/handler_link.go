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

// LinkHandler 链接 API 路由处理器
type LinkHandler struct {
	*Handler
}

// NewLinkHandler 创建 LinkHandler 实例
func NewLinkHandler(a *app.App) *LinkHandler {
	return &LinkHandler{Handler: NewHandler(a)}
}

// Recent 最近添加的链接
func (h *LinkHandler) Recent(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.LinkListRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Info("LinkHandler.Recent.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.Clone().WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	links, err := h.App.QueryService.RecentLinks(ctx, params.Limit)
	if err != nil {
		h.logError(ctx, "LinkHandler.Recent", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponseList(code.Success, links, len(links), listLimit(params.Limit))
}

// Trending 今日收藏最多的链接
func (h *LinkHandler) Trending(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.LinkListRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Info("LinkHandler.Trending.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.Clone().WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	links, err := h.App.QueryService.TrendingToday(ctx, params.Limit)
	if err != nil {
		h.logError(ctx, "LinkHandler.Trending", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponseList(code.Success, links, len(links), listLimit(params.Limit))
}

// Share 收藏链接并发布动态, 想法非空时同时保存为私有笔记
func (h *LinkHandler) Share(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.LinkShareRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Info("LinkHandler.Share.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.Clone().WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	result, err := h.App.LinkService.ShareLink(ctx, pkgapp.GetUID(c), params)
	if err != nil {
		h.logError(ctx, "LinkHandler.Share", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessCreate.Clone().WithData(result))
}

// Bookmark 收藏已存在的链接
func (h *LinkHandler) Bookmark(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	linkID, ok := pathID(c, code.ErrorLinkNotFound)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	result, err := h.App.LinkService.BookmarkLink(ctx, pkgapp.GetUID(c), linkID)
	if err != nil {
		h.logError(ctx, "LinkHandler.Bookmark", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.Clone().WithData(result))
}

// AddNote 为已收藏的链接添加私有笔记
func (h *LinkHandler) AddNote(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.LinkNoteRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Info("LinkHandler.AddNote.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.Clone().WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	result, err := h.App.LinkService.AddNote(ctx, pkgapp.GetUID(c), params)
	if err != nil {
		h.logError(ctx, "LinkHandler.AddNote", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessCreate.Clone().WithData(result))
}
