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

// UserHandler 用户与访问令牌 API
type UserHandler struct {
	*Handler
}

// NewUserHandler 创建 UserHandler 实例
func NewUserHandler(a *app.App) *UserHandler {
	return &UserHandler{Handler: NewHandler(a)}
}

// Info 当前用户
func (h *UserHandler) Info(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	ctx := c.Request.Context()

	user, err := h.App.UserService.Get(ctx, pkgapp.GetUID(c))
	if err != nil {
		h.logError(ctx, "UserHandler.Info", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.Clone().WithData(user))
}

// Delete 删除账号及其书签、笔记、动态、令牌; 提交过的链接保留为匿名
func (h *UserHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	ctx := c.Request.Context()
	uid := pkgapp.GetUID(c)

	if err := h.App.UserService.Delete(ctx, uid); err != nil {
		h.logError(ctx, "UserHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	h.App.Logger().Info("account deleted", zap.Int64("uid", uid))
	response.ToResponse(code.SuccessDelete)
}

// TokenList 未吊销的访问令牌
func (h *UserHandler) TokenList(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	ctx := c.Request.Context()

	tokens, err := h.App.TokenService.ListTokens(ctx, pkgapp.GetUID(c))
	if err != nil {
		h.logError(ctx, "UserHandler.TokenList", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponseList(code.Success, tokens, len(tokens), len(tokens))
}

// TokenCreate 创建访问令牌, 明文只返回这一次
func (h *UserHandler) TokenCreate(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.TokenCreateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Info("UserHandler.TokenCreate.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.Clone().WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	token, err := h.App.TokenService.CreateToken(ctx, pkgapp.GetUID(c), params)
	if err != nil {
		h.logError(ctx, "UserHandler.TokenCreate", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessCreate.Clone().WithData(token))
}

// TokenRevoke 吊销访问令牌
func (h *UserHandler) TokenRevoke(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	ctx := c.Request.Context()

	if err := h.App.TokenService.RevokeToken(ctx, pkgapp.GetUID(c), c.Param("id")); err != nil {
		h.logError(ctx, "UserHandler.TokenRevoke", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessDelete)
}
