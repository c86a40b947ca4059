package web_router

import (
	"github.com/haierkeys/locket-service/internal/dto"
	pkgapp "github.com/haierkeys/locket-service/pkg/app"
	"github.com/haierkeys/locket-service/pkg/code"
	apperrors "github.com/haierkeys/locket-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// HomePage 首页数据
type HomePage struct {
	*dto.HomeDTO
	User  *dto.AccountDTO `json:"user,omitempty"`
	Flash *Flash          `json:"flash,omitempty"`
}

// DashboardPage 个人面板数据
type DashboardPage struct {
	*dto.DashboardDTO
	User  *dto.AccountDTO `json:"user"`
	Flash *Flash          `json:"flash,omitempty"`
}

// Home 首页: 最近动态 + 今日热门; 登录可选
func (h *Handler) Home(c *gin.Context) {
	ctx := c.Request.Context()

	home, err := h.App.QueryService.Home(ctx)
	if err != nil {
		h.logError(ctx, "web.Home", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	page := &HomePage{HomeDTO: home, Flash: ReadFlash(c)}
	if uid := pkgapp.GetUID(c); uid > 0 {
		if user, err := h.App.UserService.Get(ctx, uid); err == nil {
			page.User = user
		}
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.Clone().WithData(page))
}

// Dashboard 个人面板
func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	uid := pkgapp.GetUID(c)

	dash, err := h.App.QueryService.Dashboard(ctx, uid)
	if err != nil {
		h.logError(ctx, "web.Dashboard", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	user, err := h.App.UserService.Get(ctx, uid)
	if err != nil {
		h.logError(ctx, "web.Dashboard", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.Clone().WithData(&DashboardPage{DashboardDTO: dash, User: user, Flash: ReadFlash(c)}))
}
