// Package web_router serves the form front door: every post redirects back with a flash cookie.
// Package web_router 表单入口, 提交后带 flash cookie 重定向
package web_router

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/haierkeys/locket-service/internal/app"
	"github.com/haierkeys/locket-service/internal/middleware"
	pkgapp "github.com/haierkeys/locket-service/pkg/app"
	"github.com/haierkeys/locket-service/pkg/code"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FlashCookie carries the outcome of the last form post.
const FlashCookie = "locket_flash"

const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash 一次性提示
type Flash struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Handler 表单处理器
type Handler struct {
	App *app.App
}

// NewHandler 创建表单处理器
func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}

// back redirects to the referring page, falling back to the dashboard.
func (h *Handler) back(c *gin.Context, f Flash) {
	// cookie values cannot hold quotes, so the JSON travels base64url encoded
	if raw, err := sonic.Marshal(f); err == nil {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(FlashCookie, base64.RawURLEncoding.EncodeToString(raw), 60, "/", "", c.Request.TLS != nil, true)
	}

	to := c.Request.Referer()
	if to == "" {
		to = "/dashboard"
	}
	c.Redirect(http.StatusSeeOther, to)
}

func (h *Handler) success(c *gin.Context, message string) {
	h.back(c, Flash{Type: FlashSuccess, Message: message})
}

func (h *Handler) invalid(c *gin.Context, errs pkgapp.ValidErrors) {
	h.back(c, Flash{
		Type:    FlashError,
		Message: code.ErrorInvalidParams.MsgIn(c.GetString("lang")),
		Errors:  errs.MapsToString(),
	})
}

// fail keeps field messages for validation errors; everything else gets the generic message.
func (h *Handler) fail(c *gin.Context, method string, err error, generic string) {
	h.logError(c.Request.Context(), method, err)

	var ce *code.Code
	if errors.As(err, &ce) && ce.Kind() == code.KindValidation {
		h.back(c, Flash{Type: FlashError, Message: ce.MsgIn(c.GetString("lang")), Errors: ce.Fields()})
		return
	}
	if generic == "" && ce != nil && ce.Kind() == code.KindNotFound {
		generic = ce.MsgIn(c.GetString("lang"))
	}
	if generic == "" {
		generic = code.ErrorServerInternal.MsgIn(c.GetString("lang"))
	}
	h.back(c, Flash{Type: FlashError, Message: generic})
}

func (h *Handler) logError(ctx context.Context, method string, err error) {
	h.App.Logger().Info(method, zap.Error(err), zap.String("traceId", middleware.GetTraceID(ctx)))
}

// ReadFlash returns and clears the flash cookie.
func ReadFlash(c *gin.Context) *Flash {
	raw, err := c.Cookie(FlashCookie)
	if err != nil || raw == "" {
		return nil
	}
	c.SetCookie(FlashCookie, "", -1, "/", "", c.Request.TLS != nil, true)

	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var f Flash
	if err := sonic.Unmarshal(data, &f); err != nil {
		return nil
	}
	return &f
}
