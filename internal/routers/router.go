package routers

import (
	"net/http"

	"github.com/haierkeys/locket-service/internal/app"
	"github.com/haierkeys/locket-service/internal/middleware"
	"github.com/haierkeys/locket-service/internal/routers/api_router"
	"github.com/haierkeys/locket-service/internal/routers/mcp_router"
	"github.com/haierkeys/locket-service/internal/routers/web_router"
	"github.com/haierkeys/locket-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// NewRouter builds the public engine: JSON api, web form posts, live feed and the agent endpoint.
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	cfg := appContainer.Config()
	lg := appContainer.Logger()

	methodLimiters := limiter.NewMethodLimiter().AddBuckets(cfg.GetLimiterRules()...)

	r := gin.New()
	r.Use(middleware.RecoveryWithLogger(lg))
	r.Use(middleware.TraceMiddleware(cfg.GetTracerConfig())) // Trace ID 中间件
	r.Use(middleware.AppInfo(app.Name, appContainer.Version().Version))
	r.Use(middleware.AccessLog(lg))
	r.Use(middleware.Cors(cfg.Server.CorsOrigins))
	r.Use(middleware.LangWithTranslator(uni))
	r.Use(middleware.RateLimiter(methodLimiters))

	auth := middleware.UserAuthToken(appContainer.TokenService)
	optionalAuth := middleware.OptionalUserAuthToken(appContainer.TokenService)
	timeout := middleware.ContextTimeout(cfg.GetContextTimeout())

	// 实时动态 (长连接, 不设超时)
	r.GET("/api/statuses/stream", appContainer.Feed.Run())

	api := r.Group("/api", timeout)
	{
		healthHandler := api_router.NewHealthHandler(appContainer)
		userHandler := api_router.NewUserHandler(appContainer)
		linkHandler := api_router.NewLinkHandler(appContainer)
		userLinkHandler := api_router.NewUserLinkHandler(appContainer)
		statusHandler := api_router.NewStatusHandler(appContainer)

		api.GET("/health", healthHandler.Check)

		user := api.Group("/user", auth)
		{
			user.GET("", userHandler.Info)
			user.DELETE("", userHandler.Delete)
			user.GET("/tokens", userHandler.TokenList)
			user.POST("/tokens", userHandler.TokenCreate)
			user.DELETE("/tokens/:id", userHandler.TokenRevoke)
		}

		links := api.Group("/links", auth)
		{
			links.GET("/recent", linkHandler.Recent)
			links.GET("/trending", linkHandler.Trending)
			links.POST("", linkHandler.Share)
			links.POST("/notes", linkHandler.AddNote)
			links.POST("/:id/bookmark", linkHandler.Bookmark)
		}

		userLinks := api.Group("/user-links", auth)
		{
			userLinks.GET("", userLinkHandler.Dashboard)
			userLinks.GET("/last", userLinkHandler.Last)
			userLinks.PATCH("/:id", userLinkHandler.Update)
		}

		statuses := api.Group("/statuses", auth)
		{
			statuses.GET("/recent", statusHandler.Recent)
			statuses.GET("/mine", statusHandler.Mine)
			statuses.POST("", statusHandler.Create)
			statuses.DELETE("/:id", statusHandler.Delete)
		}
	}

	web := r.Group("", timeout)
	{
		webHandler := web_router.NewHandler(appContainer)

		web.GET("/", optionalAuth, webHandler.Home)
		web.GET("/dashboard", auth, webHandler.Dashboard)

		forms := web.Group("", auth)
		{
			forms.POST("/links", webHandler.StoreLink)
			forms.POST("/links/notes", webHandler.StoreNote)
			forms.POST("/links/:id/bookmark", webHandler.Bookmark)
			forms.PATCH("/user-links/:id", webHandler.UpdateUserLink)
			forms.POST("/user-links/:id", webHandler.UpdateUserLink)
			forms.POST("/status-with-link", webHandler.StoreStatusWithLink)
			forms.POST("/status", webHandler.StoreStatus)
		}
	}

	if cfg.MCP.Enabled {
		mcpHandler := gin.WrapH(mcp_router.NewHTTPHandler(mcp_router.NewServer(appContainer), cfg.MCP.Path))
		for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
			r.Handle(method, cfg.MCP.Path, optionalAuth, mcpHandler)
		}
	}

	r.NoRoute(middleware.NoFound())

	return r
}
