package middleware

import (
	"github.com/haierkeys/locket-service/pkg/app"

	"github.com/gin-gonic/gin"
)

// AppInfo exposes the app name, version and access host to handlers.
func AppInfo(name, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("app_name", name)
		c.Set("app_version", version)
		c.Set("access_host", app.GetAccessHost(c))
		c.Header("X-Locket-Version", version)

		c.Next()
	}
}
