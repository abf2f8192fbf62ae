package middleware

import (
	"github.com/gin-gonic/gin"
)

// AppVersionHeader 响应头中的服务版本
const AppVersionHeader = "X-Pdf-Link-Service-Version"

// AppInfo exposes the service name and version on every response
// AppInfo 在响应头和 Context 中写入服务名与版本
func AppInfo(name, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("app_name", name)
		c.Set("app_version", version)
		c.Header(AppVersionHeader, version)
		c.Next()
	}
}
