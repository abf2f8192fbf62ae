package middleware

import (
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/app"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/code"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/limiter"

	"github.com/gin-gonic/gin"
)

// RateLimiter rejects requests whose route bucket is empty
// RateLimiter 令牌桶为空时拒绝请求，未配置桶的路由不限流
func RateLimiter(l limiter.LimiterIface) gin.HandlerFunc {
	return func(c *gin.Context) {
		if bucket, ok := l.GetBucket(l.Key(c)); ok {
			if bucket.TakeAvailable(1) == 0 {
				app.NewResponse(c).ToResponse(code.ErrorTooManyRequests)
				c.Abort()
				return
			}
		}
		c.Next()
	}
}
