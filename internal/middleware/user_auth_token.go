package middleware

import (
	"strings"

	"github.com/haierkeys/fast-note-pdf-link-service/pkg/app"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// UserAuthToken 用户 Token 认证中间件
// Token 可来自 Authorization / Token 请求头或 authorization / token 查询参数
func UserAuthToken(tm app.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := requestToken(c)
		if token == "" {
			app.NewResponse(c).ToResponse(code.ErrorNotUserAuthToken)
			c.Abort()
			return
		}

		if err := app.SetTokenToContext(c, tm, token); err != nil {
			app.NewResponse(c).ToResponse(code.ErrorInvalidUserAuthToken)
			c.Abort()
			return
		}

		c.Next()
	}
}

func requestToken(c *gin.Context) string {
	var token string
	if s := c.GetHeader("Authorization"); s != "" {
		token = s
	} else if s := c.GetHeader("Token"); s != "" {
		token = s
	} else if s, ok := c.GetQuery("authorization"); ok {
		token = s
	} else if s, ok := c.GetQuery("token"); ok {
		token = s
	}
	token = strings.TrimSpace(token)
	if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}
