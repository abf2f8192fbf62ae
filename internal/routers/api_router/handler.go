// Package api_router 提供 HTTP API 路由处理器
package api_router

import (
	"github.com/haierkeys/fast-note-pdf-link-service/internal/app"
	"github.com/haierkeys/fast-note-pdf-link-service/internal/middleware"
	pkgapp "github.com/haierkeys/fast-note-pdf-link-service/pkg/app"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/code"
	apperrors "github.com/haierkeys/fast-note-pdf-link-service/pkg/errors"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 基础 Handler 结构体，封装 App Container
// 所有 API Handler 都应该嵌入此结构体以获得依赖注入能力
type Handler struct {
	App *app.App
}

// NewHandler 创建基础 Handler 实例
func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}

// bind 绑定并校验参数，失败时写出参数错误响应
func (h *Handler) bind(c *gin.Context, method string, params interface{}) bool {
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Warn(method+".BindAndValid err",
			zap.String(logger.FieldTraceID, middleware.GetTraceIDFromGin(c)),
			zap.Error(errs))
		pkgapp.NewResponse(c).ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()...).WithData(errs.MapsToString()))
		return false
	}
	return true
}

// uid 获取登录用户 ID，为 0 时写出 Token 错误响应
func (h *Handler) uid(c *gin.Context, method string) (int64, bool) {
	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error(method + " err uid=0")
		pkgapp.NewResponse(c).ToResponse(code.ErrorInvalidUserAuthToken)
		return 0, false
	}
	return uid, true
}

// fail 记录错误并写出统一错误响应
func (h *Handler) fail(c *gin.Context, method string, err error) {
	h.App.Logger().Error(method,
		zap.String(logger.FieldTraceID, middleware.GetTraceIDFromGin(c)),
		zap.Int64(logger.FieldUID, pkgapp.GetUID(c)),
		zap.Error(err))
	apperrors.ErrorResponse(c, err)
}
