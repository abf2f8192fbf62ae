package api_router

import (
	"github.com/gin-gonic/gin"
	"github.com/haierkeys/fast-note-pdf-link-service/internal/app"
	"github.com/haierkeys/fast-note-pdf-link-service/internal/dto"
	pkgapp "github.com/haierkeys/fast-note-pdf-link-service/pkg/app"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/code"
)

// VersionHandler 版本信息 API 路由处理器
type VersionHandler struct {
	*Handler
}

// NewVersionHandler 创建 VersionHandler 实例
func NewVersionHandler(a *app.App) *VersionHandler {
	return &VersionHandler{Handler: NewHandler(a)}
}

// ServerVersion 获取服务端版本，并检查 clientVersion 是否受支持
// @Router /api/version [get]
func (h *VersionHandler) ServerVersion(c *gin.Context) {
	params := &dto.VersionRequest{}
	if !h.bind(c, "VersionHandler.ServerVersion", params) {
		return
	}
	if params.ClientVersion == "" {
		params.ClientVersion = c.GetHeader("X-Client-Version")
	}

	versionInfo := h.App.Version()
	checkInfo := h.App.CheckVersion(params.ClientVersion)
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(dto.VersionDTO{
		Version:          versionInfo.Version,
		GitTag:           versionInfo.GitTag,
		BuildTime:        versionInfo.BuildTime,
		ClientVersion:    checkInfo.ClientVersion,
		ClientSupported:  checkInfo.ClientSupported,
		MinClientVersion: checkInfo.MinClientVersion,
	}))
}
