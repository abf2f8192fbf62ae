package api_router

import (
	"time"

	"github.com/haierkeys/fast-note-pdf-link-service/internal/app"
	pkgapp "github.com/haierkeys/fast-note-pdf-link-service/pkg/app"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/code"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/util"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/workerpool"

	"github.com/gin-gonic/gin"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	*Handler
}

// NewHealthHandler 创建健康检查处理器实例
func NewHealthHandler(a *app.App) *HealthHandler {
	return &HealthHandler{Handler: NewHandler(a)}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status     string             `json:"status"`   // "healthy" 或 "unhealthy"
	Version    string             `json:"version"`  // 服务版本号
	Uptime     float64            `json:"uptime"`   // 运行时间（秒）
	Database   string             `json:"database"` // "connected" 或 "error"
	WorkerPool workerpool.Metrics `json:"workerPool"`
	System     util.SystemInfo    `json:"system"`
}

// Check 健康检查接口，包括数据库连接和主机资源
// @Router /api/health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	response := HealthResponse{
		Status:     "healthy",
		Version:    h.App.Version().Version,
		Uptime:     time.Since(h.App.StartTime).Seconds(),
		Database:   "connected",
		WorkerPool: h.App.WorkerPool().GetMetrics(),
		System:     util.GetSystemInfo(h.App.StartTime),
	}

	// 检查数据库连接
	if err := h.App.DB.WithContext(c.Request.Context()).Exec("SELECT 1").Error; err != nil {
		response.Status = "unhealthy"
		response.Database = "error"
		pkgapp.NewResponse(c).ToResponse(code.Failed.WithData(response))
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(response))
}
