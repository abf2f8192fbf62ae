package routers

import (
	"net/http"
	"time"

	"github.com/haierkeys/fast-note-pdf-link-service/internal/app"
	"github.com/haierkeys/fast-note-pdf-link-service/internal/middleware"
	"github.com/haierkeys/fast-note-pdf-link-service/internal/routers/api_router"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/klauspost/compress/gzhttp"
)

// limitedRoutes 需要单独限流的接口（扫描或遍历全部笔记，开销较大）
var limitedRoutes = []string{
	"/api/pdf-link/recover",
	"/api/pdf-links",
	"/api/note/html",
}

func newMethodLimiter(cfg *app.AppConfig) limiter.LimiterIface {
	l := limiter.NewMethodLimiter()
	interval := cfg.GetRateLimitInterval()
	for _, key := range limitedRoutes {
		l.AddBuckets(limiter.BucketRule{
			Key:          key,
			FillInterval: interval,
			Capacity:     cfg.App.RateLimitCapacity,
			Quantum:      cfg.App.RateLimitCapacity,
		})
	}
	return l
}

// NewRouter creates the public API router
// NewRouter 创建公共 API 路由
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {
	cfg := appContainer.Config()
	lg := appContainer.Logger()

	r := gin.New()
	r.NoRoute(middleware.NoFound())

	api := r.Group("/api")
	{
		api.Use(middleware.AppInfo(app.Name, appContainer.Version().Version))
		api.Use(middleware.TraceMiddleware(cfg.Tracer.Enabled, cfg.Tracer.Header)) // Trace ID 中间件
		api.Use(middleware.RateLimiter(newMethodLimiter(cfg)))
		api.Use(middleware.ContextTimeout(time.Duration(cfg.App.DefaultContextTimeout) * time.Second))
		api.Use(middleware.LangWithTranslator(uni, cfg.Server.Lang))
		api.Use(middleware.AccessLog(lg))
		api.Use(middleware.RecoveryWithLogger(lg))

		versionHandler := api_router.NewVersionHandler(appContainer)
		healthHandler := api_router.NewHealthHandler(appContainer)
		noteHandler := api_router.NewNoteHandler(appContainer)
		pdfLinkHandler := api_router.NewPdfLinkHandler(appContainer)

		// 无需认证
		api.GET("/version", versionHandler.ServerVersion)
		api.GET("/health", healthHandler.Check)

		auth := api.Group("", middleware.UserAuthToken(appContainer.TokenManager))
		{
			auth.GET("/notes", noteHandler.List)
			auth.GET("/note", noteHandler.Get)
			auth.POST("/note", noteHandler.CreateOrUpdate)
			auth.DELETE("/note", noteHandler.Delete)
			auth.GET("/note/html", noteHandler.HTML)

			auth.GET("/note/pdf-links", pdfLinkHandler.NoteLinks)
			auth.GET("/pdf-links", pdfLinkHandler.AllLinks)
			auth.POST("/pdf-link", pdfLinkHandler.Create)
			auth.PUT("/pdf-link/bookmark", pdfLinkHandler.Bookmark)
			auth.POST("/pdf-link/resolve", pdfLinkHandler.Resolve)
			auth.POST("/pdf-link/recover", pdfLinkHandler.Recover)
			auth.GET("/pdf-link/palette", pdfLinkHandler.Palette)
		}
	}

	return r
}

// NewHandler wraps the router with response compression when enabled
// NewHandler 按配置为路由加上 gzip 压缩
func NewHandler(appContainer *app.App, uni *ut.UniversalTranslator) http.Handler {
	r := NewRouter(appContainer, uni)
	if !appContainer.Config().Server.Gzip {
		return r
	}
	return gzhttp.GzipHandler(r)
}
