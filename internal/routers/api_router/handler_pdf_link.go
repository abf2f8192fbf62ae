package api_router

import (
	"github.com/gin-gonic/gin"
	"github.com/haierkeys/fast-note-pdf-link-service/internal/app"
	"github.com/haierkeys/fast-note-pdf-link-service/internal/dto"
	pkgapp "github.com/haierkeys/fast-note-pdf-link-service/pkg/app"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/code"
)

// PdfLinkHandler PDF 链接 API 路由处理器
type PdfLinkHandler struct {
	*Handler
}

// NewPdfLinkHandler 创建 PdfLinkHandler 实例
func NewPdfLinkHandler(a *app.App) *PdfLinkHandler {
	return &PdfLinkHandler{Handler: NewHandler(a)}
}

// Create 由阅读器选区创建链接，可选追加到笔记
// @Router /api/pdf-link [post]
func (h *PdfLinkHandler) Create(c *gin.Context) {
	params := &dto.PdfLinkCreateRequest{}
	if !h.bind(c, "PdfLinkHandler.Create", params) {
		return
	}
	uid, ok := h.uid(c, "PdfLinkHandler.Create")
	if !ok {
		return
	}

	link, err := h.App.PdfLinkService.Create(c.Request.Context(), uid, params)
	if err != nil {
		h.fail(c, "PdfLinkHandler.Create", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessCreate.WithData(link))
}

// Bookmark 修改书签标题与颜色
// @Router /api/pdf-link/bookmark [put]
func (h *PdfLinkHandler) Bookmark(c *gin.Context) {
	params := &dto.PdfLinkBookmarkRequest{}
	if !h.bind(c, "PdfLinkHandler.Bookmark", params) {
		return
	}
	uid, ok := h.uid(c, "PdfLinkHandler.Bookmark")
	if !ok {
		return
	}

	link, err := h.App.PdfLinkService.EditBookmark(c.Request.Context(), uid, params)
	if err != nil {
		h.fail(c, "PdfLinkHandler.Bookmark", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessUpdate.WithData(link))
}

// Resolve 点击链接时解析载荷，返回导航目标
// @Router /api/pdf-link/resolve [post]
func (h *PdfLinkHandler) Resolve(c *gin.Context) {
	params := &dto.PdfLinkResolveRequest{}
	if !h.bind(c, "PdfLinkHandler.Resolve", params) {
		return
	}

	target, err := h.App.PdfLinkService.Resolve(c.Request.Context(), params)
	if err != nil {
		h.fail(c, "PdfLinkHandler.Resolve", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(target))
}

// Recover 从粘贴的纯文本中恢复链接
// @Router /api/pdf-link/recover [post]
func (h *PdfLinkHandler) Recover(c *gin.Context) {
	params := &dto.PdfLinkRecoverRequest{}
	if !h.bind(c, "PdfLinkHandler.Recover", params) {
		return
	}

	out, err := h.App.PdfLinkService.Recover(c.Request.Context(), params)
	if err != nil {
		h.fail(c, "PdfLinkHandler.Recover", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(out))
}

// Palette 获取颜色对应的调色板
// @Router /api/pdf-link/palette [get]
func (h *PdfLinkHandler) Palette(c *gin.Context) {
	params := &dto.PdfLinkPaletteRequest{}
	if !h.bind(c, "PdfLinkHandler.Palette", params) {
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(h.App.PdfLinkService.Palette(params.Color)))
}

// NoteLinks 获取单条笔记的链接汇总（侧边栏）
// @Router /api/note/pdf-links [get]
func (h *PdfLinkHandler) NoteLinks(c *gin.Context) {
	params := &dto.NoteLinksRequest{}
	if !h.bind(c, "PdfLinkHandler.NoteLinks", params) {
		return
	}
	uid, ok := h.uid(c, "PdfLinkHandler.NoteLinks")
	if !ok {
		return
	}

	links, err := h.App.PdfLinkService.Summaries(c.Request.Context(), uid, params.ID)
	if err != nil {
		h.fail(c, "PdfLinkHandler.NoteLinks", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(links))
}

// AllLinks 获取用户全部笔记的链接汇总
// @Router /api/pdf-links [get]
func (h *PdfLinkHandler) AllLinks(c *gin.Context) {
	uid, ok := h.uid(c, "PdfLinkHandler.AllLinks")
	if !ok {
		return
	}

	links, err := h.App.PdfLinkService.SummariesAll(c.Request.Context(), uid)
	if err != nil {
		h.fail(c, "PdfLinkHandler.AllLinks", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(links))
}
