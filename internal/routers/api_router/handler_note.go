package api_router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/haierkeys/fast-note-pdf-link-service/internal/app"
	"github.com/haierkeys/fast-note-pdf-link-service/internal/dto"
	pkgapp "github.com/haierkeys/fast-note-pdf-link-service/pkg/app"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/code"
)

// NoteHandler 笔记 API 路由处理器
// 使用 App Container 注入依赖，支持统一错误处理
type NoteHandler struct {
	*Handler
}

// NewNoteHandler 创建 NoteHandler 实例
func NewNoteHandler(a *app.App) *NoteHandler {
	return &NoteHandler{Handler: NewHandler(a)}
}

// Get 获取单条笔记详情
// @Router /api/note [get]
func (h *NoteHandler) Get(c *gin.Context) {
	params := &dto.NoteGetRequest{}
	if !h.bind(c, "NoteHandler.Get", params) {
		return
	}
	uid, ok := h.uid(c, "NoteHandler.Get")
	if !ok {
		return
	}

	note, err := h.App.NoteService.Get(c.Request.Context(), uid, params)
	if err != nil {
		h.fail(c, "NoteHandler.Get", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(note))
}

// List 分页获取笔记列表
// @Router /api/notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	uid, ok := h.uid(c, "NoteHandler.List")
	if !ok {
		return
	}

	pager := &pkgapp.Pager{Page: pkgapp.GetPage(c), PageSize: pkgapp.GetPageSize(c)}
	notes, count, err := h.App.NoteService.List(c.Request.Context(), uid, pager)
	if err != nil {
		h.fail(c, "NoteHandler.List", err)
		return
	}
	pkgapp.NewResponse(c).ToResponseList(code.Success, notes, count)
}

// CreateOrUpdate 创建或修改笔记
// @Router /api/note [post]
func (h *NoteHandler) CreateOrUpdate(c *gin.Context) {
	params := &dto.NoteModifyOrCreateRequest{}
	if !h.bind(c, "NoteHandler.CreateOrUpdate", params) {
		return
	}
	uid, ok := h.uid(c, "NoteHandler.CreateOrUpdate")
	if !ok {
		return
	}

	isNew, note, err := h.App.NoteService.ModifyOrCreate(c.Request.Context(), uid, params)
	if err != nil {
		h.fail(c, "NoteHandler.CreateOrUpdate", err)
		return
	}

	response := pkgapp.NewResponse(c)
	switch {
	case isNew:
		response.ToResponse(code.SuccessCreate.WithData(note))
	case note == nil:
		response.ToResponse(code.SuccessNoUpdate)
	default:
		response.ToResponse(code.SuccessUpdate.WithData(note))
	}
}

// Delete 删除笔记
// @Router /api/note [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	params := &dto.NoteDeleteRequest{}
	if !h.bind(c, "NoteHandler.Delete", params) {
		return
	}
	uid, ok := h.uid(c, "NoteHandler.Delete")
	if !ok {
		return
	}

	if err := h.App.NoteService.Delete(c.Request.Context(), uid, params); err != nil {
		h.fail(c, "NoteHandler.Delete", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessDelete)
}

// HTML 导出笔记为 HTML 文档，链接以完整节点输出
// 支持 If-None-Match 协商缓存
// @Router /api/note/html [get]
func (h *NoteHandler) HTML(c *gin.Context) {
	params := &dto.NoteGetRequest{}
	if !h.bind(c, "NoteHandler.HTML", params) {
		return
	}
	uid, ok := h.uid(c, "NoteHandler.HTML")
	if !ok {
		return
	}

	out, hash, err := h.App.NoteService.GenerateHTML(c.Request.Context(), uid, params)
	if err != nil {
		h.fail(c, "NoteHandler.HTML", err)
		return
	}

	etag := `"` + hash + `"`
	c.Header("ETag", etag)
	c.Header("Cache-Control", "private, no-cache")
	if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(out))
}
