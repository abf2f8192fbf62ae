package dto

import "github.com/haierkeys/fast-note-pdf-link-service/pkg/pdflink"

// PdfLinkCreateRequest 由 PDF 阅读器发起的创建链接请求
type PdfLinkCreateRequest struct {
	// NoteID 非 0 时把链接追加到该笔记末尾
	NoteID        int64  `json:"noteId" form:"noteId" binding:"min=0"`
	NoteVersion   int64  `json:"noteVersion" form:"noteVersion" binding:"min=0"`
	PageNumber    int    `json:"pageNumber" form:"pageNumber" binding:"required,min=1,max=1073741824"`
	OutlineTitle  string `json:"outlineTitle" form:"outlineTitle"`
	Snippet       string `json:"snippet" form:"snippet"`
	FileURL       string `json:"fileUrl" form:"fileUrl" binding:"required"`
	BookmarkTitle string `json:"bookmarkTitle" form:"bookmarkTitle"`
	BookmarkColor string `json:"bookmarkColor" form:"bookmarkColor" binding:"bookmarkcolor"`
}

// PdfLinkBookmarkRequest 修改书签标题与颜色
// 有 NoteID 时按 LinkID 改写笔记中的全部同 id 链接，否则改写 Payload
type PdfLinkBookmarkRequest struct {
	NoteID      int64  `json:"noteId" form:"noteId" binding:"min=0"`
	NoteVersion int64  `json:"noteVersion" form:"noteVersion" binding:"min=0"`
	LinkID      string `json:"linkId" form:"linkId"`
	Payload     string `json:"payload" form:"payload" binding:"omitempty,pdfpayload"`
	Title       string `json:"title" form:"title"`
	Color       string `json:"color" form:"color" binding:"bookmarkcolor"`
}

// PdfLinkResolveRequest 点击链接时解析载荷
type PdfLinkResolveRequest struct {
	Payload string `json:"payload" form:"payload" binding:"required,pdfpayload"`
}

// PdfLinkRecoverRequest 从粘贴的纯文本中恢复链接
type PdfLinkRecoverRequest struct {
	Text string `json:"text" form:"text" binding:"required"`
}

// PdfLinkPaletteRequest 调色板查询
type PdfLinkPaletteRequest struct {
	Color string `json:"color" form:"color"`
}

// NoteLinksRequest 获取单条笔记的链接汇总
type NoteLinksRequest struct {
	ID int64 `json:"id" form:"id" binding:"required,min=1"`
}

// PdfLinkDTO 一个链接节点的全部表示
type PdfLinkDTO struct {
	LinkID   string          `json:"linkId"`
	Payload  string          `json:"payload"`
	Checksum string          `json:"checksum"`
	Label    string          `json:"label"`
	Title    string          `json:"title"`
	DateText string          `json:"dateText"`
	Palette  pdflink.Palette `json:"palette"`
	Attrs    map[string]any  `json:"attrs"`
	HTML     string          `json:"html"`
	// NoteVersion 写入笔记后的版本，未写入笔记时为 0
	NoteVersion int64 `json:"noteVersion,omitempty"`
	// Updated 笔记中被改写的节点数
	Updated int `json:"updated,omitempty"`
}

// PdfLinkSummaryDTO 侧边栏链接汇总项
type PdfLinkSummaryDTO struct {
	ID            string          `json:"id"`
	PageNumber    int             `json:"pageNumber"`
	OutlineTitle  string          `json:"outlineTitle,omitempty"`
	BookmarkTitle string          `json:"bookmarkTitle,omitempty"`
	BookmarkColor string          `json:"bookmarkColor,omitempty"`
	CreatedAt     string          `json:"createdAt"`
	Label         string          `json:"label"`
	DateText      string          `json:"dateText"`
	Palette       pdflink.Palette `json:"palette"`
}

// NoteLinksDTO 单条笔记的链接汇总
type NoteLinksDTO struct {
	NoteID  int64                `json:"noteId"`
	Title   string               `json:"title"`
	Version int64                `json:"version"`
	Links   []*PdfLinkSummaryDTO `json:"links"`
}

// PdfLinkResolveDTO 点击链接后交给阅读器的导航目标
type PdfLinkResolveDTO struct {
	pdflink.Payload
	Label string `json:"label"`
}

// PdfLinkRecoverDTO 从纯文本恢复的结果
type PdfLinkRecoverDTO struct {
	Links   []*PdfLinkDTO `json:"links"`
	Skipped int           `json:"skipped"`
}
