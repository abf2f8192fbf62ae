// Package domain 定义领域模型和接口
package domain

import "time"

// NoteAction 定义笔记操作类型
type NoteAction string

const (
	NoteActionCreate NoteAction = "create"
	NoteActionModify NoteAction = "modify"
	NoteActionDelete NoteAction = "delete"
)

// NoteFormat 笔记内容格式
type NoteFormat string

const (
	// NoteFormatHTML 富文本 HTML
	NoteFormatHTML NoteFormat = "html"
	// NoteFormatJSON 编辑器 JSON 文档
	NoteFormatJSON NoteFormat = "json"
	// NoteFormatMarkdown Markdown，PDF 链接以内嵌 HTML 保存
	NoteFormatMarkdown NoteFormat = "markdown"
)

// ParseNoteFormat 解析格式，空值按 html 处理
func ParseNoteFormat(s string) (NoteFormat, bool) {
	switch NoteFormat(s) {
	case "", NoteFormatHTML:
		return NoteFormatHTML, true
	case NoteFormatJSON, NoteFormatMarkdown:
		return NoteFormat(s), true
	}
	return "", false
}

// Note 笔记领域模型
type Note struct {
	ID          int64
	UID         int64
	Action      NoteAction
	Title       string
	Format      NoteFormat
	Content     string
	DocText     string
	ContentHash string
	LinkCount   int
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
