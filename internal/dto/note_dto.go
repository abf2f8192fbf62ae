// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import "github.com/haierkeys/fast-note-pdf-link-service/pkg/timex"

// NoteDTO 笔记数据传输对象
type NoteDTO struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Format      string     `json:"format"`
	Content     string     `json:"content"`
	ContentHash string     `json:"contentHash"`
	LinkCount   int        `json:"linkCount"`
	Version     int64      `json:"version"`
	UpdatedAt   timex.Time `json:"updatedAt"`
	CreatedAt   timex.Time `json:"createdAt"`
}

// NoteNoContentDTO 不包含内容的笔记 DTO
type NoteNoContentDTO struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Format      string     `json:"format"`
	ContentHash string     `json:"contentHash"`
	LinkCount   int        `json:"linkCount"`
	Version     int64      `json:"version"`
	UpdatedAt   timex.Time `json:"updatedAt"`
	CreatedAt   timex.Time `json:"createdAt"`
}

// NoteGetRequest 获取单条笔记的请求参数
type NoteGetRequest struct {
	ID int64 `json:"id" form:"id" binding:"required,min=1"`
}

// NoteModifyOrCreateRequest 创建或修改笔记的请求参数
// ID 为 0 时创建；修改时 Version 必须等于当前版本
type NoteModifyOrCreateRequest struct {
	ID      int64  `json:"id" form:"id" binding:"min=0"`
	Title   string `json:"title" form:"title" binding:"max=255"`
	Format  string `json:"format" form:"format" binding:"noteformat"`
	Content string `json:"content" form:"content"`
	Version int64  `json:"version" form:"version" binding:"min=0"`
}

// NoteDeleteRequest 删除笔记的请求参数
type NoteDeleteRequest struct {
	ID int64 `json:"id" form:"id" binding:"required,min=1"`
}
