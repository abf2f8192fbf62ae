package domain

import "github.com/pkg/errors"

var (
	// ErrNoteNotFound 笔记不存在或已删除
	ErrNoteNotFound = errors.New("note not found")
	// ErrVersionConflict 笔记已被其他请求修改
	ErrVersionConflict = errors.New("note version conflict")
)
