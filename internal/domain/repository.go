package domain

import (
	"context"
	"time"
)

// NoteRepository 笔记仓储接口
type NoteRepository interface {
	// GetByID 根据ID获取笔记（排除已删除）
	GetByID(ctx context.Context, id, uid int64) (*Note, error)

	// List 分页获取用户未删除的笔记
	List(ctx context.Context, uid int64, page, pageSize int) ([]*Note, error)

	// ListCount 获取用户未删除的笔记数量
	ListCount(ctx context.Context, uid int64) (int64, error)

	// ListAll 获取用户全部未删除的笔记，按更新时间倒序
	ListAll(ctx context.Context, uid int64) ([]*Note, error)

	// Create 创建笔记
	Create(ctx context.Context, note *Note) (*Note, error)

	// Update updates the note only when the stored version equals
	// expectVersion; otherwise ErrVersionConflict is returned.
	// Update 按版本号乐观更新笔记
	Update(ctx context.Context, note *Note, expectVersion int64) (*Note, error)

	// Delete 软删除笔记
	Delete(ctx context.Context, id, uid int64) error

	// DeletePhysicalBefore 物理删除指定时间之前软删除的笔记
	DeletePhysicalBefore(ctx context.Context, before time.Time) (int64, error)
}
