package dao

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-pdf-link-service/internal/domain"
	"github.com/haierkeys/fast-note-pdf-link-service/internal/model"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/timex"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// noteRepository 实现 domain.NoteRepository 接口
type noteRepository struct {
	dao *Dao
}

// NewNoteRepository 创建 NoteRepository 实例
func NewNoteRepository(dao *Dao) domain.NoteRepository {
	return &noteRepository{dao: dao}
}

func (r *noteRepository) db(ctx context.Context) *gorm.DB {
	return r.dao.Db.WithContext(ctx).Model(&model.Note{})
}

// toDomain 将数据库模型转换为领域模型，JSON 笔记的内容取自 doc_json 列
func (r *noteRepository) toDomain(m *model.Note) *domain.Note {
	if m == nil {
		return nil
	}
	n := &domain.Note{
		ID:          m.ID,
		UID:         m.UID,
		Action:      domain.NoteAction(m.Action),
		Title:       m.Title,
		Format:      domain.NoteFormat(m.Format),
		Content:     m.Content,
		DocText:     m.DocText,
		ContentHash: m.ContentHash,
		LinkCount:   m.LinkCount,
		Version:     m.Version,
		CreatedAt:   time.Time(m.CreatedAt),
		UpdatedAt:   time.Time(m.UpdatedAt),
	}
	if n.Format == domain.NoteFormatJSON && len(m.DocJSON) > 0 {
		n.Content = string(m.DocJSON)
	}
	return n
}

// toModel 将领域模型转换为数据库模型
func (r *noteRepository) toModel(n *domain.Note) *model.Note {
	m := &model.Note{
		ID:          n.ID,
		UID:         n.UID,
		Action:      string(n.Action),
		Title:       n.Title,
		Format:      string(n.Format),
		Content:     n.Content,
		DocText:     n.DocText,
		ContentHash: n.ContentHash,
		LinkCount:   n.LinkCount,
		Version:     n.Version,
		CreatedAt:   timex.Time(n.CreatedAt),
		UpdatedAt:   timex.Time(n.UpdatedAt),
	}
	if n.Format == domain.NoteFormatJSON {
		m.DocJSON = datatypes.JSON(n.Content)
		m.Content = ""
	}
	return m
}

// GetByID 根据ID获取笔记
func (r *noteRepository) GetByID(ctx context.Context, id, uid int64) (*domain.Note, error) {
	var m model.Note
	err := r.db(ctx).
		Where("id = ? AND uid = ? AND action <> ?", id, uid, domain.NoteActionDelete).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *noteRepository) live(ctx context.Context, uid int64) *gorm.DB {
	return r.db(ctx).Where("uid = ? AND action <> ?", uid, domain.NoteActionDelete)
}

// List 分页获取笔记
func (r *noteRepository) List(ctx context.Context, uid int64, page, pageSize int) ([]*domain.Note, error) {
	var ms []*model.Note
	offset := 0
	if page > 0 {
		offset = (page - 1) * pageSize
	}
	err := r.live(ctx, uid).
		Order("updated_at DESC, id DESC").
		Offset(offset).Limit(pageSize).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainList(ms), nil
}

// ListCount 获取笔记数量
func (r *noteRepository) ListCount(ctx context.Context, uid int64) (int64, error) {
	var n int64
	err := r.live(ctx, uid).Count(&n).Error
	return n, err
}

// ListAll 获取全部笔记
func (r *noteRepository) ListAll(ctx context.Context, uid int64) ([]*domain.Note, error) {
	var ms []*model.Note
	if err := r.live(ctx, uid).Order("updated_at DESC, id DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	return r.toDomainList(ms), nil
}

func (r *noteRepository) toDomainList(ms []*model.Note) []*domain.Note {
	out := make([]*domain.Note, 0, len(ms))
	for _, m := range ms {
		out = append(out, r.toDomain(m))
	}
	return out
}

// Create 创建笔记
func (r *noteRepository) Create(ctx context.Context, n *domain.Note) (*domain.Note, error) {
	m := r.toModel(n)
	m.ID = 0
	if err := r.dao.Db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// Update 乐观锁更新
func (r *noteRepository) Update(ctx context.Context, n *domain.Note, expectVersion int64) (*domain.Note, error) {
	m := r.toModel(n)
	res := r.db(ctx).
		Where("id = ? AND uid = ? AND version = ? AND action <> ?", n.ID, n.UID, expectVersion, domain.NoteActionDelete).
		Select("action", "title", "format", "content", "doc_json", "doc_text", "content_hash", "link_count", "version", "updated_at").
		Updates(m)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, n.ID, n.UID); err != nil {
			return nil, err
		}
		return nil, domain.ErrVersionConflict
	}
	return r.GetByID(ctx, n.ID, n.UID)
}

// Delete 软删除
func (r *noteRepository) Delete(ctx context.Context, id, uid int64) error {
	res := r.db(ctx).
		Where("id = ? AND uid = ? AND action <> ?", id, uid, domain.NoteActionDelete).
		Updates(map[string]any{
			"action":     string(domain.NoteActionDelete),
			"updated_at": timex.Now(),
			"version":    gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}

// DeletePhysicalBefore 物理删除过期的软删除笔记
func (r *noteRepository) DeletePhysicalBefore(ctx context.Context, before time.Time) (int64, error) {
	res := r.dao.Db.WithContext(ctx).
		Where("action = ? AND updated_at < ?", domain.NoteActionDelete, timex.Time(before)).
		Delete(&model.Note{})
	return res.RowsAffected, res.Error
}
