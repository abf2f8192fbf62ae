package service

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-pdf-link-service/internal/domain"
	"github.com/haierkeys/fast-note-pdf-link-service/internal/dto"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/app"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/code"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/logger"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/timex"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// NoteService 定义笔记业务服务接口
type NoteService interface {
	// Get 获取单条笔记
	Get(ctx context.Context, uid int64, params *dto.NoteGetRequest) (*dto.NoteDTO, error)

	// List 获取笔记列表
	List(ctx context.Context, uid int64, pager *app.Pager) ([]*dto.NoteNoContentDTO, int, error)

	// ModifyOrCreate 创建或修改笔记，内容未变化时返回 nil
	ModifyOrCreate(ctx context.Context, uid int64, params *dto.NoteModifyOrCreateRequest) (bool, *dto.NoteDTO, error)

	// Delete 软删除笔记
	Delete(ctx context.Context, uid int64, params *dto.NoteDeleteRequest) error

	// GenerateHTML 导出笔记 HTML，返回 HTML 和内容哈希
	GenerateHTML(ctx context.Context, uid int64, params *dto.NoteGetRequest) (string, string, error)

	// CleanupAll 清理所有用户过期的软删除笔记
	CleanupAll(ctx context.Context) (int64, error)
}

// noteService 实现 NoteService 接口
type noteService struct {
	noteRepo domain.NoteRepository
	indexer  *noteIndexer
	config   *ServiceConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewNoteService 创建 NoteService 实例
func NewNoteService(noteRepo domain.NoteRepository, config *ServiceConfig, lg *zap.Logger) NoteService {
	if config == nil {
		config = DefaultServiceConfig()
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	return &noteService{
		noteRepo: noteRepo,
		indexer:  newNoteIndexer(config, lg),
		config:   config,
		logger:   lg,
		now:      time.Now,
	}
}

// Get 获取单条笔记
func (s *noteService) Get(ctx context.Context, uid int64, params *dto.NoteGetRequest) (*dto.NoteDTO, error) {
	note, err := s.noteRepo.GetByID(ctx, params.ID, uid)
	if err != nil {
		return nil, noteError(err, code.ErrorNoteGetFailed)
	}
	return toNoteDTO(note), nil
}

// List 获取笔记列表
func (s *noteService) List(ctx context.Context, uid int64, pager *app.Pager) ([]*dto.NoteNoContentDTO, int, error) {
	notes, err := s.noteRepo.List(ctx, uid, pager.Page, pager.PageSize)
	if err != nil {
		return nil, 0, code.ErrorNoteListFailed.WithDetails(err.Error())
	}
	count, err := s.noteRepo.ListCount(ctx, uid)
	if err != nil {
		return nil, 0, code.ErrorNoteListFailed.WithDetails(err.Error())
	}

	out := make([]*dto.NoteNoContentDTO, 0, len(notes))
	for _, n := range notes {
		out = append(out, &dto.NoteNoContentDTO{
			ID:          n.ID,
			Title:       n.Title,
			Format:      string(n.Format),
			ContentHash: n.ContentHash,
			LinkCount:   n.LinkCount,
			Version:     n.Version,
			UpdatedAt:   timex.Time(n.UpdatedAt),
			CreatedAt:   timex.Time(n.CreatedAt),
		})
	}
	return out, int(count), nil
}

// ModifyOrCreate 创建或修改笔记
func (s *noteService) ModifyOrCreate(ctx context.Context, uid int64, params *dto.NoteModifyOrCreateRequest) (bool, *dto.NoteDTO, error) {
	format, ok := domain.ParseNoteFormat(params.Format)
	if !ok {
		return false, nil, code.ErrorNoteFormatInvalid.WithDetails(params.Format)
	}
	now := s.now()

	if params.ID == 0 {
		note := &domain.Note{
			UID:       uid,
			Action:    domain.NoteActionCreate,
			Title:     params.Title,
			Format:    format,
			Content:   params.Content,
			Version:   1,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.indexer.index(note); err != nil {
			return false, nil, err
		}
		created, err := s.noteRepo.Create(ctx, note)
		if err != nil {
			return false, nil, code.ErrorNoteModifyOrCreateFailed.WithDetails(err.Error())
		}
		s.logger.Info("note created",
			zap.Int64(logger.FieldUID, uid),
			zap.Int64(logger.FieldNoteID, created.ID),
			zap.Int(logger.FieldCount, created.LinkCount))
		return true, toNoteDTO(created), nil
	}

	note, err := s.noteRepo.GetByID(ctx, params.ID, uid)
	if err != nil {
		return false, nil, noteError(err, code.ErrorNoteGetFailed)
	}
	if params.Version != 0 && params.Version != note.Version {
		return false, nil, code.ErrorNoteVersionConflict.WithData(toNoteDTO(note))
	}

	next := *note
	next.Title = params.Title
	next.Format = format
	next.Content = params.Content
	if err := s.indexer.index(&next); err != nil {
		return false, nil, err
	}
	if next.ContentHash == note.ContentHash && next.Title == note.Title && next.Format == note.Format {
		return false, nil, nil
	}

	updated, err := s.save(ctx, &next, note.Version)
	if err != nil {
		return false, nil, err
	}
	return false, toNoteDTO(updated), nil
}

// save 写入已索引的笔记并递增版本号
func (s *noteService) save(ctx context.Context, note *domain.Note, expectVersion int64) (*domain.Note, error) {
	note.Action = domain.NoteActionModify
	note.Version = expectVersion + 1
	note.UpdatedAt = s.now()
	updated, err := s.noteRepo.Update(ctx, note, expectVersion)
	if err != nil {
		return nil, noteError(err, code.ErrorNoteModifyOrCreateFailed)
	}
	return updated, nil
}

// Delete 软删除笔记
func (s *noteService) Delete(ctx context.Context, uid int64, params *dto.NoteDeleteRequest) error {
	if err := s.noteRepo.Delete(ctx, params.ID, uid); err != nil {
		return noteError(err, code.ErrorNoteDeleteFailed)
	}
	return nil
}

// GenerateHTML 导出笔记 HTML
func (s *noteService) GenerateHTML(ctx context.Context, uid int64, params *dto.NoteGetRequest) (string, string, error) {
	note, err := s.noteRepo.GetByID(ctx, params.ID, uid)
	if err != nil {
		return "", "", noteError(err, code.ErrorNoteGetFailed)
	}
	out, err := s.indexer.render(note)
	if err != nil {
		return "", "", err
	}
	return out, note.ContentHash, nil
}

// CleanupAll 清理所有用户过期的软删除笔记
func (s *noteService) CleanupAll(ctx context.Context) (int64, error) {
	retention := s.config.App.SoftDeleteRetention
	if retention <= 0 {
		return 0, nil
	}
	n, err := s.noteRepo.DeletePhysicalBefore(ctx, s.now().Add(-retention))
	if err != nil {
		return 0, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if n > 0 {
		s.logger.Info("expired notes removed", zap.Int64(logger.FieldCount, n))
	}
	return n, nil
}

// noteError 将仓储错误转换为业务错误码
func noteError(err error, fallback *code.Code) error {
	switch {
	case errors.Is(err, domain.ErrNoteNotFound):
		return code.ErrorNoteNotFound
	case errors.Is(err, domain.ErrVersionConflict):
		return code.ErrorNoteVersionConflict
	}
	return fallback.WithDetails(err.Error())
}

func toNoteDTO(n *domain.Note) *dto.NoteDTO {
	return &dto.NoteDTO{
		ID:          n.ID,
		Title:       n.Title,
		Format:      string(n.Format),
		Content:     n.Content,
		ContentHash: n.ContentHash,
		LinkCount:   n.LinkCount,
		Version:     n.Version,
		UpdatedAt:   timex.Time(n.UpdatedAt),
		CreatedAt:   timex.Time(n.CreatedAt),
	}
}
