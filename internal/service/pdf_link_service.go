package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/haierkeys/fast-note-pdf-link-service/internal/domain"
	"github.com/haierkeys/fast-note-pdf-link-service/internal/dto"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/code"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/logger"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/pdflink"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/workerpool"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// PdfLinkService 定义 PDF 链接业务服务接口
type PdfLinkService interface {
	// Create 由阅读器选区创建链接，可选追加到笔记
	Create(ctx context.Context, uid int64, params *dto.PdfLinkCreateRequest) (*dto.PdfLinkDTO, error)

	// EditBookmark 修改书签标题与颜色
	EditBookmark(ctx context.Context, uid int64, params *dto.PdfLinkBookmarkRequest) (*dto.PdfLinkDTO, error)

	// Resolve 解析载荷，返回导航目标
	Resolve(ctx context.Context, params *dto.PdfLinkResolveRequest) (*dto.PdfLinkResolveDTO, error)

	// Summaries 获取单条笔记的链接汇总
	Summaries(ctx context.Context, uid int64, noteID int64) (*dto.NoteLinksDTO, error)

	// SummariesAll 获取用户全部笔记的链接汇总
	SummariesAll(ctx context.Context, uid int64) ([]*dto.NoteLinksDTO, error)

	// Recover 从纯文本中恢复链接
	Recover(ctx context.Context, params *dto.PdfLinkRecoverRequest) (*dto.PdfLinkRecoverDTO, error)

	// Palette 获取颜色对应的调色板
	Palette(color string) pdflink.Palette
}

// pdfLinkService 实现 PdfLinkService 接口
type pdfLinkService struct {
	noteRepo domain.NoteRepository
	notes    *noteService
	indexer  *noteIndexer
	pool     *workerpool.Pool
	sf       *singleflight.Group
	config   *ServiceConfig
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// NewPdfLinkService 创建 PdfLinkService 实例
func NewPdfLinkService(noteRepo domain.NoteRepository, pool *workerpool.Pool, config *ServiceConfig, lg *zap.Logger) PdfLinkService {
	notes := NewNoteService(noteRepo, config, lg).(*noteService)
	return &pdfLinkService{
		noteRepo: noteRepo,
		notes:    notes,
		indexer:  notes.indexer,
		pool:     pool,
		sf:       &singleflight.Group{},
		config:   notes.config,
		logger:   notes.logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Create 创建链接
func (s *pdfLinkService) Create(ctx context.Context, uid int64, params *dto.PdfLinkCreateRequest) (out *dto.PdfLinkDTO, err error) {
	defer func() { observeOperation("create", err) }()

	p := pdflink.Payload{
		LinkID:       s.newID(),
		PageNumber:   params.PageNumber,
		OutlineTitle: params.OutlineTitle,
		Snippet:      params.Snippet,
		FileURL:      params.FileURL,
		CreatedAt:    s.now().UTC().Format(time.RFC3339),
	}.WithBookmark(params.BookmarkTitle, params.BookmarkColor)

	a, err := pdflink.NewNodeAttrs(p)
	if err != nil {
		return nil, code.ErrorPdfLinkInvalid.WithDetails(err.Error())
	}
	out = s.toDTO(a)
	if params.NoteID == 0 {
		return out, nil
	}

	note, err := s.noteRepo.GetByID(ctx, params.NoteID, uid)
	if err != nil {
		return nil, noteError(err, code.ErrorNoteGetFailed)
	}
	if params.NoteVersion != 0 && params.NoteVersion != note.Version {
		return nil, code.ErrorNoteVersionConflict
	}

	switch note.Format {
	case domain.NoteFormatJSON:
		doc, err := pdflink.ParseDoc(note.Content)
		if err != nil {
			return nil, code.ErrorNoteFormatInvalid.WithDetails(err.Error())
		}
		pdflink.AppendDoc(doc, a)
		if note.Content, err = pdflink.MarshalDoc(doc); err != nil {
			return nil, code.ErrorPdfLinkEditFailed.WithDetails(err.Error())
		}
	case domain.NoteFormatMarkdown:
		note.Content = appendBlock(note.Content, out.HTML+"\n", "\n\n")
	default:
		note.Content = appendBlock(note.Content, "<p>"+out.HTML+"</p>", "")
	}

	saved, err := s.saveNote(ctx, note)
	if err != nil {
		return nil, err
	}
	out.NoteVersion = saved.Version
	out.Updated = 1

	s.logger.Info("pdf link created",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNoteID, note.ID),
		zap.String(logger.FieldLinkID, a.LinkID),
		zap.Int(logger.FieldPageNumber, a.PageNumber))
	return out, nil
}

// EditBookmark 修改书签
func (s *pdfLinkService) EditBookmark(ctx context.Context, uid int64, params *dto.PdfLinkBookmarkRequest) (out *dto.PdfLinkDTO, err error) {
	defer func() { observeOperation("bookmark", err) }()

	linkID := params.LinkID
	var decoded *pdflink.Payload
	if params.Payload != "" {
		p, err := pdflink.Decode(params.Payload)
		if err != nil {
			pdfLinkDecodeFailures.WithLabelValues(decodeSourceEdit).Inc()
			return nil, code.ErrorPdfLinkDecode.WithDetails(err.Error())
		}
		decoded = &p
		if linkID == "" {
			linkID = p.LinkID
		}
	}

	if params.NoteID == 0 {
		if decoded == nil {
			return nil, code.ErrorInvalidParams.WithDetails("payload or noteId is required")
		}
		a, err := pdflink.NewNodeAttrs(decoded.WithBookmark(params.Title, params.Color))
		if err != nil {
			return nil, code.ErrorPdfLinkInvalid.WithDetails(err.Error())
		}
		return s.toDTO(a), nil
	}
	if linkID == "" {
		return nil, code.ErrorInvalidParams.WithDetails("linkId is required")
	}

	note, err := s.noteRepo.GetByID(ctx, params.NoteID, uid)
	if err != nil {
		return nil, noteError(err, code.ErrorNoteGetFailed)
	}
	if params.NoteVersion != 0 && params.NoteVersion != note.Version {
		return nil, code.ErrorNoteVersionConflict
	}

	edit := pdflink.Bookmark(params.Title, params.Color)
	opts := s.config.PdfLink.Recognize
	var changed int
	switch note.Format {
	case domain.NoteFormatJSON:
		doc, perr := pdflink.ParseDoc(note.Content)
		if perr != nil {
			return nil, code.ErrorNoteFormatInvalid.WithDetails(perr.Error())
		}
		if changed, err = pdflink.EditDoc(doc, linkID, edit, opts); err == nil {
			note.Content, err = pdflink.MarshalDoc(doc)
		}
	case domain.NoteFormatMarkdown:
		note.Content, changed, err = pdflink.EditMarkdown(note.Content, linkID, edit, s.indexer.formatter, opts)
	default:
		note.Content, changed, err = pdflink.EditHTML(note.Content, linkID, edit, s.indexer.formatter, opts)
	}
	if err != nil {
		return nil, linkEditError(err, linkID)
	}

	var edited *pdflink.NodeAttrs
	for _, a := range s.indexer.nodes(note) {
		if a.EffectiveLinkID() == linkID {
			edited = &a
			break
		}
	}
	if edited == nil {
		return nil, code.ErrorPdfLinkEditFailed.WithContext(linkID)
	}

	saved, err := s.saveNote(ctx, note)
	if err != nil {
		return nil, err
	}
	out = s.toDTO(*edited)
	out.NoteVersion = saved.Version
	out.Updated = changed

	s.logger.Info("pdf link bookmark updated",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNoteID, note.ID),
		zap.String(logger.FieldLinkID, linkID),
		zap.Int(logger.FieldCount, changed))
	return out, nil
}

// Resolve 解析载荷
func (s *pdfLinkService) Resolve(ctx context.Context, params *dto.PdfLinkResolveRequest) (out *dto.PdfLinkResolveDTO, err error) {
	defer func() { observeOperation("resolve", err) }()

	p, err := pdflink.Decode(params.Payload)
	if err != nil {
		pdfLinkDecodeFailures.WithLabelValues(decodeSourceResolve).Inc()
		return nil, code.ErrorPdfLinkDecode.WithDetails(err.Error())
	}
	return &dto.PdfLinkResolveDTO{
		Payload: p,
		Label:   pdflink.DisplayLabel(p.BookmarkTitle, p.OutlineTitle, p.PageNumber),
	}, nil
}

// Summaries 获取单条笔记的链接汇总
func (s *pdfLinkService) Summaries(ctx context.Context, uid int64, noteID int64) (*dto.NoteLinksDTO, error) {
	note, err := s.noteRepo.GetByID(ctx, noteID, uid)
	if err != nil {
		return nil, noteError(err, code.ErrorNoteGetFailed)
	}
	return s.summarize(note)
}

// SummariesAll 并行汇总用户全部笔记，结果保持笔记列表顺序
func (s *pdfLinkService) SummariesAll(ctx context.Context, uid int64) ([]*dto.NoteLinksDTO, error) {
	notes, err := s.noteRepo.ListAll(ctx, uid)
	if err != nil {
		return nil, code.ErrorNoteListFailed.WithDetails(err.Error())
	}
	withLinks := notes[:0]
	for _, n := range notes {
		if n.LinkCount > 0 {
			withLinks = append(withLinks, n)
		}
	}

	out, err := workerpool.Map(ctx, s.pool, withLinks, func(_ context.Context, n *domain.Note) (*dto.NoteLinksDTO, error) {
		return s.summarize(n)
	})
	if err != nil {
		return nil, code.ErrorPdfLinkSummaryFail.WithDetails(err.Error())
	}
	return out, nil
}

// summarize 同一笔记同一版本的并发请求只计算一次
func (s *pdfLinkService) summarize(note *domain.Note) (*dto.NoteLinksDTO, error) {
	key := fmt.Sprintf("%d:%d:%d", note.UID, note.ID, note.Version)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		sums := s.indexer.summaries(note)
		pdfLinkSummaryLinks.Observe(float64(len(sums)))

		links := make([]*dto.PdfLinkSummaryDTO, 0, len(sums))
		for _, sum := range sums {
			item := &dto.PdfLinkSummaryDTO{}
			if err := copier.Copy(item, &sum); err != nil {
				return nil, errors.Wrap(err, "copy link summary")
			}
			item.DateText = s.indexer.formatter.Format(sum.CreatedAt)
			item.Palette = pdflink.ResolvePalette(sum.BookmarkColor)
			links = append(links, item)
		}
		return &dto.NoteLinksDTO{
			NoteID:  note.ID,
			Title:   note.Title,
			Version: note.Version,
			Links:   links,
		}, nil
	})
	if err != nil {
		return nil, code.ErrorPdfLinkSummaryFail.WithDetails(err.Error())
	}
	return v.(*dto.NoteLinksDTO), nil
}

// Recover 从纯文本中恢复链接，无法解码的片段计入 Skipped
func (s *pdfLinkService) Recover(ctx context.Context, params *dto.PdfLinkRecoverRequest) (out *dto.PdfLinkRecoverDTO, err error) {
	defer func() { observeOperation("recover", err) }()

	payloads, failures := pdflink.RecoverPayloads(params.Text)
	out = &dto.PdfLinkRecoverDTO{Links: make([]*dto.PdfLinkDTO, 0, len(payloads))}
	for _, ferr := range failures {
		pdfLinkDecodeFailures.WithLabelValues(decodeSourceRecover).Inc()
		s.logger.Debug("skipping unrecoverable sentinel", zap.Error(ferr))
	}
	out.Skipped = len(failures)

	for _, p := range payloads {
		a, err := pdflink.NewNodeAttrs(p)
		if err != nil {
			out.Skipped++
			continue
		}
		out.Links = append(out.Links, s.toDTO(a))
	}
	return out, nil
}

// Palette 获取调色板
func (s *pdfLinkService) Palette(color string) pdflink.Palette {
	return pdflink.ResolvePalette(color)
}

// saveNote 重新索引并按当前版本乐观写入
func (s *pdfLinkService) saveNote(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	if err := s.indexer.index(note); err != nil {
		return nil, err
	}
	return s.notes.save(ctx, note, note.Version)
}

func (s *pdfLinkService) toDTO(a pdflink.NodeAttrs) *dto.PdfLinkDTO {
	v := pdflink.BuildView(a, s.indexer.formatter)
	return &dto.PdfLinkDTO{
		LinkID:   a.EffectiveLinkID(),
		Payload:  a.Encoded,
		Checksum: a.PayloadChecksum,
		Label:    v.Label,
		Title:    v.Title,
		DateText: v.DateText,
		Palette:  v.Palette,
		Attrs:    a.JSONAttrs(),
		HTML:     pdflink.RenderHTML(a, s.indexer.formatter),
	}
}

// linkEditError 将链接改写错误转换为业务错误码
func linkEditError(err error, linkID string) error {
	switch {
	case errors.Is(err, pdflink.ErrLinkNotFound):
		return code.ErrorPdfLinkNotFound.WithContext(linkID)
	case errors.Is(err, pdflink.ErrInvalidPayload):
		return code.ErrorPdfLinkInvalid.WithDetails(err.Error()).WithContext(linkID)
	}
	return code.ErrorPdfLinkEditFailed.WithDetails(err.Error()).WithContext(linkID)
}

func appendBlock(content, block, sep string) string {
	if content == "" {
		return block
	}
	return content + sep + block
}
