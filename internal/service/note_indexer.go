package service

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/haierkeys/fast-note-pdf-link-service/internal/domain"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/code"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/pdflink"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/util"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
)

// noteIndexer derives the stored projections of a note (hash, plain text,
// link count) and renders notes to HTML
// noteIndexer 计算笔记的派生字段并负责导出 HTML
type noteIndexer struct {
	extractor *pdflink.Extractor
	formatter *pdflink.DateFormatter
	opts      pdflink.RecognizeOptions
	md        goldmark.Markdown
}

func newNoteIndexer(config *ServiceConfig, logger *zap.Logger) *noteIndexer {
	opts := config.PdfLink.Recognize
	return &noteIndexer{
		extractor: &pdflink.Extractor{
			Options: opts,
			Logger:  logger,
			OnDecodeFailure: func(pdflink.NodeAttrs, error) {
				pdfLinkDecodeFailures.WithLabelValues(decodeSourceExtract).Inc()
			},
		},
		formatter: config.formatter(),
		opts:      opts,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			// chips are inline raw HTML
			// PDF 链接以内嵌 HTML 保存，需要保留
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
}

// index fills ContentHash, DocText and LinkCount of n
// index 计算内容哈希、纯文本和链接数
func (x *noteIndexer) index(n *domain.Note) error {
	rendered, err := x.render(n)
	if err != nil {
		return err
	}
	n.ContentHash = util.ContentHash(n.Content)
	n.DocText = pdflink.PlainText(rendered)
	n.LinkCount = len(x.nodes(n))
	return nil
}

// nodes returns the link nodes of n in document order
// nodes 按文档顺序返回笔记中的链接节点
func (x *noteIndexer) nodes(n *domain.Note) []pdflink.NodeAttrs {
	switch n.Format {
	case domain.NoteFormatJSON:
		doc, err := pdflink.ParseDoc(n.Content)
		if err != nil {
			return nil
		}
		return x.extractor.NodesDoc(doc)
	case domain.NoteFormatMarkdown:
		return x.extractor.NodesMarkdown(n.Content)
	}
	return x.extractor.NodesHTML(n.Content)
}

// summaries returns the decodable link summaries of n in document order
// summaries 返回笔记中可解码链接的汇总
func (x *noteIndexer) summaries(n *domain.Note) []pdflink.Summary {
	switch n.Format {
	case domain.NoteFormatJSON:
		doc, err := pdflink.ParseDoc(n.Content)
		if err != nil {
			return nil
		}
		return x.extractor.ExtractDoc(doc)
	case domain.NoteFormatMarkdown:
		return x.extractor.ExtractMarkdown(n.Content)
	}
	return x.extractor.ExtractHTML(n.Content)
}

// render returns the HTML form of n
// render 将笔记导出为 HTML
func (x *noteIndexer) render(n *domain.Note) (string, error) {
	switch n.Format {
	case domain.NoteFormatJSON:
		doc, err := pdflink.ParseDoc(n.Content)
		if err != nil {
			return "", code.ErrorNoteFormatInvalid.WithDetails(err.Error())
		}
		out, err := pdflink.RenderDocHTML(doc, x.formatter, x.opts)
		if err != nil {
			return "", code.ErrorNoteExportFailed.WithDetails(err.Error())
		}
		return out, nil
	case domain.NoteFormatMarkdown:
		return x.renderMarkdown(n.Content)
	default:
		return n.Content, nil
	}
}

// renderMarkdown converts markdown to HTML. Chips are swapped for placeholder
// tokens first so that markdown inline rules never touch their payload text.
// renderMarkdown 先用占位符替换链接，避免 Markdown 语法改写载荷
func (x *noteIndexer) renderMarkdown(content string) (string, error) {
	if _, body, ok := util.ParseFrontmatter(content); ok {
		content = body
	}

	nonce := strings.ReplaceAll(uuid.NewString(), "-", "")
	var chips []string
	content = pdflink.ReplaceMarkdownLinks(content, x.opts, func(a pdflink.NodeAttrs, _ string) string {
		chips = append(chips, pdflink.RenderHTML(a, x.formatter))
		return placeholder(nonce, len(chips)-1)
	})

	var b strings.Builder
	if err := x.md.Convert([]byte(content), &b); err != nil {
		return "", code.ErrorNoteExportFailed.WithDetails(err.Error())
	}
	out := b.String()
	for i, chip := range chips {
		out = strings.Replace(out, placeholder(nonce, i), chip, 1)
	}
	return out, nil
}

func placeholder(nonce string, i int) string {
	return "pnlchip" + nonce + "n" + strconv.Itoa(i)
}
