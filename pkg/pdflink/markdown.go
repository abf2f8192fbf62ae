package pdflink

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// markdownParser only builds the syntax tree; nothing is rendered with it.
var markdownParser = goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()

// markdownLinkRanges returns the byte ranges of link elements in a markdown
// document. Only raw HTML that markdown passes through to the output is
// scanned, so markup inside code spans and code blocks neither hides later
// links nor counts as one.
func markdownLinkRanges(content string, opts RecognizeOptions) [][2]int {
	src := []byte(content)
	doc := markdownParser.Parse(text.NewReader(src))

	var out [][2]int
	end := 0
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.RawHTML:
			if v.Segments.Len() == 0 {
				break
			}
			start := v.Segments.At(0).Start
			if start < end {
				break
			}
			if stop, ok := linkElementAt(content, start, opts); ok {
				out = append(out, [2]int{start, stop})
				end = stop
			}
		case *ast.HTMLBlock:
			lines := v.Lines()
			if lines.Len() == 0 {
				break
			}
			start, stop := lines.At(0).Start, lines.At(lines.Len()-1).Stop
			if v.HasClosure() {
				stop = v.ClosureLine.Stop
			}
			if start < end {
				start = end
			}
			if start >= stop {
				break
			}
			for _, r := range linkRanges(content[start:stop], opts) {
				out = append(out, [2]int{start + r[0], start + r[1]})
				end = start + r[1]
			}
		}
		return ast.WalkContinue, nil
	})
	return out
}

// EditMarkdown rewrites every link element of a markdown document whose link
// id is linkID. Only the bytes of matched elements change.
func EditMarkdown(content, linkID string, fn EditFunc, f *DateFormatter, opts RecognizeOptions) (string, int, error) {
	return editRanges(content, markdownLinkRanges(content, opts), linkID, fn, f, opts)
}

// ReplaceMarkdownLinks is ReplaceLinks for markdown documents.
func ReplaceMarkdownLinks(content string, opts RecognizeOptions, fn func(a NodeAttrs, raw string) string) string {
	return replaceRanges(content, markdownLinkRanges(content, opts), opts, fn)
}

// ExtractMarkdown summarizes the link elements of a markdown document in
// document order.
func (e *Extractor) ExtractMarkdown(content string) []Summary {
	var out []Summary
	for _, a := range e.NodesMarkdown(content) {
		out = e.summarize(a, out)
	}
	return out
}

// NodesMarkdown is Nodes for a markdown document.
func (e *Extractor) NodesMarkdown(content string) []NodeAttrs {
	var out []NodeAttrs
	for _, r := range markdownLinkRanges(content, e.Options) {
		if a, ok := parseRange(content[r[0]:r[1]], e.Options); ok {
			out = append(out, a)
		}
	}
	return out
}
