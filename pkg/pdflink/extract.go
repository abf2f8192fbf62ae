package pdflink

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Extractor finds link nodes in stored note content and summarizes them.
// The zero value only accepts the current salt and logs through zap.L().
type Extractor struct {
	Options RecognizeOptions
	// Logger receives one warning per node whose payload fails to decode.
	Logger *zap.Logger
	// OnDecodeFailure, when set, is called for every skipped node.
	OnDecodeFailure func(a NodeAttrs, err error)
}

// ExtractLinkSummaries returns the summaries of every decodable link node in
// content, in document order. Content starting with '{' is read as an editor
// JSON document, anything else as HTML.
func ExtractLinkSummaries(content string) []Summary {
	e := Extractor{Options: DefaultRecognizeOptions}
	return e.Extract(content)
}

// Extract is ExtractLinkSummaries with the extractor's options.
func (e *Extractor) Extract(content string) []Summary {
	if IsDocJSON(content) {
		doc, err := ParseDoc(content)
		if err != nil {
			e.logger().Warn("pdflink: note content is not a valid editor document", zap.Error(err))
			return nil
		}
		return e.ExtractDoc(doc)
	}
	return e.ExtractHTML(content)
}

// ExtractHTML walks an HTML fragment in pre-order. Recognized nodes are not
// descended into.
func (e *Extractor) ExtractHTML(content string) []Summary {
	nodes, err := ParseFragment(content)
	if err != nil {
		e.logger().Warn("pdflink: note content is not parseable html", zap.Error(err))
		return nil
	}
	var out []Summary
	for _, n := range nodes {
		out = e.walkHTML(n, out)
	}
	return out
}

func (e *Extractor) walkHTML(n *html.Node, out []Summary) []Summary {
	if a, ok := ParseElement(n, e.Options); ok {
		return e.summarize(a, out)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = e.walkHTML(c, out)
	}
	return out
}

// ExtractDoc walks an editor JSON document in pre-order.
func (e *Extractor) ExtractDoc(doc *DocNode) []Summary {
	var out []Summary
	var walk func(n *DocNode)
	walk = func(n *DocNode) {
		if n == nil {
			return
		}
		if a, ok := e.docAttrs(n); ok {
			out = e.summarize(a, out)
			return
		}
		for _, c := range n.Content {
			walk(c)
		}
	}
	walk(doc)
	return out
}

// Nodes returns the attributes of every recognized node in content, decodable
// or not, in document order.
func (e *Extractor) Nodes(content string) []NodeAttrs {
	if IsDocJSON(content) {
		doc, err := ParseDoc(content)
		if err != nil {
			return nil
		}
		return e.NodesDoc(doc)
	}
	return e.NodesHTML(content)
}

// NodesDoc is Nodes for a parsed editor document.
func (e *Extractor) NodesDoc(doc *DocNode) []NodeAttrs {
	var out []NodeAttrs
	doc.Walk(func(n *DocNode) bool {
		if a, ok := e.docAttrs(n); ok {
			out = append(out, a)
			return false
		}
		return true
	})
	return out
}

// NodesHTML is Nodes for an HTML fragment.
func (e *Extractor) NodesHTML(content string) []NodeAttrs {
	nodes, err := ParseFragment(content)
	if err != nil {
		return nil
	}
	var out []NodeAttrs
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if a, ok := ParseElement(n, e.Options); ok {
			out = append(out, a)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return out
}

func (e *Extractor) docAttrs(n *DocNode) (NodeAttrs, bool) {
	if n.Type != NodeName {
		return NodeAttrs{}, false
	}
	a := AttrsFromJSON(n.Attrs)
	if !e.Options.AcceptsSalt(a.Salt) {
		return NodeAttrs{}, false
	}
	return a, true
}

func (e *Extractor) summarize(a NodeAttrs, out []Summary) []Summary {
	p, err := a.Payload()
	if err != nil {
		e.logger().Warn("pdflink: skipping link with undecodable payload",
			zap.String("linkId", a.LinkID),
			zap.Int("pageNumber", a.PageNumber),
			zap.Error(err))
		if e.OnDecodeFailure != nil {
			e.OnDecodeFailure(a, err)
		}
		return out
	}
	return append(out, SummaryOf(p))
}

func (e *Extractor) logger() *zap.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return zap.L()
}

// ParseFragment parses content as the children of a <body> element.
func ParseFragment(content string) ([]*html.Node, error) {
	return html.ParseFragment(strings.NewReader(content), &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	})
}

// RenderFragment serializes nodes returned by ParseFragment.
func RenderFragment(nodes []*html.Node) (string, error) {
	var b strings.Builder
	for _, n := range nodes {
		if err := html.Render(&b, n); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// PlainText flattens HTML content to its text, hidden elements included, the
// way a clipboard plain-text copy does.
func PlainText(content string) string {
	nodes, err := ParseFragment(content)
	if err != nil {
		return ""
	}
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return b.String()
}
