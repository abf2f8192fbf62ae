package pdflink

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DocNode is one node of an editor JSON document.
type DocNode struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []*DocNode     `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
	Marks   []DocMark      `json:"marks,omitempty"`
}

// DocMark is an inline mark on a text node.
type DocMark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// IsDocJSON reports whether content looks like an editor JSON document.
func IsDocJSON(content string) bool {
	return strings.HasPrefix(strings.TrimSpace(content), "{")
}

// ParseDoc decodes an editor JSON document.
func ParseDoc(content string) (*DocNode, error) {
	var doc DocNode
	if err := codecAPI.UnmarshalFromString(content, &doc); err != nil {
		return nil, errors.Wrap(err, "pdflink: parse editor document")
	}
	return &doc, nil
}

// MarshalDoc encodes an editor JSON document.
func MarshalDoc(doc *DocNode) (string, error) {
	s, err := codecAPI.MarshalToString(doc)
	if err != nil {
		return "", errors.Wrap(err, "pdflink: marshal editor document")
	}
	return s, nil
}

// NewLinkDocNode returns the JSON node form of a link.
func NewLinkDocNode(a NodeAttrs) *DocNode {
	return &DocNode{Type: NodeName, Attrs: a.JSONAttrs()}
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of the visited node.
func (n *DocNode) Walk(fn func(*DocNode) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Content {
		c.Walk(fn)
	}
}

var docBlockAtoms = map[string]atom.Atom{
	"paragraph":      atom.P,
	"blockquote":     atom.Blockquote,
	"bulletList":     atom.Ul,
	"orderedList":    atom.Ol,
	"listItem":       atom.Li,
	"horizontalRule": atom.Hr,
	"hardBreak":      atom.Br,
}

var docMarkAtoms = map[string]atom.Atom{
	"bold":      atom.Strong,
	"italic":    atom.Em,
	"code":      atom.Code,
	"strike":    atom.S,
	"underline": atom.U,
	"link":      atom.A,
}

// RenderDocHTML exports an editor JSON document to HTML. Link nodes are
// rendered through RenderNode so the export shows the same text as the
// editor. Unknown node types render their children only.
func RenderDocHTML(doc *DocNode, f *DateFormatter, opts RecognizeOptions) (string, error) {
	var b strings.Builder
	for _, n := range renderDoc(doc, f, opts) {
		if err := html.Render(&b, n); err != nil {
			return "", errors.Wrap(err, "pdflink: render editor document")
		}
	}
	return b.String(), nil
}

func renderDoc(n *DocNode, f *DateFormatter, opts RecognizeOptions) []*html.Node {
	if n == nil {
		return nil
	}

	switch n.Type {
	case "text":
		return []*html.Node{renderText(n)}
	case NodeName:
		a := AttrsFromJSON(n.Attrs)
		if !opts.AcceptsSalt(a.Salt) {
			return nil
		}
		return []*html.Node{RenderNode(a, f)}
	case "heading":
		level := jsonInt(n.Attrs, "level")
		if level < 1 || level > 6 {
			level = 1
		}
		h := element(atom.Lookup([]byte("h" + strconv.Itoa(level))))
		appendChildren(h, n, f, opts)
		return []*html.Node{h}
	case "codeBlock":
		pre := element(atom.Pre)
		code := element(atom.Code)
		appendChildren(code, n, f, opts)
		pre.AppendChild(code)
		return []*html.Node{pre}
	}

	if a, ok := docBlockAtoms[n.Type]; ok {
		el := element(a)
		appendChildren(el, n, f, opts)
		return []*html.Node{el}
	}

	var out []*html.Node
	for _, c := range n.Content {
		out = append(out, renderDoc(c, f, opts)...)
	}
	return out
}

func appendChildren(parent *html.Node, n *DocNode, f *DateFormatter, opts RecognizeOptions) {
	for _, c := range n.Content {
		for _, r := range renderDoc(c, f, opts) {
			parent.AppendChild(r)
		}
	}
}

func renderText(n *DocNode) *html.Node {
	node := &html.Node{Type: html.TextNode, Data: n.Text}
	for i := len(n.Marks) - 1; i >= 0; i-- {
		m := n.Marks[i]
		a, ok := docMarkAtoms[m.Type]
		if !ok {
			continue
		}
		el := element(a)
		if a == atom.A {
			if href := jsonString(m.Attrs, "href"); href != "" {
				el.Attr = append(el.Attr, html.Attribute{Key: "href", Val: href})
			}
		}
		el.AppendChild(node)
		node = el
	}
	return node
}
