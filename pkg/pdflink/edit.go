package pdflink

import (
	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

// ErrLinkNotFound is returned when an edit names a link id that does not
// occur in the content.
var ErrLinkNotFound = errors.New("pdflink: link not found")

// EditFunc computes the new attributes of a matched link node.
type EditFunc func(NodeAttrs) (NodeAttrs, error)

// Bookmark returns an EditFunc that re-encodes nodes with a new bookmark
// title and color.
func Bookmark(title, color string) EditFunc {
	return func(a NodeAttrs) (NodeAttrs, error) {
		return a.WithBookmark(title, color)
	}
}

// EditHTML rewrites every link node of an HTML fragment whose link id is
// linkID, in place, and returns the new content with the number of nodes
// changed. Every occurrence is rewritten since duplicated chips share an id.
func EditHTML(content, linkID string, fn EditFunc, f *DateFormatter, opts RecognizeOptions) (string, int, error) {
	nodes, err := ParseFragment(content)
	if err != nil {
		return "", 0, errors.Wrap(err, "pdflink: parse html")
	}

	changed := 0
	var walk func(n *html.Node) error
	walk = func(n *html.Node) error {
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			if a, ok := ParseElement(c, opts); ok {
				if a.EffectiveLinkID() == linkID {
					na, err := fn(a)
					if err != nil {
						return err
					}
					n.InsertBefore(RenderNode(na, f), c)
					n.RemoveChild(c)
					changed++
				}
			} else if err := walk(c); err != nil {
				return err
			}
			c = next
		}
		return nil
	}

	for i, n := range nodes {
		if a, ok := ParseElement(n, opts); ok {
			if a.EffectiveLinkID() != linkID {
				continue
			}
			na, err := fn(a)
			if err != nil {
				return "", 0, err
			}
			nodes[i] = RenderNode(na, f)
			changed++
			continue
		}
		if err := walk(n); err != nil {
			return "", 0, err
		}
	}
	if changed == 0 {
		return content, 0, errors.Wrapf(ErrLinkNotFound, "link %q", linkID)
	}

	out, err := RenderFragment(nodes)
	if err != nil {
		return "", 0, errors.Wrap(err, "pdflink: render html")
	}
	return out, changed, nil
}

// EditDoc rewrites every link node of an editor document whose link id is
// linkID and returns the number of nodes changed.
func EditDoc(doc *DocNode, linkID string, fn EditFunc, opts RecognizeOptions) (int, error) {
	changed := 0
	var err error
	doc.Walk(func(n *DocNode) bool {
		if err != nil {
			return false
		}
		if n.Type != NodeName {
			return true
		}
		a := AttrsFromJSON(n.Attrs)
		if !opts.AcceptsSalt(a.Salt) || a.EffectiveLinkID() != linkID {
			return false
		}
		var na NodeAttrs
		if na, err = fn(a); err != nil {
			return false
		}
		n.Attrs = na.JSONAttrs()
		changed++
		return false
	})
	if err != nil {
		return 0, err
	}
	if changed == 0 {
		return 0, errors.Wrapf(ErrLinkNotFound, "link %q", linkID)
	}
	return changed, nil
}

// AppendDoc adds a paragraph holding the link node at the end of doc.
func AppendDoc(doc *DocNode, a NodeAttrs) {
	doc.Content = append(doc.Content, &DocNode{
		Type:    "paragraph",
		Content: []*DocNode{NewLinkDocNode(a)},
	})
}

// RecoverPayloads scans plain text for sentinel regions and returns the
// payloads that decode, in order. Regions that fail to decode are reported
// through the returned error slice and otherwise skipped.
func RecoverPayloads(text string) ([]Payload, []error) {
	var (
		out  []Payload
		errs []error
	)
	for _, encoded := range ExtractSentinelPayloads(text) {
		p, err := Decode(encoded)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, p)
	}
	return out, errs
}
