package pdflink

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

// ReplaceLinks calls fn for every top-level link element in content and
// substitutes the element's bytes with the returned string. Elements that do
// not parse as links are left alone.
func ReplaceLinks(content string, opts RecognizeOptions, fn func(a NodeAttrs, raw string) string) string {
	return replaceRanges(content, linkRanges(content, opts), opts, fn)
}

func replaceRanges(content string, ranges [][2]int, opts RecognizeOptions, fn func(a NodeAttrs, raw string) string) string {
	if len(ranges) == 0 {
		return content
	}
	var (
		b    strings.Builder
		last int
	)
	for _, r := range ranges {
		raw := content[r[0]:r[1]]
		a, ok := parseRange(raw, opts)
		if !ok {
			continue
		}
		b.WriteString(content[last:r[0]])
		b.WriteString(fn(a, raw))
		last = r[1]
	}
	b.WriteString(content[last:])
	return b.String()
}

// editRanges re-renders the elements in ranges whose link id is linkID. Only
// their bytes are replaced; everything else is copied through untouched.
func editRanges(content string, ranges [][2]int, linkID string, fn EditFunc, f *DateFormatter, opts RecognizeOptions) (string, int, error) {
	var (
		b       strings.Builder
		last    int
		changed int
	)
	for _, r := range ranges {
		a, ok := parseRange(content[r[0]:r[1]], opts)
		if !ok || a.EffectiveLinkID() != linkID {
			continue
		}
		na, err := fn(a)
		if err != nil {
			return "", 0, err
		}
		b.WriteString(content[last:r[0]])
		b.WriteString(RenderHTML(na, f))
		last = r[1]
		changed++
	}
	if changed == 0 {
		return content, 0, errors.Wrapf(ErrLinkNotFound, "link %q", linkID)
	}
	b.WriteString(content[last:])
	return b.String(), changed, nil
}

// linkRanges returns the byte ranges of top-level link elements in content.
// An unterminated element extends to the end of content.
func linkRanges(content string, opts RecognizeOptions) [][2]int {
	var out [][2]int
	z := html.NewTokenizer(strings.NewReader(content))
	pos := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return out
		}
		start := pos
		pos += len(z.Raw())
		if tt != html.StartTagToken {
			continue
		}
		tok := z.Token()
		if !isLinkToken(tok, opts) {
			continue
		}
		pos += skipElement(z, tok.Data)
		out = append(out, [2]int{start, pos})
	}
}

// linkElementAt returns the end of the link element whose start tag begins at
// content[start], or false when no link element starts there.
func linkElementAt(content string, start int, opts RecognizeOptions) (int, bool) {
	z := html.NewTokenizer(strings.NewReader(content[start:]))
	if z.Next() != html.StartTagToken {
		return 0, false
	}
	n := len(z.Raw())
	tok := z.Token()
	if !isLinkToken(tok, opts) {
		return 0, false
	}
	return start + n + skipElement(z, tok.Data), true
}

func isLinkToken(tok html.Token, opts RecognizeOptions) bool {
	return IsLinkElement(&html.Node{Type: html.ElementNode, Data: tok.Data, DataAtom: tok.DataAtom, Attr: tok.Attr}, opts)
}

// skipElement consumes tokens up to the end tag matching an already read
// start tag and returns the number of bytes consumed.
func skipElement(z *html.Tokenizer, name string) int {
	n := 0
	depth := 1
	for depth > 0 {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		n += len(z.Raw())
		tag, _ := z.TagName()
		if string(tag) != name {
			continue
		}
		switch tt {
		case html.StartTagToken:
			depth++
		case html.EndTagToken:
			depth--
		}
	}
	return n
}

func parseRange(s string, opts RecognizeOptions) (NodeAttrs, bool) {
	nodes, err := ParseFragment(s)
	if err != nil || len(nodes) == 0 {
		return NodeAttrs{}, false
	}
	return ParseElement(nodes[0], opts)
}
