package pdflink

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditMarkdownKeepsSurroundingText(t *testing.T) {
	a, chip := chipFor(t, "md-1", 3)

	md := "# Reading\n\n> quote & <b>more</b>\n\nSee " + chip + " and again " + chip + "\n\n- a < b\n"

	out, n, err := EditMarkdown(md, a.LinkID, Bookmark("Key result", "#00aa00"), nil, DefaultRecognizeOptions)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.True(t, strings.HasPrefix(out, "# Reading\n\n> quote & <b>more</b>\n\nSee "))
	assert.True(t, strings.HasSuffix(out, "\n\n- a < b\n"))

	sums := (&Extractor{}).ExtractMarkdown(out)
	require.Len(t, sums, 2)
	for _, s := range sums {
		assert.Equal(t, "Key result", s.BookmarkTitle)
		assert.Equal(t, 3, s.PageNumber)
	}
}

func TestEditMarkdownNestedAndMissing(t *testing.T) {
	a, chip := chipFor(t, "md-2", 8)

	_, _, err := EditMarkdown("plain *markdown*", a.LinkID, Bookmark("x", ""), nil, DefaultRecognizeOptions)
	assert.True(t, errors.Is(err, ErrLinkNotFound))

	wrapped := "<div>" + chip + "</div> tail"
	out, n, err := EditMarkdown(wrapped, a.LinkID, Bookmark("Inner", ""), nil, DefaultRecognizeOptions)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, strings.HasPrefix(out, "<div>"))
	assert.True(t, strings.HasSuffix(out, "</div> tail"))
}

func TestLinkRangesUnterminated(t *testing.T) {
	_, chip := chipFor(t, "md-3", 2)
	cut := chip[:len(chip)-len("</span>")]
	r := linkRanges("x "+cut, DefaultRecognizeOptions)
	require.Len(t, r, 1)
	assert.Equal(t, 2, r[0][0])
	assert.Equal(t, len("x "+cut), r[0][1])
}

func TestReplaceLinks(t *testing.T) {
	a, chip := chipFor(t, "md-4", 5)

	var seen []string
	out := ReplaceLinks("before "+chip+" after", DefaultRecognizeOptions, func(n NodeAttrs, raw string) string {
		seen = append(seen, n.LinkID)
		assert.Equal(t, chip, raw)
		return "[link]"
	})
	assert.Equal(t, "before [link] after", out)
	assert.Equal(t, []string{a.LinkID}, seen)

	assert.Equal(t, "no links", ReplaceLinks("no links", DefaultRecognizeOptions, func(NodeAttrs, string) string {
		t.Fatal("unexpected call")
		return ""
	}))
}

func TestMarkdownRangesIgnoreCode(t *testing.T) {
	a, chip := chipFor(t, "md-5", 6)

	tests := []struct {
		name string
		md   string
		want int
	}{
		{"comment opener in code span", "Type `<!--` to open an HTML comment.\n\n" + chip + "\n", 1},
		{"textarea in code span", "Use `<textarea>` here, then " + chip + "\n", 1},
		{"title in code span", "`<title>` first\n\n" + chip + "\n", 1},
		{"unclosed comment as text", "a <!-- b\n\n" + chip + "\n", 1},
		{"chip inside code span", "`" + chip + "`\n", 0},
		{"chip inside fenced block", "```html\n" + chip + "\n```\n\n" + chip + "\n", 1},
		{"chip inside html block", "<div>\n" + chip + "\n</div>\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := &Extractor{}
			sums := ex.ExtractMarkdown(tt.md)
			require.Len(t, sums, tt.want)
			for _, s := range sums {
				assert.Equal(t, a.LinkID, s.ID)
				assert.Equal(t, 6, s.PageNumber)
			}
			assert.Len(t, ex.NodesMarkdown(tt.md), tt.want)
		})
	}
}

func TestReplaceMarkdownLinksSkipsCode(t *testing.T) {
	_, chip := chipFor(t, "md-6", 2)
	md := "`" + chip + "` and " + chip
	out := ReplaceMarkdownLinks(md, DefaultRecognizeOptions, func(NodeAttrs, string) string { return "[link]" })
	assert.Equal(t, "`"+chip+"` and [link]", out)
}
