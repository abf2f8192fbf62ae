package pdflink

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func chipFor(t *testing.T, id string, page int) (NodeAttrs, string) {
	t.Helper()
	a, err := NewNodeAttrs(Payload{
		LinkID:     id,
		PageNumber: page,
		FileURL:    "https://files.example.com/a.pdf",
		CreatedAt:  "2026-03-14T09:26:53Z",
	})
	require.NoError(t, err)
	return a, RenderHTML(a, nil)
}

func pages(s []Summary) []int {
	out := make([]int, 0, len(s))
	for _, v := range s {
		out = append(out, v.PageNumber)
	}
	return out
}

func TestExtractLinkSummariesDocumentOrder(t *testing.T) {
	_, c5 := chipFor(t, "l5", 5)
	_, c2 := chipFor(t, "l2", 2)
	_, c9 := chipFor(t, "l9", 9)

	content := "<h1>Notes</h1><p>intro " + c5 + " middle</p><ul><li>" + c2 + "</li></ul><blockquote><p>" + c9 + "</p></blockquote>"

	got := ExtractLinkSummaries(content)
	assert.Equal(t, []int{5, 2, 9}, pages(got))
	assert.Equal(t, "l5", got[0].ID)
	assert.Equal(t, "Open on Page 5", got[0].Label)
	assert.Equal(t, "2026-03-14T09:26:53Z", got[0].CreatedAt)
}

func TestExtractLinkSummariesCorruptedNode(t *testing.T) {
	good, goodHTML := chipFor(t, "good", 3)
	bad, _ := chipFor(t, "bad", 4)
	bad.Encoded = bad.Encoded[:len(bad.Encoded)/2]
	badHTML := RenderHTML(bad, nil)

	core, logs := observer.New(zapcore.WarnLevel)
	var failed []string
	e := Extractor{
		Options: DefaultRecognizeOptions,
		Logger:  zap.New(core),
		OnDecodeFailure: func(a NodeAttrs, err error) {
			failed = append(failed, a.LinkID)
		},
	}

	var got []Summary
	assert.NotPanics(t, func() {
		got = e.Extract("<p>" + badHTML + " and " + goodHTML + "</p>")
	})
	require.Len(t, got, 1)
	assert.Equal(t, good.LinkID, got[0].ID)
	assert.Equal(t, []string{"bad"}, failed)
	assert.Equal(t, 1, logs.Len())
}

func TestExtractLinkSummariesKeepsDuplicates(t *testing.T) {
	_, c := chipFor(t, "dup", 1)
	got := ExtractLinkSummaries("<p>" + c + "</p><p>" + c + "</p>")
	require.Len(t, got, 2)
	assert.Equal(t, got[0], got[1])
}

func TestExtractDoesNotDescendIntoChip(t *testing.T) {
	outer, _ := chipFor(t, "outer", 1)
	_, inner := chipFor(t, "inner", 2)

	content := `<span data-pdf-note-link="true" data-pdf-note-salt="` + CurrentSalt +
		`" data-payload="` + outer.Encoded + `">` + inner + `</span>`

	got := ExtractLinkSummaries(content)
	require.Len(t, got, 1)
	assert.Equal(t, "outer", got[0].ID)
}

func TestExtractIgnoresLookalikes(t *testing.T) {
	content := `<span data-pdf-note-link="true">x</span><div data-pdf-note-link="true" data-pdf-note-salt="` +
		CurrentSalt + `">y</div><p>⟦pnl:abc.12345678⟧</p>`
	assert.Empty(t, ExtractLinkSummaries(content))
	assert.Empty(t, ExtractLinkSummaries(""))
}

func TestExtractLegacySalt(t *testing.T) {
	_, c := chipFor(t, "old", 8)
	legacy := strings.Replace(c, CurrentSalt, SaltV1, 1)

	assert.Len(t, ExtractLinkSummaries(legacy), 1)

	strict := Extractor{Logger: zap.NewNop()}
	assert.Empty(t, strict.Extract(legacy))
}

func sampleDoc(t *testing.T) (*DocNode, string) {
	t.Helper()
	a5, _ := chipFor(t, "l5", 5)
	a2, _ := chipFor(t, "l2", 2)
	a9, _ := chipFor(t, "l9", 9)

	doc := &DocNode{Type: "doc", Content: []*DocNode{
		{Type: "heading", Attrs: map[string]any{"level": 2}, Content: []*DocNode{{Type: "text", Text: "Reading"}}},
		{Type: "paragraph", Content: []*DocNode{
			{Type: "text", Text: "see ", Marks: []DocMark{{Type: "bold"}}},
			NewLinkDocNode(a5),
		}},
		{Type: "bulletList", Content: []*DocNode{
			{Type: "listItem", Content: []*DocNode{
				{Type: "paragraph", Content: []*DocNode{NewLinkDocNode(a2)}},
			}},
		}},
		{Type: "callout", Content: []*DocNode{NewLinkDocNode(a9)}},
	}}
	s, err := MarshalDoc(doc)
	require.NoError(t, err)
	return doc, s
}

func TestExtractLinkSummariesJSON(t *testing.T) {
	_, content := sampleDoc(t)
	assert.Equal(t, []int{5, 2, 9}, pages(ExtractLinkSummaries(content)))
	assert.Equal(t, []int{5, 2, 9}, pages(ExtractLinkSummaries("  \n"+content)))
}

func TestExtractLinkSummariesJSONCorrupted(t *testing.T) {
	doc, _ := sampleDoc(t)
	doc.Content[1].Content[1].Attrs["payload"] = "truncated"
	content, err := MarshalDoc(doc)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 9}, pages(ExtractLinkSummaries(content)))
}

func TestExtractLinkSummariesInvalidJSON(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	e := Extractor{Logger: zap.New(core)}

	assert.Empty(t, e.Extract(`{"type": "doc", "content": [`))
	assert.Equal(t, 1, logs.Len())
}

func TestExtractorNodes(t *testing.T) {
	bad, _ := chipFor(t, "bad", 4)
	bad.Encoded = "x"
	_, good := chipFor(t, "good", 1)

	e := Extractor{Options: DefaultRecognizeOptions}
	nodes := e.Nodes(RenderHTML(bad, nil) + good)
	require.Len(t, nodes, 2)
	assert.Equal(t, "bad", nodes[0].LinkID)
	assert.Equal(t, "good", nodes[1].LinkID)

	_, doc := sampleDoc(t)
	assert.Len(t, e.Nodes(doc), 3)
}
