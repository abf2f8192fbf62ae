package service

import (
	"context"
	"strings"
	"testing"

	"github.com/haierkeys/fast-note-pdf-link-service/internal/dto"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/code"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/pdflink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPdfLinkCreateDetached(t *testing.T) {
	svc := newTestPdfLinkService(t, newTestRepo(t))
	svc.newID = func() string { return "link-fixed" }

	out, err := svc.Create(context.Background(), testUID, &dto.PdfLinkCreateRequest{
		PageNumber:    12,
		OutlineTitle:  "Methods",
		FileURL:       "https://files.example.com/paper.pdf",
		BookmarkTitle: "  Key figure  ",
		BookmarkColor: "#E91E63",
	})
	require.NoError(t, err)
	assert.Equal(t, "link-fixed", out.LinkID)
	assert.Equal(t, "Key figure", out.Label)
	assert.Equal(t, "Key figure (page 12)", out.Title)
	assert.Equal(t, "#e91e63", out.Palette.Accent)
	assert.Equal(t, pdflink.Checksum(out.Payload), out.Checksum)
	assert.Zero(t, out.NoteVersion)

	p, err := pdflink.Decode(out.Payload)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14T09:26:53Z", p.CreatedAt)
	assert.Equal(t, 12, p.PageNumber)
	assert.Contains(t, out.HTML, `data-pdf-note-link="true"`)
}

func TestPdfLinkCreateAppendsToNote(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	notes := newTestNoteService(t, repo)
	svc := newTestPdfLinkService(t, repo)

	for _, format := range []string{"html", "markdown", "json"} {
		t.Run(format, func(t *testing.T) {
			content := "<p>Intro</p>"
			switch format {
			case "markdown":
				content = "# Intro"
			case "json":
				content = `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"Intro"}]}]}`
			}
			_, note, err := notes.ModifyOrCreate(ctx, testUID, &dto.NoteModifyOrCreateRequest{Format: format, Content: content})
			require.NoError(t, err)

			out, err := svc.Create(ctx, testUID, &dto.PdfLinkCreateRequest{
				NoteID:      note.ID,
				NoteVersion: note.Version,
				PageNumber:  3,
				FileURL:     "https://files.example.com/paper.pdf",
			})
			require.NoError(t, err)
			assert.Equal(t, note.Version+1, out.NoteVersion)

			links, err := svc.Summaries(ctx, testUID, note.ID)
			require.NoError(t, err)
			require.Len(t, links.Links, 1)
			assert.Equal(t, out.LinkID, links.Links[0].ID)
			assert.Equal(t, "Open on Page 3", links.Links[0].Label)
			assert.NotEqual(t, pdflink.RecentlyLinked, links.Links[0].DateText)
			assert.Equal(t, pdflink.DefaultPalette, links.Links[0].Palette)

			_, err = svc.Create(ctx, testUID, &dto.PdfLinkCreateRequest{
				NoteID:      note.ID,
				NoteVersion: note.Version,
				PageNumber:  4,
				FileURL:     "https://files.example.com/paper.pdf",
			})
			assert.Equal(t, code.ErrorNoteVersionConflict.Code(), codeOf(t, err))
		})
	}
}

func TestPdfLinkEditBookmarkInNote(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	notes := newTestNoteService(t, repo)
	svc := newTestPdfLinkService(t, repo)

	a, c := chip(t, "dup", 5)
	_, other := chip(t, "other", 6)

	cases := map[string]string{
		"html":     "<p>" + c + " then " + other + "</p><blockquote>" + c + "</blockquote>",
		"markdown": "Intro " + c + "\n\n> " + c + "\n\n" + other + "\n",
	}
	for format, content := range cases {
		t.Run(format, func(t *testing.T) {
			_, note, err := notes.ModifyOrCreate(ctx, testUID, &dto.NoteModifyOrCreateRequest{Format: format, Content: content})
			require.NoError(t, err)
			require.Equal(t, 3, note.LinkCount)

			out, err := svc.EditBookmark(ctx, testUID, &dto.PdfLinkBookmarkRequest{
				NoteID: note.ID,
				LinkID: a.LinkID,
				Title:  " Renamed ",
				Color:  "#00AA00",
			})
			require.NoError(t, err)
			assert.Equal(t, 2, out.Updated)
			assert.Equal(t, "Renamed", out.Label)
			assert.Equal(t, int64(2), out.NoteVersion)

			links, err := svc.Summaries(ctx, testUID, note.ID)
			require.NoError(t, err)
			require.Len(t, links.Links, 3)
			for _, l := range links.Links {
				if l.ID == a.LinkID {
					assert.Equal(t, "Renamed", l.BookmarkTitle)
					assert.Equal(t, 5, l.PageNumber)
					assert.Equal(t, "2026-03-14T09:26:53Z", l.CreatedAt)
				} else {
					assert.Empty(t, l.BookmarkTitle)
				}
			}

			_, err = svc.EditBookmark(ctx, testUID, &dto.PdfLinkBookmarkRequest{NoteID: note.ID, LinkID: "missing", Title: "x"})
			assert.Equal(t, code.ErrorPdfLinkNotFound.Code(), codeOf(t, err))
		})
	}

	t.Run("markdown text outside chips is preserved", func(t *testing.T) {
		md := "# Title\n\n* item < 3 & more\n\n" + c + "\n"
		_, note, err := notes.ModifyOrCreate(ctx, testUID, &dto.NoteModifyOrCreateRequest{Format: "markdown", Content: md})
		require.NoError(t, err)
		_, err = svc.EditBookmark(ctx, testUID, &dto.PdfLinkBookmarkRequest{NoteID: note.ID, LinkID: a.LinkID, Title: "T"})
		require.NoError(t, err)

		got, err := notes.Get(ctx, testUID, &dto.NoteGetRequest{ID: note.ID})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got.Content, "# Title\n\n* item < 3 & more\n\n"))
	})
}

func TestPdfLinkMarkdownCodeDoesNotHideChips(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	notes := newTestNoteService(t, repo)
	svc := newTestPdfLinkService(t, repo)

	a, c := chip(t, "after-code", 4)
	md := "Type `<!--` to open an HTML comment, or `<textarea>`.\n\n" +
		"```html\n" + c + "\n```\n\n" +
		"See " + c + "\n"

	_, note, err := notes.ModifyOrCreate(ctx, testUID, &dto.NoteModifyOrCreateRequest{Format: "markdown", Content: md})
	require.NoError(t, err)
	assert.Equal(t, 1, note.LinkCount)

	links, err := svc.Summaries(ctx, testUID, note.ID)
	require.NoError(t, err)
	require.Len(t, links.Links, 1)
	assert.Equal(t, a.LinkID, links.Links[0].ID)

	out, _, err := notes.GenerateHTML(ctx, testUID, &dto.NoteGetRequest{ID: note.ID})
	require.NoError(t, err)
	require.Len(t, pdflink.ExtractLinkSummaries(out), 1)

	edited, err := svc.EditBookmark(ctx, testUID, &dto.PdfLinkBookmarkRequest{NoteID: note.ID, LinkID: a.LinkID, Title: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, 1, edited.Updated)

	got, err := notes.Get(ctx, testUID, &dto.NoteGetRequest{ID: note.ID})
	require.NoError(t, err)
	assert.Contains(t, got.Content, "```html\n"+c+"\n```")
}

func TestPdfLinkEditBookmarkJSON(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	notes := newTestNoteService(t, repo)
	svc := newTestPdfLinkService(t, repo)

	a, _ := chip(t, "doc-link", 2)
	doc := &pdflink.DocNode{Type: "doc"}
	pdflink.AppendDoc(doc, a)
	content, err := pdflink.MarshalDoc(doc)
	require.NoError(t, err)

	_, note, err := notes.ModifyOrCreate(ctx, testUID, &dto.NoteModifyOrCreateRequest{Format: "json", Content: content})
	require.NoError(t, err)

	out, err := svc.EditBookmark(ctx, testUID, &dto.PdfLinkBookmarkRequest{
		NoteID:  note.ID,
		Payload: a.Encoded,
		Title:   "From payload",
	})
	require.NoError(t, err)
	assert.Equal(t, a.LinkID, out.LinkID)
	assert.Equal(t, 1, out.Updated)

	got, err := notes.Get(ctx, testUID, &dto.NoteGetRequest{ID: note.ID})
	require.NoError(t, err)
	sums := pdflink.ExtractLinkSummaries(got.Content)
	require.Len(t, sums, 1)
	assert.Equal(t, "From payload", sums[0].BookmarkTitle)
}

func TestPdfLinkEditBookmarkDetached(t *testing.T) {
	svc := newTestPdfLinkService(t, newTestRepo(t))
	a, _ := chip(t, "detached", 8)

	out, err := svc.EditBookmark(context.Background(), testUID, &dto.PdfLinkBookmarkRequest{
		Payload: a.Encoded,
		Title:   "Note to self",
		Color:   "#123",
	})
	require.NoError(t, err)
	p, err := pdflink.Decode(out.Payload)
	require.NoError(t, err)
	assert.Equal(t, "detached", p.LinkID)
	assert.Equal(t, 8, p.PageNumber)
	assert.Equal(t, "Note to self", p.BookmarkTitle)
	assert.Equal(t, "#123", p.BookmarkColor)

	_, err = svc.EditBookmark(context.Background(), testUID, &dto.PdfLinkBookmarkRequest{Title: "x"})
	assert.Equal(t, code.ErrorInvalidParams.Code(), codeOf(t, err))

	corrupt := a.Encoded[:len(a.Encoded)-1] + "0"
	if corrupt == a.Encoded {
		corrupt = a.Encoded[:len(a.Encoded)-1] + "1"
	}
	_, err = svc.EditBookmark(context.Background(), testUID, &dto.PdfLinkBookmarkRequest{Payload: corrupt})
	assert.Equal(t, code.ErrorPdfLinkDecode.Code(), codeOf(t, err))
}

func TestPdfLinkResolve(t *testing.T) {
	svc := newTestPdfLinkService(t, newTestRepo(t))
	a, _ := chip(t, "resolve", 21)

	out, err := svc.Resolve(context.Background(), &dto.PdfLinkResolveRequest{Payload: a.Encoded})
	require.NoError(t, err)
	assert.Equal(t, 21, out.PageNumber)
	assert.Equal(t, "See Chapter resolve", out.Label)

	_, err = svc.Resolve(context.Background(), &dto.PdfLinkResolveRequest{Payload: "abc.00000000"})
	assert.Equal(t, code.ErrorPdfLinkDecode.Code(), codeOf(t, err))
}

func TestPdfLinkRecover(t *testing.T) {
	svc := newTestPdfLinkService(t, newTestRepo(t))
	a, _ := chip(t, "pasted", 1)
	b, _ := chip(t, "pasted-2", 2)

	text := "copied: " + pdflink.BuildSentinelText(a.Encoded) +
		" junk ⟦pnl:abc.00000000⟧ " +
		pdflink.BuildSentinelText(b.Encoded)
	out, err := svc.Recover(context.Background(), &dto.PdfLinkRecoverRequest{Text: text})
	require.NoError(t, err)
	require.Len(t, out.Links, 2)
	assert.Equal(t, 1, out.Skipped)
	assert.Equal(t, a.Encoded, out.Links[0].Payload)
	assert.Equal(t, b.Encoded, out.Links[1].Payload)
}

func TestPdfLinkSummariesAll(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	notes := newTestNoteService(t, repo)
	svc := newTestPdfLinkService(t, repo)

	_, c1 := chip(t, "s1", 1)
	_, c2 := chip(t, "s2", 2)
	for _, content := range []string{"<p>" + c1 + c2 + "</p>", "<p>plain</p>", c2} {
		_, _, err := notes.ModifyOrCreate(ctx, testUID, &dto.NoteModifyOrCreateRequest{Content: content})
		require.NoError(t, err)
	}

	all, err := svc.SummariesAll(ctx, testUID)
	require.NoError(t, err)
	require.Len(t, all, 2)

	listed, err := repo.ListAll(ctx, testUID)
	require.NoError(t, err)
	var want []int64
	for _, n := range listed {
		if n.LinkCount > 0 {
			want = append(want, n.ID)
		}
	}
	got := []int64{all[0].NoteID, all[1].NoteID}
	assert.Equal(t, want, got)

	counts := map[int]bool{len(all[0].Links): true, len(all[1].Links): true}
	assert.Equal(t, map[int]bool{1: true, 2: true}, counts)
}

func TestPdfLinkPalette(t *testing.T) {
	svc := newTestPdfLinkService(t, newTestRepo(t))
	assert.Equal(t, pdflink.DefaultPalette, svc.Palette("not-a-color"))
	assert.Equal(t, "#00aa00", svc.Palette("#0a0").Accent)
}
