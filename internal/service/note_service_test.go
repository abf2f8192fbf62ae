package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-pdf-link-service/internal/dto"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/app"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/code"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/pdflink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteModifyOrCreate(t *testing.T) {
	ctx := context.Background()
	svc := newTestNoteService(t, newTestRepo(t))
	_, c := chip(t, "n-1", 4)

	isNew, note, err := svc.ModifyOrCreate(ctx, testUID, &dto.NoteModifyOrCreateRequest{
		Title:   "Paper",
		Content: "<p>Intro " + c + "</p>",
	})
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, "html", note.Format)
	assert.Equal(t, int64(1), note.Version)
	assert.Equal(t, 1, note.LinkCount)
	assert.NotEmpty(t, note.ContentHash)

	t.Run("unchanged", func(t *testing.T) {
		isNew, same, err := svc.ModifyOrCreate(ctx, testUID, &dto.NoteModifyOrCreateRequest{
			ID: note.ID, Title: "Paper", Content: note.Content, Version: 1,
		})
		require.NoError(t, err)
		assert.False(t, isNew)
		assert.Nil(t, same)
	})

	t.Run("modify bumps version", func(t *testing.T) {
		_, updated, err := svc.ModifyOrCreate(ctx, testUID, &dto.NoteModifyOrCreateRequest{
			ID: note.ID, Title: "Paper", Content: "<p>no links</p>", Version: 1,
		})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, int64(2), updated.Version)
		assert.Equal(t, 0, updated.LinkCount)
	})

	t.Run("stale version", func(t *testing.T) {
		_, _, err := svc.ModifyOrCreate(ctx, testUID, &dto.NoteModifyOrCreateRequest{
			ID: note.ID, Title: "Paper", Content: "<p>late</p>", Version: 1,
		})
		assert.Equal(t, code.ErrorNoteVersionConflict.Code(), codeOf(t, err))
	})

	t.Run("other user", func(t *testing.T) {
		_, err := svc.Get(ctx, testUID+1, &dto.NoteGetRequest{ID: note.ID})
		assert.Equal(t, code.ErrorNoteNotFound.Code(), codeOf(t, err))
	})
}

func TestNoteModifyOrCreateRejectsBadDocument(t *testing.T) {
	svc := newTestNoteService(t, newTestRepo(t))

	_, _, err := svc.ModifyOrCreate(context.Background(), testUID, &dto.NoteModifyOrCreateRequest{
		Format:  "json",
		Content: "{not json",
	})
	assert.Equal(t, code.ErrorNoteFormatInvalid.Code(), codeOf(t, err))

	_, _, err = svc.ModifyOrCreate(context.Background(), testUID, &dto.NoteModifyOrCreateRequest{
		Format: "docx",
	})
	assert.Equal(t, code.ErrorNoteFormatInvalid.Code(), codeOf(t, err))
}

func TestNoteListAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTestNoteService(t, newTestRepo(t))

	var ids []int64
	for i := 0; i < 3; i++ {
		_, n, err := svc.ModifyOrCreate(ctx, testUID, &dto.NoteModifyOrCreateRequest{Title: "n", Content: "<p>x</p>"})
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}

	list, total, err := svc.List(ctx, testUID, &app.Pager{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, list, 2)

	require.NoError(t, svc.Delete(ctx, testUID, &dto.NoteDeleteRequest{ID: ids[0]}))
	err = svc.Delete(ctx, testUID, &dto.NoteDeleteRequest{ID: ids[0]})
	assert.Equal(t, code.ErrorNoteNotFound.Code(), codeOf(t, err))

	_, total, err = svc.List(ctx, testUID, &app.Pager{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestNoteCleanupAll(t *testing.T) {
	ctx := context.Background()
	svc := newTestNoteService(t, newTestRepo(t))

	_, n, err := svc.ModifyOrCreate(ctx, testUID, &dto.NoteModifyOrCreateRequest{Content: "<p>bye</p>"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, testUID, &dto.NoteDeleteRequest{ID: n.ID}))

	removed, err := svc.CleanupAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed, "retention 0 disables cleanup")

	svc.config.App.SoftDeleteRetention = 24 * time.Hour
	removed, err = svc.CleanupAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)

	svc.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	removed, err = svc.CleanupAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestNoteGenerateHTML(t *testing.T) {
	ctx := context.Background()
	svc := newTestNoteService(t, newTestRepo(t))
	a, c := chip(t, "md_link__x_", 9)

	t.Run("markdown keeps chips intact", func(t *testing.T) {
		md := "---\ntitle: Paper\n---\n# Findings\n\nSee _this_ " + c + " and **that**.\n"
		_, n, err := svc.ModifyOrCreate(ctx, testUID, &dto.NoteModifyOrCreateRequest{Format: "markdown", Content: md})
		require.NoError(t, err)
		assert.Equal(t, 1, n.LinkCount)

		out, etag, err := svc.GenerateHTML(ctx, testUID, &dto.NoteGetRequest{ID: n.ID})
		require.NoError(t, err)
		assert.Equal(t, n.ContentHash, etag)
		assert.Contains(t, out, "<h1>Findings</h1>")
		assert.Contains(t, out, "<em>this</em>")
		assert.NotContains(t, out, "title: Paper")

		sums := pdflink.ExtractLinkSummaries(out)
		require.Len(t, sums, 1)
		assert.Equal(t, a.LinkID, sums[0].ID)
		assert.Contains(t, pdflink.PlainText(out), pdflink.BuildSentinelText(a.Encoded))
	})

	t.Run("json document", func(t *testing.T) {
		doc := &pdflink.DocNode{Type: "doc", Content: []*pdflink.DocNode{
			{Type: "paragraph", Content: []*pdflink.DocNode{{Type: "text", Text: "Intro"}}},
		}}
		pdflink.AppendDoc(doc, a)
		content, err := pdflink.MarshalDoc(doc)
		require.NoError(t, err)

		_, n, err := svc.ModifyOrCreate(ctx, testUID, &dto.NoteModifyOrCreateRequest{Format: "json", Content: content})
		require.NoError(t, err)
		assert.Equal(t, 1, n.LinkCount)

		out, _, err := svc.GenerateHTML(ctx, testUID, &dto.NoteGetRequest{ID: n.ID})
		require.NoError(t, err)
		assert.True(t, strings.Contains(out, "Intro"))
		require.Len(t, pdflink.ExtractLinkSummaries(out), 1)
	})
}
