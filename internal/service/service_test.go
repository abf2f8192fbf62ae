package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-pdf-link-service/internal/dao"
	"github.com/haierkeys/fast-note-pdf-link-service/internal/domain"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/code"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/pdflink"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/workerpool"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testUID int64 = 7

var testNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func newTestRepo(t *testing.T) domain.NoteRepository {
	t.Helper()
	cfg := dao.DatabaseConfig{
		Type:        "sqlite",
		Path:        filepath.Join(t.TempDir(), "service.sqlite3"),
		AutoMigrate: true,
	}
	db, err := dao.NewDBEngineWithConfig(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	d := dao.New(db, context.Background(), dao.WithConfig(&cfg))
	require.NoError(t, d.Migrate())
	return dao.NewNoteRepository(d)
}

func newTestNoteService(t *testing.T, repo domain.NoteRepository) *noteService {
	t.Helper()
	return NewNoteService(repo, DefaultServiceConfig(), zaptest.NewLogger(t)).(*noteService)
}

func newTestPdfLinkService(t *testing.T, repo domain.NoteRepository) *pdfLinkService {
	t.Helper()
	pool := workerpool.New(&workerpool.Config{MaxWorkers: 4, QueueSize: 16}, zaptest.NewLogger(t))
	t.Cleanup(func() { _ = pool.Shutdown(context.Background()) })

	s := NewPdfLinkService(repo, pool, DefaultServiceConfig(), zaptest.NewLogger(t)).(*pdfLinkService)
	s.now = func() time.Time { return testNow }
	return s
}

// chip renders a saved link node for test fixtures.
func chip(t *testing.T, id string, page int) (pdflink.NodeAttrs, string) {
	t.Helper()
	a, err := pdflink.NewNodeAttrs(pdflink.Payload{
		LinkID:       id,
		PageNumber:   page,
		OutlineTitle: "Chapter " + id,
		FileURL:      "https://files.example.com/paper.pdf",
		CreatedAt:    "2026-03-14T09:26:53Z",
	})
	require.NoError(t, err)
	return a, pdflink.RenderHTML(a, nil)
}

// codeOf returns the business code carried by err.
func codeOf(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	c, ok := err.(*code.Code)
	require.True(t, ok, "error %v is not a *code.Code", err)
	return c.Code()
}
