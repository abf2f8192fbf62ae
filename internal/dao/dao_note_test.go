package dao

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/gookit/goutil/dump"
	"github.com/haierkeys/fast-note-pdf-link-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) domain.NoteRepository {
	t.Helper()
	cfg := DatabaseConfig{
		Type:        "sqlite",
		Path:        filepath.Join(t.TempDir(), "db", "test.sqlite3"),
		AutoMigrate: true,
	}
	db, err := NewDBEngineWithConfig(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	d := New(db, context.Background(), WithConfig(&cfg))
	require.NoError(t, d.Migrate())
	return NewNoteRepository(d)
}

func newNote(uid int64, format domain.NoteFormat, content string) *domain.Note {
	now := time.Now().Truncate(time.Second)
	return &domain.Note{
		UID:       uid,
		Action:    domain.NoteActionCreate,
		Title:     "Reading notes",
		Format:    format,
		Content:   content,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestNoteCreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	note, err := repo.Create(ctx, newNote(1, domain.NoteFormatHTML, "<p>hello</p>"))
	require.NoError(t, err)
	dump.P(note)

	got, err := repo.GetByID(ctx, note.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", got.Content)
	assert.Equal(t, domain.NoteFormatHTML, got.Format)
	assert.EqualValues(t, 1, got.Version)

	_, err = repo.GetByID(ctx, note.ID, 2)
	assert.ErrorIs(t, err, domain.ErrNoteNotFound)
}

func TestNoteJSONStoredInDocColumn(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	doc := `{"type":"doc","content":[]}`
	note, err := repo.Create(ctx, newNote(1, domain.NoteFormatJSON, doc))
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, note.ID, 1)
	require.NoError(t, err)
	assert.JSONEq(t, doc, got.Content)
}

func TestNoteUpdateVersionConflict(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	note, err := repo.Create(ctx, newNote(1, domain.NoteFormatHTML, "v1"))
	require.NoError(t, err)

	note.Content = "v2"
	note.Version = 2
	updated, err := repo.Update(ctx, note, 1)
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.Content)
	assert.EqualValues(t, 2, updated.Version)

	note.Content = "stale"
	note.Version = 2
	_, err = repo.Update(ctx, note, 1)
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	note.ID = 999
	_, err = repo.Update(ctx, note, 2)
	assert.ErrorIs(t, err, domain.ErrNoteNotFound)
}

func TestNoteListAndDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		n, err := repo.Create(ctx, newNote(7, domain.NoteFormatHTML, "x"))
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}
	_, err := repo.Create(ctx, newNote(8, domain.NoteFormatHTML, "other user"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, ids[0], 7))
	assert.ErrorIs(t, repo.Delete(ctx, ids[0], 7), domain.ErrNoteNotFound)

	count, err := repo.ListCount(ctx, 7)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	page, err := repo.List(ctx, 7, 1, 1)
	require.NoError(t, err)
	assert.Len(t, page, 1)

	all, err := repo.ListAll(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	n, err := repo.DeletePhysicalBefore(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
