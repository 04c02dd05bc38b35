package database

import (
	"context"
	"testing"

	"github.com/example/studybot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnnotationRepos(t *testing.T) (*NoteRepository, *BookmarkRepository, *models.StudyFile) {
	t.Helper()
	db, err := Connect(Config{Driver: "sqlite3", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	topic, err := NewTopicRepository(db).GetOrCreate(ctx, "Physics", "")
	require.NoError(t, err)
	file := &models.StudyFile{Name: "Waves", TopicID: topic.ID}
	require.NoError(t, NewFileRepository(db).Create(ctx, file))

	return NewNoteRepository(db), NewBookmarkRepository(db), file
}

func TestNoteCreateListDelete(t *testing.T) {
	notes, _, file := newAnnotationRepos(t)
	ctx := context.Background()

	first := &models.Note{FileID: file.ID, Content: "interference patterns"}
	require.NoError(t, notes.Create(ctx, first))
	second := &models.Note{FileID: file.ID, Content: "revisit chapter 4"}
	require.NoError(t, notes.Create(ctx, second))

	list, err := notes.GetByFile(ctx, file.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, notes.Delete(ctx, first.ID))
	list, err = notes.GetByFile(ctx, file.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "revisit chapter 4", list[0].Content)

	err = notes.Delete(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookmarkCreateListDelete(t *testing.T) {
	_, bookmarks, file := newAnnotationRepos(t)
	ctx := context.Background()

	late := &models.Bookmark{FileID: file.ID, Page: 120, Label: "exercises"}
	require.NoError(t, bookmarks.Create(ctx, late))
	early := &models.Bookmark{FileID: file.ID, Page: 15}
	require.NoError(t, bookmarks.Create(ctx, early))

	list, err := bookmarks.GetByFile(ctx, file.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Ordered by page, not insertion
	assert.Equal(t, 15, list[0].Page)
	assert.Equal(t, 120, list[1].Page)

	require.NoError(t, bookmarks.Delete(ctx, late.ID))
	err = bookmarks.Delete(ctx, late.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
