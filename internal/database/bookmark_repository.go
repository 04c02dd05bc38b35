package database

import (
	"context"
	"fmt"
	"time"

	"github.com/example/studybot/pkg/models"
	"github.com/jmoiron/sqlx"
)

// BookmarkRepository handles database operations for bookmarks
type BookmarkRepository struct {
	db *sqlx.DB
}

// NewBookmarkRepository creates a new repository instance
func NewBookmarkRepository(db *sqlx.DB) *BookmarkRepository {
	return &BookmarkRepository{db: db}
}

// Create inserts a new bookmark
func (r *BookmarkRepository) Create(ctx context.Context, bookmark *models.Bookmark) error {
	now := time.Now().UTC()
	query := `
		INSERT INTO bookmarks (file_id, page, label, created_at)
		VALUES (?, ?, ?, ?)
	`
	id, err := insertReturningID(r.db, query, bookmark.FileID, bookmark.Page, bookmark.Label, now)
	if err != nil {
		return fmt.Errorf("failed to create bookmark: %v", err)
	}
	bookmark.ID = id
	bookmark.CreatedAt = now
	return nil
}

// GetByFile returns all bookmarks for a file ordered by page
func (r *BookmarkRepository) GetByFile(ctx context.Context, fileID int64) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	query := r.db.Rebind(`
		SELECT id, file_id, page, label, created_at
		FROM bookmarks WHERE file_id = ? ORDER BY page ASC
	`)
	if err := r.db.SelectContext(ctx, &bookmarks, query, fileID); err != nil {
		return nil, fmt.Errorf("failed to get bookmarks: %v", err)
	}
	return bookmarks, nil
}

// Delete removes a bookmark
func (r *BookmarkRepository) Delete(ctx context.Context, id int64) error {
	query := r.db.Rebind("DELETE FROM bookmarks WHERE id = ?")
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark %d: %v", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 0 {
		return fmt.Errorf("bookmark %d: %w", id, ErrNotFound)
	}
	return nil
}
