package database

import (
	"context"
	"fmt"
	"time"

	"github.com/example/studybot/pkg/models"
	"github.com/jmoiron/sqlx"
)

// NoteRepository handles database operations for notes
type NoteRepository struct {
	db *sqlx.DB
}

// NewNoteRepository creates a new repository instance
func NewNoteRepository(db *sqlx.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// Create inserts a new note
func (r *NoteRepository) Create(ctx context.Context, note *models.Note) error {
	now := time.Now().UTC()
	query := `
		INSERT INTO notes (file_id, content, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`
	id, err := insertReturningID(r.db, query, note.FileID, note.Content, now, now)
	if err != nil {
		return fmt.Errorf("failed to create note: %v", err)
	}
	note.ID = id
	note.CreatedAt = now
	note.UpdatedAt = now
	return nil
}

// GetByFile returns all notes for a file, newest first
func (r *NoteRepository) GetByFile(ctx context.Context, fileID int64) ([]models.Note, error) {
	var notes []models.Note
	query := r.db.Rebind(`
		SELECT id, file_id, content, created_at, updated_at
		FROM notes WHERE file_id = ? ORDER BY created_at DESC
	`)
	if err := r.db.SelectContext(ctx, &notes, query, fileID); err != nil {
		return nil, fmt.Errorf("failed to get notes: %v", err)
	}
	return notes, nil
}

// Delete removes a note
func (r *NoteRepository) Delete(ctx context.Context, id int64) error {
	query := r.db.Rebind("DELETE FROM notes WHERE id = ?")
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete note %d: %v", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 0 {
		return fmt.Errorf("note %d: %w", id, ErrNotFound)
	}
	return nil
}
