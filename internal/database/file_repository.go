package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/studybot/pkg/models"
	"github.com/jmoiron/sqlx"
)

// FileRepository handles database operations for study files
type FileRepository struct {
	db *sqlx.DB
}

// NewFileRepository creates a new repository instance
func NewFileRepository(db *sqlx.DB) *FileRepository {
	return &FileRepository{db: db}
}

// GetAll returns all study files ordered by name
func (r *FileRepository) GetAll(ctx context.Context) ([]models.StudyFile, error) {
	var files []models.StudyFile
	err := r.db.SelectContext(ctx, &files, `
		SELECT id, name, path, topic_id, total_pages, created_at, updated_at
		FROM files ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get files: %v", err)
	}
	return files, nil
}

// GetByID returns a study file by ID
func (r *FileRepository) GetByID(ctx context.Context, id int64) (*models.StudyFile, error) {
	var file models.StudyFile
	query := r.db.Rebind(`
		SELECT id, name, path, topic_id, total_pages, created_at, updated_at
		FROM files WHERE id = ?
	`)
	err := r.db.GetContext(ctx, &file, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("file %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %v", err)
	}
	return &file, nil
}

// GetByNameAndTopic returns a file by its name within a topic
func (r *FileRepository) GetByNameAndTopic(ctx context.Context, name string, topicID int64) (*models.StudyFile, error) {
	var file models.StudyFile
	query := r.db.Rebind(`
		SELECT id, name, path, topic_id, total_pages, created_at, updated_at
		FROM files WHERE name = ? AND topic_id = ?
	`)
	err := r.db.GetContext(ctx, &file, query, name, topicID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("file %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file %q: %v", name, err)
	}
	return &file, nil
}

// Create inserts a new study file
func (r *FileRepository) Create(ctx context.Context, file *models.StudyFile) error {
	now := time.Now().UTC()
	query := `
		INSERT INTO files (name, path, topic_id, total_pages, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := insertReturningID(r.db, query,
		file.Name,
		file.Path,
		file.TopicID,
		file.TotalPages,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create file %q: %v", file.Name, err)
	}
	file.ID = id
	file.CreatedAt = now
	file.UpdatedAt = now
	return nil
}

// Update modifies an existing study file
func (r *FileRepository) Update(ctx context.Context, file *models.StudyFile) error {
	query := r.db.Rebind(`
		UPDATE files SET name = ?, path = ?, topic_id = ?, total_pages = ?, updated_at = ?
		WHERE id = ?
	`)
	result, err := r.db.ExecContext(ctx, query,
		file.Name,
		file.Path,
		file.TopicID,
		file.TotalPages,
		time.Now().UTC(),
		file.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update file %d: %v", file.ID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 0 {
		return fmt.Errorf("file %d: %w", file.ID, ErrNotFound)
	}
	return nil
}
