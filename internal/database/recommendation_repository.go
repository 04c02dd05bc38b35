package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/studybot/pkg/models"
	"github.com/jmoiron/sqlx"
)

// RecommendationRepository handles database operations for daily recommendations
type RecommendationRepository struct {
	db *sqlx.DB
}

// NewRecommendationRepository creates a new repository instance
func NewRecommendationRepository(db *sqlx.DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

// Create inserts a recommendation row. Rows are created by the
// aggregation routine only; the rest of the system just reads them and
// flips is_completed.
func (r *RecommendationRepository) Create(ctx context.Context, rec *models.DailyRecommendation) error {
	query := r.db.Rebind(`
		INSERT INTO daily_recommendations (date, file_id, topic_id, priority, is_completed, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	id, err := insertReturningID(r.db, query,
		rec.Date,
		rec.FileID,
		rec.TopicID,
		rec.Priority,
		rec.IsCompleted,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create recommendation: %v", err)
	}
	rec.ID = id
	return nil
}

// CountForDate returns how many recommendation rows exist for a date
func (r *RecommendationRepository) CountForDate(ctx context.Context, date string) (int, error) {
	var count int
	query := r.db.Rebind("SELECT COUNT(*) FROM daily_recommendations WHERE date = ?")
	if err := r.db.GetContext(ctx, &count, query, date); err != nil {
		return 0, fmt.Errorf("failed to count recommendations: %v", err)
	}
	return count, nil
}

// ListForDate returns all recommendations for a date enriched with file
// and topic display data. Missing references leave the enrichment fields
// null. Higher priority first; equal priorities keep creation order.
func (r *RecommendationRepository) ListForDate(ctx context.Context, date string) ([]models.TodayRecommendation, error) {
	var recs []models.TodayRecommendation
	query := r.db.Rebind(`
		SELECT dr.id, dr.date, dr.file_id, dr.topic_id, dr.priority,
		       dr.is_completed, dr.created_at,
		       f.name AS file_name, t.name AS topic_name, t.icon AS topic_icon
		FROM daily_recommendations dr
		LEFT JOIN files f ON dr.file_id = f.id
		LEFT JOIN topics t ON dr.topic_id = t.id
		WHERE dr.date = ?
		ORDER BY dr.priority DESC, dr.created_at ASC
	`)
	if err := r.db.SelectContext(ctx, &recs, query, date); err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %v", err)
	}
	return recs, nil
}

// GetByID returns a single enriched recommendation row
func (r *RecommendationRepository) GetByID(ctx context.Context, id int64) (*models.TodayRecommendation, error) {
	var rec models.TodayRecommendation
	query := r.db.Rebind(`
		SELECT dr.id, dr.date, dr.file_id, dr.topic_id, dr.priority,
		       dr.is_completed, dr.created_at,
		       f.name AS file_name, t.name AS topic_name, t.icon AS topic_icon
		FROM daily_recommendations dr
		LEFT JOIN files f ON dr.file_id = f.id
		LEFT JOIN topics t ON dr.topic_id = t.id
		WHERE dr.id = ?
	`)
	err := r.db.GetContext(ctx, &rec, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("recommendation %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendation %d: %v", id, err)
	}
	return &rec, nil
}

// Complete marks a recommendation as done and returns the updated row.
// Completion is terminal; completing an already-completed row is a
// harmless no-op. An unknown id yields ErrNotFound.
func (r *RecommendationRepository) Complete(ctx context.Context, id int64) (*models.TodayRecommendation, error) {
	query := r.db.Rebind("UPDATE daily_recommendations SET is_completed = ? WHERE id = ?")
	if _, err := r.db.ExecContext(ctx, query, true, id); err != nil {
		return nil, fmt.Errorf("failed to complete recommendation %d: %v", id, err)
	}
	return r.GetByID(ctx, id)
}
