package database

import (
	"context"
	"fmt"
	"time"

	"github.com/example/studybot/pkg/models"
	"github.com/jmoiron/sqlx"
)

// SessionRepository handles database operations for study sessions and
// the aggregate metrics derived from them.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new repository instance
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a logged study session
func (r *SessionRepository) Create(ctx context.Context, session *models.StudySession) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO study_sessions (file_id, topic_id, pages, minutes, session_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := insertReturningID(r.db, query,
		session.FileID,
		session.TopicID,
		session.Pages,
		session.Minutes,
		session.SessionDate,
		session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create study session: %v", err)
	}
	session.ID = id
	return nil
}

// GetSnapshot computes the progress snapshot from all logged sessions.
// The streak counts consecutive days with at least one session, ending
// today or yesterday relative to the given date.
func (r *SessionRepository) GetSnapshot(ctx context.Context, today string) (models.ProgressSnapshot, error) {
	var snapshot models.ProgressSnapshot

	var totals struct {
		Minutes int `db:"minutes"`
		Pages   int `db:"pages"`
	}
	err := r.db.GetContext(ctx, &totals, `
		SELECT COALESCE(SUM(minutes), 0) AS minutes, COALESCE(SUM(pages), 0) AS pages
		FROM study_sessions
	`)
	if err != nil {
		return snapshot, fmt.Errorf("failed to compute totals: %v", err)
	}
	snapshot.TotalHours = float64(totals.Minutes) / 60.0
	snapshot.TotalPages = totals.Pages

	var dates []string
	err = r.db.SelectContext(ctx, &dates, `
		SELECT DISTINCT session_date FROM study_sessions ORDER BY session_date DESC
	`)
	if err != nil {
		return snapshot, fmt.Errorf("failed to get session dates: %v", err)
	}
	snapshot.CurrentStreak = streakLength(dates, today)

	return snapshot, nil
}

// streakLength counts consecutive study days in dates (sorted newest
// first). A streak is still alive if the newest day is today or
// yesterday; otherwise it is 0.
func streakLength(dates []string, today string) int {
	if len(dates) == 0 {
		return 0
	}
	ref, err := time.Parse("2006-01-02", today)
	if err != nil {
		return 0
	}

	expected := ref
	if dates[0] != ref.Format("2006-01-02") {
		expected = ref.AddDate(0, 0, -1)
		if dates[0] != expected.Format("2006-01-02") {
			return 0
		}
	}

	streak := 0
	for _, d := range dates {
		if d != expected.Format("2006-01-02") {
			break
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
	}
	return streak
}

// FileActivity is a file's most recent study date, used by the
// recommendation aggregator to rank stale material.
type FileActivity struct {
	FileID   int64  `db:"file_id"`
	TopicID  int64  `db:"topic_id"`
	LastDate string `db:"last_date"`
}

// RecentFileActivity returns, for every file studied on or after since,
// the most recent date it was studied.
func (r *SessionRepository) RecentFileActivity(ctx context.Context, since string) ([]FileActivity, error) {
	var activity []FileActivity
	query := r.db.Rebind(`
		SELECT s.file_id AS file_id, f.topic_id AS topic_id, MAX(s.session_date) AS last_date
		FROM study_sessions s
		JOIN files f ON s.file_id = f.id
		WHERE s.file_id IS NOT NULL AND s.session_date >= ?
		GROUP BY s.file_id, f.topic_id
	`)
	if err := r.db.SelectContext(ctx, &activity, query, since); err != nil {
		return nil, fmt.Errorf("failed to get file activity: %v", err)
	}
	return activity, nil
}
