package database

import (
	"context"
	"fmt"
	"time"

	"github.com/example/studybot/pkg/models"
	"github.com/jmoiron/sqlx"
)

// MilestoneRepository handles database operations for the milestone catalog
type MilestoneRepository struct {
	db *sqlx.DB
}

// NewMilestoneRepository creates a new repository instance
func NewMilestoneRepository(db *sqlx.DB) *MilestoneRepository {
	return &MilestoneRepository{db: db}
}

// Seed inserts each definition whose key is not already present.
// Existing keys are left untouched, including their fire history, so the
// seed is safe to run on every startup.
func (r *MilestoneRepository) Seed(ctx context.Context, definitions []models.Milestone, now time.Time) error {
	query := `
		INSERT INTO milestones (
			key, title, description, celebration_message, icon,
			trigger_condition, xp_bonus, times_triggered, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
		ON CONFLICT (key) DO NOTHING
	`
	if r.db.DriverName() == "sqlite3" {
		query = `
			INSERT OR IGNORE INTO milestones (
				key, title, description, celebration_message, icon,
				trigger_condition, xp_bonus, times_triggered, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
		`
	}
	query = r.db.Rebind(query)

	for _, def := range definitions {
		if def.Key == "" {
			return fmt.Errorf("milestone definition is missing a key")
		}
		if err := def.Condition.Validate(); err != nil {
			return fmt.Errorf("invalid definition %q: %v", def.Key, err)
		}
		_, err := r.db.ExecContext(ctx, query,
			def.Key,
			def.Title,
			def.Description,
			def.CelebrationMessage,
			def.Icon,
			def.Condition,
			def.XPBonus,
			now,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to seed milestone %q: %v", def.Key, err)
		}
	}
	return nil
}

// GetAll returns the full catalog in definition insertion order
func (r *MilestoneRepository) GetAll(ctx context.Context) ([]models.Milestone, error) {
	var milestones []models.Milestone
	err := r.db.SelectContext(ctx, &milestones, `
		SELECT id, key, title, description, celebration_message, icon,
		       trigger_condition, xp_bonus, last_triggered, times_triggered,
		       created_at, updated_at
		FROM milestones ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get milestones: %v", err)
	}
	return milestones, nil
}

// GetByKey returns a single definition
func (r *MilestoneRepository) GetByKey(ctx context.Context, key string) (*models.Milestone, error) {
	var m models.Milestone
	query := r.db.Rebind(`
		SELECT id, key, title, description, celebration_message, icon,
		       trigger_condition, xp_bonus, last_triggered, times_triggered,
		       created_at, updated_at
		FROM milestones WHERE key = ?
	`)
	if err := r.db.GetContext(ctx, &m, query, key); err != nil {
		return nil, fmt.Errorf("failed to get milestone %q: %v", key, err)
	}
	return &m, nil
}

// Fire records a trigger for the given key as a single conditional
// update: the row is only touched if it has never fired or last fired at
// or before the cutoff. The returned bool reports whether this call won
// the write, so two concurrent checks cannot both celebrate.
func (r *MilestoneRepository) Fire(ctx context.Context, key string, now, cutoff time.Time) (bool, error) {
	query := r.db.Rebind(`
		UPDATE milestones SET
			last_triggered = ?,
			times_triggered = times_triggered + 1,
			updated_at = ?
		WHERE key = ? AND (last_triggered IS NULL OR last_triggered <= ?)
	`)
	result, err := r.db.ExecContext(ctx, query, now, now, key, cutoff)
	if err != nil {
		return false, fmt.Errorf("failed to record milestone fire for %q: %v", key, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %v", err)
	}
	return rows == 1, nil
}
