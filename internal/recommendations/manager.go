package recommendations

import (
	"context"
	"fmt"
	"time"

	"github.com/example/studybot/internal/database"
	"github.com/example/studybot/pkg/models"
)

// DateFormat is the wire format for recommendation dates
const DateFormat = "2006-01-02"

// Aggregator produces the recommendation rows for a date. Generation
// must be idempotent per date: re-running for the same date must not
// duplicate rows. Priorities are assigned by the aggregator.
type Aggregator interface {
	Generate(ctx context.Context, date string) error
}

// Manager drives the daily recommendation lifecycle: it asks the
// aggregator to generate rows for a date and exposes the read and
// completion operations. The manager never creates rows itself.
type Manager struct {
	repo       *database.RecommendationRepository
	aggregator Aggregator
	Now        func() time.Time
}

// NewManager creates a lifecycle manager
func NewManager(repo *database.RecommendationRepository, aggregator Aggregator) *Manager {
	return &Manager{
		repo:       repo,
		aggregator: aggregator,
		Now:        time.Now,
	}
}

// Today returns the manager's current date string
func (m *Manager) Today() string {
	return m.Now().UTC().Format(DateFormat)
}

// GenerateForDate delegates row generation for the date to the
// aggregator. An empty date means today. The date is validated before
// the aggregator is invoked; aggregator failures are surfaced as-is with
// no partial state assumed.
func (m *Manager) GenerateForDate(ctx context.Context, date string) (string, error) {
	if date == "" {
		date = m.Today()
	}
	if _, err := time.Parse(DateFormat, date); err != nil {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	if err := m.aggregator.Generate(ctx, date); err != nil {
		return "", fmt.Errorf("failed to generate recommendations for %s: %w", date, err)
	}
	return date, nil
}

// ListForToday returns today's recommendations enriched with file and
// topic display data, most urgent first (priority descending, earliest
// created wins ties), along with the date they apply to.
func (m *Manager) ListForToday(ctx context.Context) ([]models.TodayRecommendation, string, error) {
	date := m.Today()
	recs, err := m.repo.ListForDate(ctx, date)
	if err != nil {
		return nil, date, err
	}
	return recs, date, nil
}

// Complete marks a recommendation as done and returns the updated row.
// Unknown ids yield database.ErrNotFound; completing twice is allowed
// and leaves the row completed with no error.
func (m *Manager) Complete(ctx context.Context, id int64) (*models.TodayRecommendation, error) {
	return m.repo.Complete(ctx, id)
}
