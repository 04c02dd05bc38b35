package recommendations

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/studybot/internal/database"
	"github.com/example/studybot/pkg/models"
)

// lookbackDays is how far back the aggregator looks for studied files
const lookbackDays = 14

// maxPriority caps the staleness-based priority
const maxPriority = 10

// StudyAggregator builds a day's recommendations from recent study
// sessions: every file studied in the lookback window gets a row, ranked
// by how long it has been untouched (staler = higher priority). A date
// that already has rows is left alone, which makes generation idempotent.
// Row timestamps come from Now so tests can inject a fixed clock.
type StudyAggregator struct {
	recs     *database.RecommendationRepository
	sessions *database.SessionRepository
	Now      func() time.Time
}

// NewStudyAggregator creates the default aggregator
func NewStudyAggregator(recs *database.RecommendationRepository, sessions *database.SessionRepository) *StudyAggregator {
	return &StudyAggregator{recs: recs, sessions: sessions, Now: time.Now}
}

// Generate implements the Aggregator interface
func (a *StudyAggregator) Generate(ctx context.Context, date string) error {
	count, err := a.recs.CountForDate(ctx, date)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	target, err := time.Parse(DateFormat, date)
	if err != nil {
		return fmt.Errorf("invalid date %q: %v", date, err)
	}
	since := target.AddDate(0, 0, -lookbackDays).Format(DateFormat)

	activity, err := a.sessions.RecentFileActivity(ctx, since)
	if err != nil {
		return err
	}

	now := a.Now().UTC()
	for i, act := range activity {
		last, err := time.Parse(DateFormat, act.LastDate)
		if err != nil {
			continue
		}
		staleDays := int(target.Sub(last).Hours() / 24)
		if staleDays < 1 {
			// studied on the target date already, nothing to suggest
			continue
		}
		priority := staleDays
		if priority > maxPriority {
			priority = maxPriority
		}
		rec := &models.DailyRecommendation{
			Date:      date,
			FileID:    sql.NullInt64{Int64: act.FileID, Valid: true},
			TopicID:   sql.NullInt64{Int64: act.TopicID, Valid: true},
			Priority:  priority,
			CreatedAt: now.Add(time.Duration(i) * time.Millisecond),
		}
		if err := a.recs.Create(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
