package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/example/studybot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionRepo(t *testing.T) *SessionRepository {
	t.Helper()
	db, err := Connect(Config{Driver: "sqlite3", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSessionRepository(db)
}

func TestStreakLength(t *testing.T) {
	tests := []struct {
		name  string
		dates []string
		today string
		want  int
	}{
		{"no sessions", nil, "2025-03-10", 0},
		{"single day today", []string{"2025-03-10"}, "2025-03-10", 1},
		{"streak alive from yesterday", []string{"2025-03-09", "2025-03-08"}, "2025-03-10", 2},
		{"streak broken two days ago", []string{"2025-03-08", "2025-03-07"}, "2025-03-10", 0},
		{"gap stops the count", []string{"2025-03-10", "2025-03-09", "2025-03-07"}, "2025-03-10", 2},
		{"month boundary", []string{"2025-03-01", "2025-02-28", "2025-02-27"}, "2025-03-01", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, streakLength(tt.dates, tt.today))
		})
	}
}

func TestGetSnapshotAggregatesSessions(t *testing.T) {
	repo := newSessionRepo(t)
	ctx := context.Background()

	sessions := []struct {
		pages, minutes int
		date           string
	}{
		{20, 90, "2025-03-09"},
		{10, 30, "2025-03-10"},
		{5, 30, "2025-03-10"},
	}
	for _, s := range sessions {
		require.NoError(t, repo.Create(ctx, &models.StudySession{
			Pages:       s.pages,
			Minutes:     s.minutes,
			SessionDate: s.date,
		}))
	}

	snapshot, err := repo.GetSnapshot(ctx, "2025-03-10")
	require.NoError(t, err)
	assert.InDelta(t, 2.5, snapshot.TotalHours, 0.001)
	assert.Equal(t, 35, snapshot.TotalPages)
	assert.Equal(t, 2, snapshot.CurrentStreak)
}

func TestGetSnapshotEmptyDatabase(t *testing.T) {
	repo := newSessionRepo(t)

	snapshot, err := repo.GetSnapshot(context.Background(), "2025-03-10")
	require.NoError(t, err)
	assert.Zero(t, snapshot.TotalHours)
	assert.Zero(t, snapshot.TotalPages)
	assert.Zero(t, snapshot.CurrentStreak)
	require.NoError(t, snapshot.Validate())
}

func TestRecentFileActivityGroupsByFile(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite3", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sessions := NewSessionRepository(db)
	topics := NewTopicRepository(db)
	files := NewFileRepository(db)
	ctx := context.Background()

	topic, err := topics.GetOrCreate(ctx, "Biology", "")
	require.NoError(t, err)
	book := &models.StudyFile{Name: "Cells", TopicID: topic.ID}
	require.NoError(t, files.Create(ctx, book))

	for _, date := range []string{"2025-03-01", "2025-03-05", "2025-03-03"} {
		require.NoError(t, sessions.Create(ctx, &models.StudySession{
			FileID:      sql.NullInt64{Int64: book.ID, Valid: true},
			TopicID:     sql.NullInt64{Int64: topic.ID, Valid: true},
			Pages:       5,
			Minutes:     25,
			SessionDate: date,
		}))
	}
	// A session with no file attached is excluded from activity
	require.NoError(t, sessions.Create(ctx, &models.StudySession{
		Pages: 3, Minutes: 15, SessionDate: "2025-03-06",
	}))

	activity, err := sessions.RecentFileActivity(ctx, "2025-03-01")
	require.NoError(t, err)
	require.Len(t, activity, 1)
	assert.Equal(t, book.ID, activity[0].FileID)
	assert.Equal(t, "2025-03-05", activity[0].LastDate)
}
