package milestones

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/studybot/internal/database"
	"github.com/example/studybot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) (*Engine, *database.MilestoneRepository) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite3", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := database.NewMilestoneRepository(db)
	return NewEngine(repo), repo
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func testCatalog() []models.Milestone {
	return []models.Milestone{
		{
			Key:       "hours_one",
			Title:     "One Hour",
			Condition: models.TriggerCondition{models.MetricTotalHours: 1},
		},
		{
			Key:       "pages_fifty",
			Title:     "Fifty Pages",
			Condition: models.TriggerCondition{models.MetricTotalPages: 50},
		},
	}
}

func TestCheckMilestonesFiresAndRecordsHistory(t *testing.T) {
	engine, repo := newTestEngine(t)
	ctx := context.Background()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	engine.Now = fixedClock(now)
	require.NoError(t, repo.Seed(ctx, testCatalog(), now))

	fired, err := engine.CheckMilestones(ctx, models.ProgressSnapshot{TotalHours: 1.5})
	require.NoError(t, err)
	require.Len(t, fired, 1)
	assert.Equal(t, "hours_one", fired[0].Key)
	// Results carry the pre-fire state
	assert.Equal(t, 0, fired[0].TimesTriggered)
	assert.Nil(t, fired[0].LastTriggered)

	stored, err := repo.GetByKey(ctx, "hours_one")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.TimesTriggered)
	require.NotNil(t, stored.LastTriggered)
	assert.WithinDuration(t, now, *stored.LastTriggered, time.Second)
}

func TestCheckMilestonesCooldownSuppressesRefire(t *testing.T) {
	engine, repo := newTestEngine(t)
	ctx := context.Background()

	start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	engine.Now = fixedClock(start)
	require.NoError(t, repo.Seed(ctx, testCatalog(), start))

	snapshot := models.ProgressSnapshot{TotalHours: 2}
	fired, err := engine.CheckMilestones(ctx, snapshot)
	require.NoError(t, err)
	require.Len(t, fired, 1)

	// Same check an hour later: still inside the window
	engine.Now = fixedClock(start.Add(1 * time.Hour))
	fired, err = engine.CheckMilestones(ctx, snapshot)
	require.NoError(t, err)
	assert.Empty(t, fired)

	// One minute before the window closes
	engine.Now = fixedClock(start.Add(CooldownWindow - time.Minute))
	fired, err = engine.CheckMilestones(ctx, snapshot)
	require.NoError(t, err)
	assert.Empty(t, fired)

	stored, err := repo.GetByKey(ctx, "hours_one")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.TimesTriggered)
}

func TestCheckMilestonesRefiresAfterWindow(t *testing.T) {
	engine, repo := newTestEngine(t)
	ctx := context.Background()

	start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	engine.Now = fixedClock(start)
	require.NoError(t, repo.Seed(ctx, testCatalog(), start))

	snapshot := models.ProgressSnapshot{TotalHours: 2}
	_, err := engine.CheckMilestones(ctx, snapshot)
	require.NoError(t, err)

	engine.Now = fixedClock(start.Add(CooldownWindow + time.Minute))
	fired, err := engine.CheckMilestones(ctx, snapshot)
	require.NoError(t, err)
	require.Len(t, fired, 1)
	assert.Equal(t, "hours_one", fired[0].Key)

	stored, err := repo.GetByKey(ctx, "hours_one")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.TimesTriggered)
}

func TestCheckMilestonesReportsInCatalogOrder(t *testing.T) {
	engine, repo := newTestEngine(t)
	ctx := context.Background()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	engine.Now = fixedClock(now)
	require.NoError(t, repo.Seed(ctx, testCatalog(), now))

	fired, err := engine.CheckMilestones(ctx, models.ProgressSnapshot{TotalHours: 5, TotalPages: 200})
	require.NoError(t, err)
	require.Len(t, fired, 2)
	assert.Equal(t, "hours_one", fired[0].Key)
	assert.Equal(t, "pages_fifty", fired[1].Key)
}

// brokenFireStore serves a fixed catalog and fails Fire for one key
type brokenFireStore struct {
	catalog []models.Milestone
	failKey string
	fireErr error
}

func (s *brokenFireStore) Seed(ctx context.Context, defs []models.Milestone, now time.Time) error {
	return nil
}

func (s *brokenFireStore) GetAll(ctx context.Context) ([]models.Milestone, error) {
	return s.catalog, nil
}

func (s *brokenFireStore) Fire(ctx context.Context, key string, now, cutoff time.Time) (bool, error) {
	if key == s.failKey {
		return false, s.fireErr
	}
	return true, nil
}

func TestCheckMilestonesIsolatesPerItemStoreErrors(t *testing.T) {
	fireErr := errors.New("write failed")
	store := &brokenFireStore{
		catalog: testCatalog(),
		failKey: "hours_one",
		fireErr: fireErr,
	}
	engine := NewEngine(store)
	engine.Now = fixedClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	// Both conditions are satisfied; the first fire fails at the store
	fired, err := engine.CheckMilestones(context.Background(), models.ProgressSnapshot{
		TotalHours: 5,
		TotalPages: 200,
	})

	// The failure is surfaced, but evaluation of the rest continued
	require.Error(t, err)
	assert.ErrorIs(t, err, fireErr)
	require.Len(t, fired, 1)
	assert.Equal(t, "pages_fifty", fired[0].Key)
}

func TestCheckMilestonesRejectsInvalidSnapshot(t *testing.T) {
	engine, repo := newTestEngine(t)
	ctx := context.Background()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	engine.Now = fixedClock(now)
	require.NoError(t, repo.Seed(ctx, testCatalog(), now))

	_, err := engine.CheckMilestones(ctx, models.ProgressSnapshot{TotalHours: -1})
	assert.Error(t, err)

	// Nothing was touched
	stored, err := repo.GetByKey(ctx, "hours_one")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.TimesTriggered)
}

func TestSeedPreservesFireHistory(t *testing.T) {
	engine, repo := newTestEngine(t)
	ctx := context.Background()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	engine.Now = fixedClock(now)
	require.NoError(t, repo.Seed(ctx, testCatalog(), now))

	_, err := engine.CheckMilestones(ctx, models.ProgressSnapshot{TotalHours: 2})
	require.NoError(t, err)

	// Startup runs the seed again; history must survive
	require.NoError(t, repo.Seed(ctx, testCatalog(), now.Add(48*time.Hour)))

	stored, err := repo.GetByKey(ctx, "hours_one")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.TimesTriggered)
	assert.NotNil(t, stored.LastTriggered)
}

func TestSeedRejectsInvalidDefinitions(t *testing.T) {
	_, repo := newTestEngine(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	bad := []models.Milestone{{
		Key:       "bad_metric",
		Title:     "Bad",
		Condition: models.TriggerCondition{"total_cookies": 3},
	}}
	assert.Error(t, repo.Seed(ctx, bad, now))

	missingKey := []models.Milestone{{Title: "No Key"}}
	assert.Error(t, repo.Seed(ctx, missingKey, now))
}

func TestInitMilestonesSeedsDefaultCatalog(t *testing.T) {
	engine, repo := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.InitMilestones(ctx))

	catalog, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, catalog, len(DefaultCatalog()))

	// Running it again must not duplicate definitions
	require.NoError(t, engine.InitMilestones(ctx))
	catalog, err = repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, catalog, len(DefaultCatalog()))
}
