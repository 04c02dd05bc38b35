package milestones

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/studybot/pkg/models"
)

// CooldownWindow is how long a milestone stays suppressed after firing,
// regardless of whether its condition is still satisfied.
const CooldownWindow = 24 * time.Hour

// Store is the catalog access the engine needs. Satisfied by
// database.MilestoneRepository.
type Store interface {
	Seed(ctx context.Context, definitions []models.Milestone, now time.Time) error
	GetAll(ctx context.Context) ([]models.Milestone, error)
	Fire(ctx context.Context, key string, now, cutoff time.Time) (bool, error)
}

// Engine walks the milestone catalog against a progress snapshot and
// records fires. All timing goes through Now so tests can inject a fixed
// clock.
type Engine struct {
	repo Store
	Now  func() time.Time
}

// NewEngine creates a trigger engine backed by the given store
func NewEngine(repo Store) *Engine {
	return &Engine{
		repo: repo,
		Now:  time.Now,
	}
}

// InitMilestones seeds the default catalog. Existing keys keep their
// fire history, so this runs on every startup.
func (e *Engine) InitMilestones(ctx context.Context) error {
	return e.repo.Seed(ctx, DefaultCatalog(), e.Now().UTC())
}

// Catalog returns every milestone with its current fire history
func (e *Engine) Catalog(ctx context.Context) ([]models.Milestone, error) {
	return e.repo.GetAll(ctx)
}

// CheckMilestones evaluates the whole catalog against the snapshot and
// returns the definitions that fired, in catalog order with their
// pre-fire state. Milestones inside their cooldown window are skipped
// outright. A store failure on one milestone does not stop evaluation of
// the rest: partial results are returned together with the joined
// errors.
func (e *Engine) CheckMilestones(ctx context.Context, snapshot models.ProgressSnapshot) ([]models.Milestone, error) {
	if err := snapshot.Validate(); err != nil {
		return nil, fmt.Errorf("invalid progress snapshot: %v", err)
	}

	catalog, err := e.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	now := e.Now().UTC()
	cutoff := now.Add(-CooldownWindow)

	var fired []models.Milestone
	var errs []error
	for _, m := range catalog {
		if m.LastTriggered != nil && m.LastTriggered.After(cutoff) {
			continue
		}
		if !ConditionMet(m.Condition, snapshot) {
			continue
		}
		won, err := e.repo.Fire(ctx, m.Key, now, cutoff)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if won {
			fired = append(fired, m)
		}
	}
	return fired, errors.Join(errs...)
}
