package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/example/studybot/internal/recommendations"
	"github.com/go-co-op/gocron"
)

// Default hours for the two daily jobs
const (
	DefaultPlanHour     = 8  // morning: generate and announce today's plan
	DefaultReminderHour = 20 // evening: nudge about unfinished items
)

// Notifier delivers scheduler output to the user
type Notifier interface {
	SendDailyPlan(count int) error
	SendReminder(remaining int) error
}

// Scheduler runs the daily recommendation jobs. The recommendation core
// itself has no scheduling; cadence lives here.
type Scheduler struct {
	scheduler *gocron.Scheduler
	manager   *recommendations.Manager
	notifier  Notifier
}

// New creates a new scheduler instance
func New(manager *recommendations.Manager, notifier Notifier) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		manager:   manager,
		notifier:  notifier,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	planAt := fmt.Sprintf("%02d:00", hourFromEnv("PLAN_HOUR", DefaultPlanHour))
	remindAt := fmt.Sprintf("%02d:00", hourFromEnv("REMINDER_HOUR", DefaultReminderHour))

	s.scheduler.Every(1).Day().At(planAt).Do(s.generateDailyPlan)
	s.scheduler.Every(1).Day().At(remindAt).Do(s.remindIncomplete)

	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// hourFromEnv reads an hour override from the environment
func hourFromEnv(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
			return h
		}
		log.Printf("Ignoring invalid %s=%q", name, v)
	}
	return fallback
}

// generateDailyPlan builds today's recommendations and announces them
func (s *Scheduler) generateDailyPlan() {
	ctx := context.Background()

	date, err := s.manager.GenerateForDate(ctx, "")
	if err != nil {
		log.Printf("Error generating recommendations: %v", err)
		return
	}

	recs, _, err := s.manager.ListForToday(ctx)
	if err != nil {
		log.Printf("Error listing recommendations for %s: %v", date, err)
		return
	}
	if len(recs) == 0 {
		return
	}
	if err := s.notifier.SendDailyPlan(len(recs)); err != nil {
		log.Printf("Error sending daily plan: %v", err)
	}
}

// remindIncomplete nudges about recommendations still open today
func (s *Scheduler) remindIncomplete() {
	recs, _, err := s.manager.ListForToday(context.Background())
	if err != nil {
		log.Printf("Error listing recommendations: %v", err)
		return
	}

	remaining := 0
	for _, rec := range recs {
		if !rec.IsCompleted {
			remaining++
		}
	}
	if remaining == 0 {
		return
	}
	if err := s.notifier.SendReminder(remaining); err != nil {
		log.Printf("Error sending reminder: %v", err)
	}
}
