package models

import "fmt"

// ProgressSnapshot is the aggregate study metrics supplied to the
// milestone engine. It is an input, never persisted.
type ProgressSnapshot struct {
	TotalHours    float64 `json:"total_hours"`
	TotalPages    int     `json:"total_pages"`
	CurrentStreak int     `json:"current_streak"`
}

// Validate rejects malformed snapshots before any store access
func (s ProgressSnapshot) Validate() error {
	if s.TotalHours < 0 {
		return fmt.Errorf("total_hours must not be negative, got %v", s.TotalHours)
	}
	if s.TotalPages < 0 {
		return fmt.Errorf("total_pages must not be negative, got %d", s.TotalPages)
	}
	if s.CurrentStreak < 0 {
		return fmt.Errorf("current_streak must not be negative, got %d", s.CurrentStreak)
	}
	return nil
}

// MetricValue returns the snapshot field backing the given metric
func (s ProgressSnapshot) MetricValue(m Metric) float64 {
	switch m {
	case MetricTotalHours:
		return s.TotalHours
	case MetricTotalPages:
		return float64(s.TotalPages)
	case MetricStreakDays:
		return float64(s.CurrentStreak)
	}
	return 0
}
