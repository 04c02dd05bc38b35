package milestones

import (
	"testing"

	"github.com/example/studybot/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestConditionMetSingleMetric(t *testing.T) {
	condition := models.TriggerCondition{models.MetricTotalHours: 10}

	assert.False(t, ConditionMet(condition, models.ProgressSnapshot{TotalHours: 9.9}))
	assert.True(t, ConditionMet(condition, models.ProgressSnapshot{TotalHours: 10}))
	assert.True(t, ConditionMet(condition, models.ProgressSnapshot{TotalHours: 10.1}))
}

func TestConditionMetAnyMetricSuffices(t *testing.T) {
	// Two thresholds: meeting either one alone must fire
	condition := models.TriggerCondition{
		models.MetricTotalHours: 1,
		models.MetricTotalPages: 1000,
	}

	hoursOnly := models.ProgressSnapshot{TotalHours: 2, TotalPages: 0}
	assert.True(t, ConditionMet(condition, hoursOnly), "meeting the hours threshold alone must satisfy the condition")

	pagesOnly := models.ProgressSnapshot{TotalHours: 0, TotalPages: 1500}
	assert.True(t, ConditionMet(condition, pagesOnly), "meeting the pages threshold alone must satisfy the condition")

	neither := models.ProgressSnapshot{TotalHours: 0.5, TotalPages: 500}
	assert.False(t, ConditionMet(condition, neither))
}

func TestConditionMetEmptyConditionNeverFires(t *testing.T) {
	huge := models.ProgressSnapshot{TotalHours: 10000, TotalPages: 100000, CurrentStreak: 365}

	assert.False(t, ConditionMet(models.TriggerCondition{}, huge))
	assert.False(t, ConditionMet(nil, huge))
}

func TestConditionMetIgnoresAbsentMetrics(t *testing.T) {
	// Only streak is present; hours and pages must not be consulted
	condition := models.TriggerCondition{models.MetricStreakDays: 7}

	snapshot := models.ProgressSnapshot{TotalHours: 100, TotalPages: 5000, CurrentStreak: 3}
	assert.False(t, ConditionMet(condition, snapshot))

	snapshot.CurrentStreak = 7
	assert.True(t, ConditionMet(condition, snapshot))
}

func TestConditionMetZeroThreshold(t *testing.T) {
	condition := models.TriggerCondition{models.MetricTotalPages: 0}

	// A zero threshold is satisfied by a fresh snapshot
	assert.True(t, ConditionMet(condition, models.ProgressSnapshot{}))
}
