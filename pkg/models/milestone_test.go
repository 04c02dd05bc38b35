package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTriggerConditionValidate(t *testing.T) {
	ok := TriggerCondition{
		MetricTotalHours: 10,
		MetricTotalPages: 100,
		MetricStreakDays: 7,
	}
	assert.NoError(t, ok.Validate())
	assert.NoError(t, TriggerCondition{}.Validate())

	unknown := TriggerCondition{"coffee_cups": 3}
	assert.Error(t, unknown.Validate())

	negative := TriggerCondition{MetricTotalHours: -1}
	assert.Error(t, negative.Validate())
}

func TestProgressSnapshotMetricValue(t *testing.T) {
	s := ProgressSnapshot{TotalHours: 2.5, TotalPages: 40, CurrentStreak: 3}

	assert.Equal(t, 2.5, s.MetricValue(MetricTotalHours))
	assert.Equal(t, 40.0, s.MetricValue(MetricTotalPages))
	assert.Equal(t, 3.0, s.MetricValue(MetricStreakDays))
	assert.Equal(t, 0.0, s.MetricValue(Metric("unknown")))
}

func TestProgressSnapshotValidate(t *testing.T) {
	assert.NoError(t, ProgressSnapshot{}.Validate())
	assert.Error(t, ProgressSnapshot{TotalHours: -0.1}.Validate())
	assert.Error(t, ProgressSnapshot{TotalPages: -1}.Validate())
	assert.Error(t, ProgressSnapshot{CurrentStreak: -1}.Validate())
}
