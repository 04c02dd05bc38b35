package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Metric is the name of a progress metric a milestone can watch.
type Metric string

const (
	MetricTotalHours Metric = "total_hours"
	MetricTotalPages Metric = "total_pages"
	MetricStreakDays Metric = "streak_days"
)

// knownMetrics is the closed set of metrics a trigger condition may reference
var knownMetrics = map[Metric]bool{
	MetricTotalHours: true,
	MetricTotalPages: true,
	MetricStreakDays: true,
}

// TriggerCondition maps metric names to thresholds. A milestone fires when
// ANY present threshold is reached; metrics are independently sufficient,
// not combined. An empty condition never fires.
type TriggerCondition map[Metric]float64

// Validate rejects unknown metric names and negative thresholds
func (c TriggerCondition) Validate() error {
	for metric, threshold := range c {
		if !knownMetrics[metric] {
			return fmt.Errorf("unknown metric %q in trigger condition", metric)
		}
		if threshold < 0 {
			return fmt.Errorf("negative threshold %v for metric %q", threshold, metric)
		}
	}
	return nil
}

// Value serializes the condition as JSON for storage
func (c TriggerCondition) Value() (driver.Value, error) {
	if c == nil {
		return "{}", nil
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan deserializes the condition from its stored JSON form
func (c *TriggerCondition) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*c = TriggerCondition{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into TriggerCondition", src)
	}
	return json.Unmarshal(data, c)
}

// Milestone is an achievement definition with a trigger condition and
// fire history. Definitions are seeded once and only the trigger engine
// mutates LastTriggered/TimesTriggered.
type Milestone struct {
	ID                 int64            `json:"id" db:"id"`
	Key                string           `json:"key" db:"key"`
	Title              string           `json:"title" db:"title"`
	Description        string           `json:"description" db:"description"`
	CelebrationMessage string           `json:"celebration_message" db:"celebration_message"`
	Icon               string           `json:"icon" db:"icon"`
	Condition          TriggerCondition `json:"trigger_condition" db:"trigger_condition"`
	XPBonus            int              `json:"xp_bonus" db:"xp_bonus"`
	LastTriggered      *time.Time       `json:"last_triggered" db:"last_triggered"`
	TimesTriggered     int              `json:"times_triggered" db:"times_triggered"`
	CreatedAt          time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at" db:"updated_at"`
}
