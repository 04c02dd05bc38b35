package milestones

import "github.com/example/studybot/pkg/models"

// ConditionMet reports whether a trigger condition is satisfied by the
// snapshot. Each metric present in the condition is checked on its own
// and any single satisfied threshold is enough: metrics are OR-ed, not
// AND-ed. An empty condition is never satisfied. Metrics absent from the
// condition are never checked at all.
func ConditionMet(condition models.TriggerCondition, snapshot models.ProgressSnapshot) bool {
	for metric, threshold := range condition {
		if snapshot.MetricValue(metric) >= threshold {
			return true
		}
	}
	return false
}
