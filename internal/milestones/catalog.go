package milestones

import "github.com/example/studybot/pkg/models"

// DefaultCatalog returns the built-in milestone definitions. Order
// matters: it is the order CheckMilestones evaluates and reports in.
func DefaultCatalog() []models.Milestone {
	return []models.Milestone{
		{
			Key:                "first_steps",
			Title:              "First Steps",
			Description:        "Log your first half hour of study time",
			CelebrationMessage: "You showed up, and that's the hardest part!",
			Icon:               "🌱",
			Condition:          models.TriggerCondition{models.MetricTotalHours: 0.5},
			XPBonus:            10,
		},
		{
			Key:                "page_turner",
			Title:              "Page Turner",
			Description:        "Read 100 pages in total",
			CelebrationMessage: "100 pages down. The stack is shrinking!",
			Icon:               "📖",
			Condition:          models.TriggerCondition{models.MetricTotalPages: 100},
			XPBonus:            25,
		},
		{
			Key:                "ten_hours",
			Title:              "Deep Diver",
			Description:        "Accumulate 10 hours of study time",
			CelebrationMessage: "10 hours of focus. It's becoming a habit.",
			Icon:               "⏱️",
			Condition:          models.TriggerCondition{models.MetricTotalHours: 10},
			XPBonus:            50,
		},
		{
			Key:                "week_streak",
			Title:              "Seven in a Row",
			Description:        "Study every day for a week",
			CelebrationMessage: "A full week without missing a day!",
			Icon:               "🔥",
			Condition:          models.TriggerCondition{models.MetricStreakDays: 7},
			XPBonus:            75,
		},
		{
			Key:                "marathon_reader",
			Title:              "Marathon Reader",
			Description:        "Read 500 pages in total",
			CelebrationMessage: "500 pages. That's a serious book shelf.",
			Icon:               "🏃",
			Condition:          models.TriggerCondition{models.MetricTotalPages: 500},
			XPBonus:            100,
		},
		{
			Key:   "dedicated",
			Title: "Dedicated",
			Description: "Put in 50 hours of study time or keep a " +
				"two-week streak going",
			CelebrationMessage: "Whichever road you took, you earned this one.",
			Icon:               "🏆",
			Condition: models.TriggerCondition{
				models.MetricTotalHours: 50,
				models.MetricStreakDays: 14,
			},
			XPBonus: 150,
		},
		{
			Key:                "month_streak",
			Title:              "Iron Discipline",
			Description:        "Study every day for 30 days",
			CelebrationMessage: "30 straight days. Nothing can stop you now.",
			Icon:               "💎",
			Condition:          models.TriggerCondition{models.MetricStreakDays: 30},
			XPBonus:            300,
		},
	}
}
