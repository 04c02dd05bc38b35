package models

import (
	"database/sql"
	"time"
)

// DailyRecommendation is a dated study suggestion produced by the
// aggregation routine. Completion is one-way: once IsCompleted is set it
// stays set, there is no un-complete operation.
type DailyRecommendation struct {
	ID          int64         `json:"id" db:"id"`
	Date        string        `json:"date" db:"date"` // YYYY-MM-DD
	FileID      sql.NullInt64 `json:"file_id" db:"file_id"`
	TopicID     sql.NullInt64 `json:"topic_id" db:"topic_id"`
	Priority    int           `json:"priority" db:"priority"` // higher = more urgent
	IsCompleted bool          `json:"is_completed" db:"is_completed"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
}

// TodayRecommendation is a recommendation row enriched with display data
// from the referenced file and topic. Missing references leave the
// enrichment fields null rather than failing the read.
type TodayRecommendation struct {
	DailyRecommendation
	FileName  sql.NullString `json:"file_name" db:"file_name"`
	TopicName sql.NullString `json:"topic_name" db:"topic_name"`
	TopicIcon sql.NullString `json:"topic_icon" db:"topic_icon"`
}
