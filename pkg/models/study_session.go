package models

import (
	"database/sql"
	"time"
)

// StudySession is one logged reading session. Sessions are the raw data
// the progress snapshot and the recommendation aggregator are computed
// from.
type StudySession struct {
	ID          int64         `json:"id" db:"id"`
	FileID      sql.NullInt64 `json:"file_id" db:"file_id"`
	TopicID     sql.NullInt64 `json:"topic_id" db:"topic_id"`
	Pages       int           `json:"pages" db:"pages"`
	Minutes     int           `json:"minutes" db:"minutes"`
	SessionDate string        `json:"session_date" db:"session_date"` // YYYY-MM-DD
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
}
