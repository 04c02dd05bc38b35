package models

import "time"

// StudyFile represents a document the user is reading
type StudyFile struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Path       string    `json:"path" db:"path"`
	TopicID    int64     `json:"topic_id" db:"topic_id"`
	TotalPages int       `json:"total_pages" db:"total_pages"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
