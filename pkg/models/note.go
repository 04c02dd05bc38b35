package models

import "time"

// Note is a free-form note attached to a study file
type Note struct {
	ID        int64     `json:"id" db:"id"`
	FileID    int64     `json:"file_id" db:"file_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
