package models

import "time"

// Bookmark marks a page in a study file
type Bookmark struct {
	ID        int64     `json:"id" db:"id"`
	FileID    int64     `json:"file_id" db:"file_id"`
	Page      int       `json:"page" db:"page"`
	Label     string    `json:"label" db:"label"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
