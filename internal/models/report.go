package models

import "time"

// Report is a generated career document owned by a user. Content is
// stored as markdown or JSON, opaque to this service.
type Report struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
