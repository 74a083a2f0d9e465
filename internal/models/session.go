package models

import "time"

// Session groups the ordered messages of one conversation thread.
// A nil UserID marks a guest session that is not attributable to a user.
type Session struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id,omitempty"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
