package models

import "time"

type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// Message is one stored turn half. Messages are immutable once
// written; conversation order is (created_at, id) ascending.
type Message struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"session_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"timestamp"`
}
