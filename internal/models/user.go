package models

import "time"

// User is an account record. The profile columns are optional free-text
// attributes collected at signup and used to personalize prompts.
type User struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	Country       string    `json:"country,omitempty"`
	Education     string    `json:"education,omitempty"`
	Interest      string    `json:"interest,omitempty"`
	Budget        string    `json:"budget,omitempty"`
	TimeAvailable string    `json:"time_available,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Profile carries the optional demographic fields that shape prompt text.
// It is not persisted on its own: it is either read off a User record or
// supplied transiently by a guest request.
type Profile struct {
	Country       string `json:"country,omitempty"`
	Education     string `json:"education,omitempty"`
	Interest      string `json:"interest,omitempty"`
	Budget        string `json:"budget,omitempty"`
	TimeAvailable string `json:"time_available,omitempty"`
}
