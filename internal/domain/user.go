package domain

import "time"

// User is the signed-in account persisted as the current-user record.
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	SessionID  string    `json:"session_id"`
	LoggedInAt time.Time `json:"logged_in_at"`
}
