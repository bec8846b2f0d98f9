package model

import "time"

// User represents an identity record. The password hash is opaque and never
// leaves the process; JSON marshalling always drops it.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
