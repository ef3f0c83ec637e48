package storage

import "time"

// Credentials is the durable client-side record of an authenticated session:
// the opaque bearer token plus the minimal user identity needed to restore
// state at startup.
type Credentials struct {
	Token        string    `json:"token"`
	UserID       int       `json:"user_id"`
	Username     string    `json:"username"`
	ProfileImage string    `json:"profile_image,omitempty"`
	SavedAt      time.Time `json:"saved_at"`
}
