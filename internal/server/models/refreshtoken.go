package models

import "time"

// RefreshToken is a server-stored opaque token exchanged for a new access token.
type RefreshToken struct {
	ID        string
	AccountID string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}
