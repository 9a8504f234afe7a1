package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is keyed by the email address of the external identity.
type User struct {
	ID          string `json:"id"`
	IsSuperuser bool   `json:"is_superuser"`
	Active      bool   `json:"active"`
}

type RefreshToken struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}
