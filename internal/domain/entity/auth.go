// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProviderType identifies the source of an authentication method.
type ProviderType string

const (
	// ProviderTypeEmail is the password-based credential login.
	ProviderTypeEmail ProviderType = "email"
	// ProviderTypeGoogle is the Google Sign-In OAuth login.
	ProviderTypeGoogle ProviderType = "google"
)

// String returns the string representation of the ProviderType.
func (p ProviderType) String() string {
	return string(p)
}

// Authentication represents a single method of logging in (a credential).
// An email/password signup is one record; a linked Google account is another.
// The same User may hold both.
type Authentication struct {
	ID             uuid.UUID    // The unique ID for this specific authentication record.
	UserID         uuid.UUID    // Links this authentication method to the User it belongs to.
	Provider       ProviderType // The authentication provider, e.g. "email" or "google".
	ProviderUserID string       // The user's unique ID at the provider; the email address for the "email" provider.
	PasswordHash   string       // The bcrypt-hashed password, only set when Provider is "email".
	CreatedAt      time.Time
}

// RefreshToken represents a long-lived, authorized user session. It is used to
// obtain a new access token after the old one expires, without requiring credentials.
type RefreshToken struct {
	ID        uuid.UUID // The unique ID for this refresh token record.
	UserID    uuid.UUID // Links this session to the User it belongs to.
	TokenHash string    // SHA-256 hash of the raw refresh token; the raw token is never stored.
	ExpiresAt time.Time // When this refresh token becomes invalid.
	CreatedAt time.Time
}
