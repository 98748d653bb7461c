// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core identity in the system. It carries no credential data;
// every way of logging in lives in a separate Authentication record, so an
// OAuth-only account is simply a User with no "email" authentication row.
type User struct {
	ID        uuid.UUID // The unique identifier for the user. Immutable after creation.
	Name      string    // The user's display name.
	Email     string    // The user's primary contact email, unique across the system.
	AvatarURL string    // URL to the user's profile picture, usually supplied by an OAuth provider.
	Role      Role      // Whether this account buys or sells on the storefront.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsSeller reports whether the user may own products in the catalog.
func (u *User) IsSeller() bool {
	return u.Role == RoleSeller
}
