package entity

import (
	"time"

	"github.com/google/uuid"
)

// Rating bounds for product reviews.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a buyer's verdict on a purchased product. At most one review
// exists per (user, product); resubmission overwrites rating and comment
// in place.
type Review struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	Rating    int // Integer in [MinRating, MaxRating].
	Comment   string
	Reviewer  *Reviewer // Public display fields of the author; populated on read paths.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Reviewer is the public projection of a review's author.
type Reviewer struct {
	Name      string
	AvatarURL string
}

// ValidRating reports whether a rating falls inside the allowed range.
func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}
