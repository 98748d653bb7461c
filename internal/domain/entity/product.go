package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry owned by a seller account.
// Stock is mutated only by the order workflow, never written directly by handlers.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal // Current list price. Orders snapshot it per line; changing it never rewrites history.
	Stock       int             // Units available. Kept non-negative by the guarded decrement in the order transaction.
	ImageURL    string
	Category    string
	SellerID    uuid.UUID // The User (role SELLER) who owns this product.
	Seller      *SellerSummary
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SellerSummary is the minimal seller projection attached to catalog reads.
type SellerSummary struct {
	ID   uuid.UUID
	Name string
}
