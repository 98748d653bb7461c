package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the fulfillment state of an order.
type OrderStatus string

const (
	// OrderStatusPending is the initial state for cash-on-delivery orders.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusProcessing is the initial state for online-payment orders.
	OrderStatusProcessing OrderStatus = "processing"
	// OrderStatusShipped means the order has left the seller.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered means the order reached the buyer.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCompleted is a terminal state some fulfillment flows use after delivery.
	OrderStatusCompleted OrderStatus = "completed"
	// OrderStatusCancelled means the order was abandoned before fulfillment.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// String returns the string representation of the OrderStatus.
func (s OrderStatus) String() string {
	return string(s)
}

// ReviewableStatuses are the order states that count as a verified purchase
// for the review-eligibility gate.
func ReviewableStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusDelivered, OrderStatusCompleted}
}

// PaymentMethod identifies how the buyer chose to pay.
type PaymentMethod string

const (
	// PaymentMethodCOD is cash on delivery.
	PaymentMethodCOD PaymentMethod = "cod"
	// PaymentMethodOnline is an online payment. No gateway is wired; the label
	// only selects the initial order status.
	PaymentMethodOnline PaymentMethod = "online"
)

// IsValid checks if the PaymentMethod is a known value.
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentMethodCOD, PaymentMethodOnline:
		return true
	default:
		return false
	}
}

// InitialStatus derives the status a freshly placed order starts in.
func (p PaymentMethod) InitialStatus() OrderStatus {
	if p == PaymentMethodCOD {
		return OrderStatusPending
	}

	return OrderStatusProcessing
}

// ShippingAddress is the structured destination captured at checkout.
// It is serialized to JSON and stored as text on the order row.
type ShippingAddress struct {
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
	Phone    string `json:"phone"`
}

// Order is a single checkout, created exactly once and never edited by the
// buyer afterwards. Status transitions happen in fulfillment flows outside
// this service but are checked by the review gate.
type Order struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	TotalAmount     decimal.Decimal
	Status          OrderStatus
	ShippingAddress ShippingAddress
	PaymentMethod   PaymentMethod
	Items           []*OrderItem
	CreatedAt       time.Time
}

// OrderItem is one cart line of an order. Price is a snapshot of the product
// price at purchase time, copied rather than referenced, so later product
// price changes do not retroactively alter historical orders.
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Price     decimal.Decimal
	Product   *OrderItemProduct // Minimal product projection for order listings; nil on write paths.
}

// OrderItemProduct is the product projection embedded in order reads.
type OrderItemProduct struct {
	Name     string
	ImageURL string
}
