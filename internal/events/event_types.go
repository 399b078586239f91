package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/sweet-shop-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventSweetCreated   EventType = "sweet_created"
	EventSweetUpdated   EventType = "sweet_updated"
	EventSweetDeleted   EventType = "sweet_deleted"
	EventSweetPurchased EventType = "sweet_purchased"
	EventStockDepleted  EventType = "stock_depleted"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SweetID   string      `json:"sweet_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// SweetCreatedPayload payload.
type SweetCreatedPayload struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// SweetPurchasedPayload payload.
type SweetPurchasedPayload struct {
	Name      string `json:"name"`
	Remaining int    `json:"remaining"`
}

// StockDepletedPayload payload.
type StockDepletedPayload struct {
	Name string `json:"name"`
}
