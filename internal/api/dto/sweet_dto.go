package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/sweet-shop-service/internal/domain"
)

// CreateSweetRequest payload. Price is mandatory; a missing quantity
// defaults to zero stock.
type CreateSweetRequest struct {
	Name     string           `json:"name" validate:"required"`
	Category string           `json:"category"`
	Price    *decimal.Decimal `json:"price" validate:"required"`
	Quantity *int             `json:"quantity" validate:"omitempty,gte=0"`
}

// UpdateSweetRequest carries a partial update; absent fields stay untouched.
type UpdateSweetRequest struct {
	Name     *string          `json:"name"`
	Category *string          `json:"category"`
	Price    *decimal.Decimal `json:"price"`
	Quantity *int             `json:"quantity" validate:"omitempty,gte=0"`
}

// SweetResponse is the outward catalog entry shape.
type SweetResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// PurchaseResponse confirms a successful purchase.
type PurchaseResponse struct {
	Message           string `json:"message"`
	RemainingQuantity int    `json:"remainingQuantity"`
}

// MessageResponse wraps plain confirmation messages.
type MessageResponse struct {
	Message string `json:"message"`
}

// NewSweetResponse maps a domain sweet.
func NewSweetResponse(sweet *domain.Sweet) SweetResponse {
	return SweetResponse{
		ID:        sweet.ID,
		Name:      sweet.Name,
		Category:  sweet.Category,
		Price:     sweet.Price,
		Quantity:  sweet.Quantity,
		CreatedAt: sweet.CreatedAt,
		UpdatedAt: sweet.UpdatedAt,
	}
}

// NewSweetResponses maps a slice of domain sweets.
func NewSweetResponses(sweets []domain.Sweet) []SweetResponse {
	items := make([]SweetResponse, 0, len(sweets))
	for i := range sweets {
		items = append(items, NewSweetResponse(&sweets[i]))
	}
	return items
}
