package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sweet is a catalog entry. Quantity never drops below zero; the
// purchase path decrements it with a single conditional write.
type Sweet struct {
	ID        string
	Name      string
	Category  string
	Price     decimal.Decimal
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// InStock reports whether at least one unit can be sold.
func (s *Sweet) InStock() bool {
	return s.Quantity > 0
}
