// Package domain holds the product entity, the business validation rules
// and the typed failures shared by the service and storage layers.
package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the stored product record. The ID is assigned by the store
// and never leaves the service layer; callers identify products by SKU.
type Product struct {
	ID       uuid.UUID
	SKU      string
	Name     string
	Price    decimal.Decimal
	Currency string
}
