// Package store provides an interface for product storage operations.
package store

import (
	"context"

	"github.com/servicesdumitrustefan92-cmd/store-management/internal/domain"
	"github.com/shopspring/decimal"
)

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations
// (PostgreSQL in production, in-memory for local runs and tests).
type ProductStore interface {
	// ExistsBySku reports whether a product with the exact SKU is stored.
	ExistsBySku(ctx context.Context, sku string) (bool, error)

	// FindBySku retrieves a single product by its SKU.
	// Returns ErrProductNotFound if no product exists with the given SKU.
	FindBySku(ctx context.Context, sku string) (*domain.Product, error)

	// Create inserts a new product, assigning its identifier.
	// The SKU unique constraint is authoritative: a duplicate insert returns
	// ErrSkuAlreadyExists even when a concurrent writer won the race after
	// the caller's existence pre-check.
	Create(ctx context.Context, sku, name string, price decimal.Decimal, currency string) (*domain.Product, error)

	// UpdatePrice sets a new price on the product with the given SKU and
	// returns the updated record. The read-modify-write is atomic with
	// respect to other writers of the same record.
	// Returns ErrProductNotFound if no product exists with the given SKU.
	UpdatePrice(ctx context.Context, sku string, price decimal.Decimal) (*domain.Product, error)
}
