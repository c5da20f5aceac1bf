package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/servicesdumitrustefan92-cmd/store-management/internal/domain"
	"github.com/shopspring/decimal"
)

// MemStore implements ProductStore using a mutex-guarded map keyed by SKU.
// It gives the same contract as PgStore, including duplicate-sku rejection,
// so local runs and handler tests behave like the real store.
type MemStore struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

// NewMemStore creates a new in-memory ProductStore.
func NewMemStore() *MemStore {
	return &MemStore{
		products: make(map[string]domain.Product),
	}
}

// ExistsBySku reports whether a product with the exact SKU is stored.
func (s *MemStore) ExistsBySku(_ context.Context, sku string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.products[sku]
	return ok, nil
}

// FindBySku retrieves a product by its SKU.
func (s *MemStore) FindBySku(_ context.Context, sku string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[sku]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

// Create inserts a new product with a fresh identifier.
// The map key doubles as the unique constraint.
func (s *MemStore) Create(_ context.Context, sku, name string, price decimal.Decimal, currency string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[sku]; ok {
		return nil, domain.ErrSkuAlreadyExists
	}
	product := domain.Product{
		ID:       uuid.New(),
		SKU:      sku,
		Name:     name,
		Price:    price,
		Currency: currency,
	}
	s.products[sku] = product
	return &product, nil
}

// UpdatePrice sets a new price under the write lock, so the read-modify-write
// is atomic with respect to other writers.
func (s *MemStore) UpdatePrice(_ context.Context, sku string, price decimal.Decimal) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[sku]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p.Price = price
	s.products[sku] = p
	return &p, nil
}
