// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/servicesdumitrustefan92-cmd/store-management/internal/domain"
	"github.com/servicesdumitrustefan92-cmd/store-management/internal/store"
	"github.com/shopspring/decimal"
)

func init() {
	// Price fields render as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// Create validates the request, enforces SKU uniqueness and persists a
	// new product. Returns *domain.ValidationError when any field violates
	// the domain rules and domain.ErrSkuAlreadyExists when the SKU is taken.
	Create(ctx context.Context, request ProductCreateDto) (*ProductDto, error)

	// FindBySku retrieves a single product by its SKU.
	// Returns domain.ErrProductNotFound if no product exists with the given SKU.
	FindBySku(ctx context.Context, sku string) (*ProductDto, error)

	// ChangePrice validates the new price and applies it to the product with
	// the given SKU. Returns *domain.ValidationError for a non-positive or
	// missing price and domain.ErrProductNotFound for an unknown SKU.
	ChangePrice(ctx context.Context, sku string, request PriceChangeDto) (*ProductDto, error)
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository store.ProductStore
	rules      *domain.Rules
}

// NewService creates a new instance of ProductService with the provided repository.
func NewService(repo store.ProductStore) *Service {
	return &Service{
		repository: repo,
		rules:      domain.NewRules(),
	}
}

// ProductCreateDto represents the data transfer object for creating a new product.
type ProductCreateDto struct {
	Sku      string           `json:"sku"      validate:"required,sku"`
	Name     string           `json:"name"     validate:"required,min=2,max=120"`
	Price    *decimal.Decimal `json:"price"    validate:"required,gt=0"`
	Currency string           `json:"currency" validate:"required,currency_code"`
}

// PriceChangeDto represents the data transfer object for changing a product's price.
type PriceChangeDto struct {
	NewPrice *decimal.Decimal `json:"newPrice" validate:"required,gt=0"`
}

// ProductDto is the public projection of a product.
// The internal identifier is deliberately absent.
type ProductDto struct {
	Sku      string          `json:"sku"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
}

// Create trims and validates the request, checks SKU uniqueness and persists
// the product. The existence pre-check is best effort; the store's unique
// constraint is authoritative and a lost race still reports the same conflict.
func (s *Service) Create(ctx context.Context, request ProductCreateDto) (*ProductDto, error) {
	request.Sku = strings.TrimSpace(request.Sku)
	request.Name = strings.TrimSpace(request.Name)
	request.Currency = strings.TrimSpace(request.Currency)

	if err := s.rules.Validate(request); err != nil {
		return nil, err
	}

	exists, err := s.repository.ExistsBySku(ctx, request.Sku)
	if err != nil {
		return nil, fmt.Errorf("failed to check sku %s: %w", request.Sku, err)
	}
	if exists {
		return nil, domain.ErrSkuAlreadyExists
	}

	created, err := s.repository.Create(ctx, request.Sku, request.Name, *request.Price, request.Currency)
	if err != nil {
		// domain.ErrSkuAlreadyExists passes through unchanged when a
		// concurrent creator won the race after the pre-check.
		return nil, fmt.Errorf("failed to create product %s: %w", request.Sku, err)
	}

	return toDto(created), nil
}

// FindBySku retrieves a product by its SKU and returns it as a ProductDto.
// Returns domain.ErrProductNotFound if no product exists with the given SKU.
func (s *Service) FindBySku(ctx context.Context, sku string) (*ProductDto, error) {
	product, err := s.repository.FindBySku(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by sku %s: %w", sku, err)
	}

	return toDto(product), nil
}

// ChangePrice validates the new price and persists it on the product with the
// given SKU. The store applies the read-modify-write atomically.
func (s *Service) ChangePrice(ctx context.Context, sku string, request PriceChangeDto) (*ProductDto, error) {
	if err := s.rules.Validate(request); err != nil {
		return nil, err
	}

	updated, err := s.repository.UpdatePrice(ctx, sku, *request.NewPrice)
	if err != nil {
		return nil, fmt.Errorf("failed to change price for sku %s: %w", sku, err)
	}

	return toDto(updated), nil
}

// toDto converts a domain.Product to its public projection.
func toDto(product *domain.Product) *ProductDto {
	return &ProductDto{
		Sku:      product.SKU,
		Name:     product.Name,
		Price:    product.Price,
		Currency: product.Currency,
	}
}
