package domain

import (
	"errors"
	"strings"
)

// ErrProductNotFound signals a lookup or price change against a SKU with no stored record.
var ErrProductNotFound = errors.New("product not found")

// ErrSkuAlreadyExists signals a create targeting a SKU that is already stored,
// whether detected by the pre-check or by the storage unique constraint.
var ErrSkuAlreadyExists = errors.New("sku already exists")

// ValidationError aggregates every violated field of a request.
// Details are human-readable "field: message" strings, one per violation.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Details, "; ")
}
