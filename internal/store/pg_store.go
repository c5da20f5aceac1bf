package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/servicesdumitrustefan92-cmd/store-management/internal/domain"
	"github.com/shopspring/decimal"
)

const uniqueViolationCode = "23505"

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

// ExistsBySku reports whether a product with the exact SKU is stored.
func (p *PgStore) ExistsBySku(ctx context.Context, sku string) (bool, error) {
	var exists bool
	err := p.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE sku = $1)`, sku,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check sku existence: %w", err)
	}
	return exists, nil
}

// FindBySku retrieves a product by its SKU.
// Returns ErrProductNotFound if no product exists with the given SKU.
func (p *PgStore) FindBySku(ctx context.Context, sku string) (*domain.Product, error) {
	var product domain.Product
	err := p.db.QueryRow(ctx,
		`SELECT id, sku, name, price, currency FROM products WHERE sku = $1`, sku,
	).Scan(&product.ID, &product.SKU, &product.Name, &product.Price, &product.Currency)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by sku: %w", err)
	}
	return &product, nil
}

// Create inserts a new product. The database assigns the identifier.
// A violation of the sku unique constraint maps to ErrSkuAlreadyExists, so
// a create that loses the check-then-insert race still surfaces as a conflict.
func (p *PgStore) Create(ctx context.Context, sku, name string, price decimal.Decimal, currency string) (*domain.Product, error) {
	var product domain.Product
	err := p.db.QueryRow(ctx,
		`INSERT INTO products (sku, name, price, currency)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, sku, name, price, currency`,
		sku, name, price, currency,
	).Scan(&product.ID, &product.SKU, &product.Name, &product.Price, &product.Currency)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrSkuAlreadyExists
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

// UpdatePrice loads the row for update and persists the new price in one
// transaction. A concurrent writer of the same SKU blocks on the row lock
// until commit, so neither write is lost.
// Returns ErrProductNotFound if no product exists with the given SKU.
func (p *PgStore) UpdatePrice(ctx context.Context, sku string, price decimal.Decimal) (*domain.Product, error) {
	var product domain.Product
	txErr := p.withTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`SELECT id FROM products WHERE sku = $1 FOR UPDATE`, sku,
		).Scan(&product.ID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrProductNotFound
			}
			return fmt.Errorf("failed to lock product row: %w", err)
		}
		err = tx.QueryRow(ctx,
			`UPDATE products SET price = $1 WHERE id = $2
			 RETURNING id, sku, name, price, currency`,
			price, product.ID,
		).Scan(&product.ID, &product.SKU, &product.Name, &product.Price, &product.Currency)
		if err != nil {
			return fmt.Errorf("failed to update product price: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &product, nil
}

// withTx runs fn inside a transaction, rolling back on error.
func (p *PgStore) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("failed to rollback transaction: %w", rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
