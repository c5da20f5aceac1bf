package store

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/servicesdumitrustefan92-cmd/store-management/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const skipIntegrationTests = "STOREMANAGEMENT_SKIP_INTEGRATION_TESTS"

// ProductStoreSuite is a test suite for the PgStore implementation.
type ProductStoreSuite struct {
	suite.Suite
	pgContainer *postgres.PostgresContainer
	dbPool      *pgxpool.Pool
	store       ProductStore
	logger      *slog.Logger
	ctx         context.Context
}

// SetupSuite starts a PostgreSQL container, applies migrations and builds the store.
func (s *ProductStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	dbName := "store"
	dbUser := "user"
	dbPassword := "password"

	// 1. Start a PostgreSQL container and wait for it to be ready.
	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp"),
		),
	)
	require.NoError(s.T(), err, "Failed to run PostgreSQL container")

	// 2. Get the connection string from the container
	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get connection string from container")

	// 3. Create a pgxpool with decimal codecs registered, as bootstrap does.
	poolCfg, err := pgxpool.ParseConfig(connStr)
	require.NoError(s.T(), err, "Failed to parse connection string")
	poolCfg.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	s.dbPool, err = pgxpool.NewWithConfig(s.ctx, poolCfg)
	require.NoError(s.T(), err, "Failed to create pgxpool")

	for i := range 10 {
		s.logger.Info("Pinging PostgreSQL database", "attempt", i+1)
		err = s.dbPool.Ping(s.ctx)
		if err == nil {
			break
		}
		time.Sleep(time.Second * 2)
	}
	require.NoError(s.T(), err, "Failed to connect to PostgreSQL after retries")

	// 4. Database migration
	wd, _ := os.Getwd()
	migrationsPath := filepath.Join(wd, "..", "..", "db", "migrations")
	sourceURL := "file://" + migrationsPath
	m, err := migrate.New(sourceURL, connStr)
	require.NoError(s.T(), err, "Failed to create migrate instance")
	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		_, _ = m.Close()
		require.NoError(s.T(), err, "Failed to apply migrations")
	}
	s.logger.Info("Migrations applied")

	s.store = NewPgStore(s.dbPool)
	s.logger.Info("Initialization complete for ProductStoreSuite")
}

// TearDownSuite cleans up resources after all tests in the suite have run.
func (s *ProductStoreSuite) TearDownSuite() {
	s.logger.Info("Tearing down suite...")
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.logger.Warn("failed to terminate PostgreSQL container", "error", err)
		}
	}
}

// SetupTest truncates the products table so each test starts clean.
func (s *ProductStoreSuite) SetupTest() {
	_, err := s.dbPool.Exec(s.ctx, "TRUNCATE TABLE products")
	require.NoError(s.T(), err, "Failed to truncate products table")
}

func (s *ProductStoreSuite) TestCreateAndFindBySku() {
	// when
	created, err := s.store.Create(s.ctx, "TV-55-LED-001", "Samsung 55 inch LED TV",
		decimal.RequireFromString("2499.99"), "RON")

	// then
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "TV-55-LED-001", created.SKU)
	assert.NotEmpty(s.T(), created.ID, "database assigns the identifier")

	found, err := s.store.FindBySku(s.ctx, "TV-55-LED-001")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), created.ID, found.ID)
	assert.Equal(s.T(), "Samsung 55 inch LED TV", found.Name)
	assert.True(s.T(), found.Price.Equal(decimal.RequireFromString("2499.99")))
	assert.Equal(s.T(), "RON", found.Currency)
}

func (s *ProductStoreSuite) TestExistsBySku() {
	_, err := s.store.Create(s.ctx, "SKU-123", "Milk 1L", decimal.RequireFromString("12.49"), "RON")
	require.NoError(s.T(), err)

	exists, err := s.store.ExistsBySku(s.ctx, "SKU-123")
	require.NoError(s.T(), err)
	assert.True(s.T(), exists)

	exists, err = s.store.ExistsBySku(s.ctx, "sku-123")
	require.NoError(s.T(), err)
	assert.False(s.T(), exists, "sku matching is case-sensitive")
}

func (s *ProductStoreSuite) TestCreateDuplicateSku() {
	_, err := s.store.Create(s.ctx, "SKU-123", "Milk 1L", decimal.RequireFromString("12.49"), "RON")
	require.NoError(s.T(), err)

	// The unique constraint, not the pre-check, reports the conflict here.
	_, err = s.store.Create(s.ctx, "SKU-123", "Milk 2L", decimal.RequireFromString("20.00"), "RON")
	assert.ErrorIs(s.T(), err, domain.ErrSkuAlreadyExists)

	found, err := s.store.FindBySku(s.ctx, "SKU-123")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Milk 1L", found.Name, "original record unchanged")
}

func (s *ProductStoreSuite) TestFindBySkuNotFound() {
	_, err := s.store.FindBySku(s.ctx, "MISSING")
	assert.ErrorIs(s.T(), err, domain.ErrProductNotFound)
}

func (s *ProductStoreSuite) TestUpdatePrice() {
	_, err := s.store.Create(s.ctx, "SKU-999", "Tea", decimal.RequireFromString("10.00"), "RON")
	require.NoError(s.T(), err)

	updated, err := s.store.UpdatePrice(s.ctx, "SKU-999", decimal.RequireFromString("12.50"))
	require.NoError(s.T(), err)
	assert.True(s.T(), updated.Price.Equal(decimal.RequireFromString("12.50")))
	assert.Equal(s.T(), "Tea", updated.Name)

	found, err := s.store.FindBySku(s.ctx, "SKU-999")
	require.NoError(s.T(), err)
	assert.True(s.T(), found.Price.Equal(decimal.RequireFromString("12.50")))
}

func (s *ProductStoreSuite) TestUpdatePriceNotFound() {
	_, err := s.store.UpdatePrice(s.ctx, "MISSING", decimal.RequireFromString("9.99"))
	assert.ErrorIs(s.T(), err, domain.ErrProductNotFound)
}

func (s *ProductStoreSuite) TestConcurrentUpdatePrice() {
	_, err := s.store.Create(s.ctx, "SKU-999", "Tea", decimal.RequireFromString("10.00"), "RON")
	require.NoError(s.T(), err)

	// Two writers race on the same row; the row lock serializes them and
	// both writes succeed without error.
	prices := []string{"11.11", "22.22"}
	var wg sync.WaitGroup
	for _, p := range prices {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			_, err := s.store.UpdatePrice(s.ctx, "SKU-999", decimal.RequireFromString(p))
			assert.NoError(s.T(), err)
		}(p)
	}
	wg.Wait()

	found, err := s.store.FindBySku(s.ctx, "SKU-999")
	require.NoError(s.T(), err)
	isOneOf := found.Price.Equal(decimal.RequireFromString(prices[0])) ||
		found.Price.Equal(decimal.RequireFromString(prices[1]))
	assert.True(s.T(), isOneOf, "surviving price is one of the concurrent writes")
}

func TestProductStoreSuite(t *testing.T) {
	if os.Getenv(skipIntegrationTests) != "" {
		t.Skipf("Skipping integration tests because %s is set", skipIntegrationTests)
	}
	suite.Run(t, new(ProductStoreSuite))
}
