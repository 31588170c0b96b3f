// Package integration runs the marketplace against real PostgreSQL and Redis
// containers started with testcontainers.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/infrastructure/cache"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/migration"
	"github.com/marketplace/backend/internal/infrastructure/persistence"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

const (
	testDBName     = "marketplace_test"
	testDBUser     = "postgres"
	testDBPassword = "admin123"
)

// TestDB is a migrated PostgreSQL database in its own container
type TestDB struct {
	*persistence.Database
	Config    config.DatabaseConfig
	Container testcontainers.Container
	t         *testing.T
}

// skipInShortMode skips container tests under -short
func skipInShortMode(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
}

// NewTestDB starts a PostgreSQL container and applies the embedded migrations
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	skipInShortMode(t)

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase(testDBName),
		tcpostgres.WithUsername(testDBUser),
		tcpostgres.WithPassword(testDBPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := config.DatabaseConfig{
		Driver:          config.DriverPostgres,
		Host:            host,
		Port:            port.Int(),
		User:            testDBUser,
		Password:        testDBPassword,
		DBName:          testDBName,
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
	}

	runMigrations(t, cfg.DSN())

	gormLevel := gormlogger.Silent
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormLevel = gormlogger.Info
	}
	db, err := persistence.NewDatabaseWithLogger(&cfg, logger.NewGormLogger(zap.NewNop(), gormLevel, time.Second))
	require.NoError(t, err, "Failed to connect to database")
	t.Cleanup(func() { _ = db.Close() })

	return &TestDB{Database: db, Config: cfg, Container: container, t: t}
}

// runMigrations applies the migrations over a dedicated connection, since
// closing the migrator also closes its *sql.DB
func runMigrations(t *testing.T, dsn string) {
	t.Helper()

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)

	m, err := migration.New(sqlDB, "", zap.NewNop())
	require.NoError(t, err, "Failed to create migrator")
	defer m.Close()

	require.NoError(t, m.Up(), "Failed to run migrations")
}

// CleanTables truncates every application table
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()
	for _, table := range []string{"cart_merged_guest_lines", "cart_items", "product_variations", "variation_type_options", "variation_types", "products", "vendors"} {
		require.NoError(tdb.t, tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error)
	}
}

// CreateVendor stores a vendor with the given status
func (tdb *TestDB) CreateVendor(storeName string, status catalog.VendorStatus) *catalog.Vendor {
	tdb.t.Helper()

	vendor := &catalog.Vendor{UserID: uuid.New(), StoreName: storeName, Status: status}
	require.NoError(tdb.t, persistence.NewGormVendorRepository(tdb.DB).Save(context.Background(), vendor))
	return vendor
}

// CreateProduct stores a published product with the given variation types.
// The generated type and option ids are set on the returned product.
func (tdb *TestDB) CreateProduct(vendor *catalog.Vendor, title string, price string, types ...TypeSpec) *catalog.Product {
	tdb.t.Helper()

	product, err := catalog.NewProduct(vendor.UserID, title, decimal.RequireFromString(price))
	require.NoError(tdb.t, err)

	variationTypes := make([]catalog.VariationType, len(types))
	for i, ts := range types {
		vt := catalog.VariationType{Name: ts.Name, Kind: catalog.VariationKindSelect}
		for _, name := range ts.Options {
			vt.Options = append(vt.Options, catalog.VariationOption{Name: name})
		}
		variationTypes[i] = vt
	}
	product.SetVariationTypes(variationTypes)
	product.Publish()

	require.NoError(tdb.t, persistence.NewGormProductRepository(tdb.DB).Save(context.Background(), product))
	return product
}

// TypeSpec describes a variation type to seed
type TypeSpec struct {
	Name    string
	Options []string
}

// OptionID returns the id of the named option of the named type
func OptionID(t *testing.T, p *catalog.Product, typeName, option string) catalog.OptionID {
	t.Helper()
	for _, vt := range p.VariationTypes {
		if vt.Name != typeName {
			continue
		}
		for _, opt := range vt.Options {
			if opt.Name == option {
				return opt.ID
			}
		}
	}
	require.FailNow(t, "option not found", "%s/%s", typeName, option)
	return 0
}

// NewTestRedis starts a Redis container and returns a connected client
func NewTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	skipInShortMode(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	client, err := cache.NewRedisClient(config.RedisConfig{Host: host, Port: port.Int()})
	require.NoError(t, err, "Failed to connect to Redis")
	t.Cleanup(func() { _ = client.Close() })
	return client
}
