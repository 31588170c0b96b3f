package persistence

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestNewDatabase_SQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver:          config.DriverSQLite,
		Path:            filepath.Join(t.TempDir(), "marketplace.db"),
		ConnMaxLifetime: time.Hour,
	}

	db, err := NewDatabase(cfg)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.AutoMigrate())
	assert.True(t, db.DB.Migrator().HasTable("cart_items"))
	assert.True(t, db.DB.Migrator().HasTable("product_variations"))
	assert.NoError(t, db.PingContext(context.Background()))

	pool, err := db.DB.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, pool.Stats().MaxOpenConnections)

	require.NoError(t, db.Close())
	assert.Error(t, db.PingContext(context.Background()))
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	_, err := NewDatabase(&config.DatabaseConfig{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestNewDatabase_UnreachablePostgres(t *testing.T) {
	_, err := NewDatabase(&config.DatabaseConfig{
		Host:     "127.0.0.1",
		Port:     1,
		User:     "marketplace",
		DBName:   "marketplace",
		SSLMode:  "disable",
		Password: "x",
	})
	assert.ErrorContains(t, err, "postgres database")
}

func TestDatabase_PingContext(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer mockDB.Close()

	// gorm pings once while opening
	mock.ExpectPing()
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), &gorm.Config{})
	require.NoError(t, err)
	db := &Database{DB: gormDB}

	mock.ExpectPing()
	assert.NoError(t, db.PingContext(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("connection reset"))
	assert.ErrorContains(t, db.PingContext(context.Background()), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}
