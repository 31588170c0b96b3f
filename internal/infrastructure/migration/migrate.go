package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/marketplace/backend/migrations"
	"go.uber.org/zap"
)

// Migrator applies the catalog and cart schema to postgres. Closing it also
// closes the *sql.DB it was built on.
type Migrator struct {
	m      *migrate.Migrate
	source fs.FS
	log    *zap.Logger
}

// Status describes the schema relative to the available migrations
type Status struct {
	Current uint
	Dirty   bool
	Latest  uint
	Pending []string
}

// New builds a Migrator. An empty dir selects the migrations compiled into
// the binary; otherwise the SQL files are read from dir.
func New(db *sql.DB, dir string, log *zap.Logger) (*Migrator, error) {
	if log == nil {
		log = zap.NewNop()
	}

	source, err := sourceFS(dir)
	if err != nil {
		return nil, err
	}
	src, err := iofs.New(source, ".")
	if err != nil {
		return nil, fmt.Errorf("read migration source: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("init migrate: %w", err)
	}

	return &Migrator{m: m, source: source, log: log}, nil
}

func sourceFS(dir string) (fs.FS, error) {
	if dir == "" {
		return migrations.FS, nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("migrations directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("migrations path %s is not a directory", dir)
	}
	return os.DirFS(dir), nil
}

// apply runs one migrate operation, treating "nothing to do" as success,
// and logs the resulting schema version.
func (m *Migrator) apply(op string, run func() error, fields ...zap.Field) error {
	m.log.Info("Migrating", append([]zap.Field{zap.String("op", op)}, fields...)...)

	err := run()
	if errors.Is(err, migrate.ErrNoChange) {
		m.log.Info("Schema already up to date", zap.String("op", op))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", op, err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.log.Info("Migration finished",
		zap.String("op", op),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

// Up applies every pending migration
func (m *Migrator) Up() error {
	return m.apply("up", m.m.Up)
}

// Down rolls every migration back, dropping the cart and catalog tables
func (m *Migrator) Down() error {
	return m.apply("down", m.m.Down)
}

// Steps moves n migrations forward, or back when n is negative
func (m *Migrator) Steps(n int) error {
	return m.apply("steps", func() error { return m.m.Steps(n) }, zap.Int("steps", n))
}

// GoTo migrates up or down to version
func (m *Migrator) GoTo(version uint) error {
	return m.apply("goto", func() error { return m.m.Migrate(version) }, zap.Uint("target", version))
}

// Version returns the applied version, zero when the schema is empty
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, dirty, nil
}

// Status compares the applied version with the migration source
func (m *Migrator) Status() (Status, error) {
	current, dirty, err := m.Version()
	if err != nil {
		return Status{}, err
	}
	names, err := ListMigrations(m.source)
	if err != nil {
		return Status{}, err
	}
	return statusOf(current, dirty, names), nil
}

func statusOf(current uint, dirty bool, names []string) Status {
	st := Status{Current: current, Dirty: dirty}
	for _, name := range names {
		v, err := parseVersion(name)
		if err != nil {
			continue
		}
		version := uint(v)
		if version > st.Latest {
			st.Latest = version
		}
		if version > current {
			st.Pending = append(st.Pending, name)
		}
	}
	return st
}

// Force records version as applied without running anything. It clears the
// dirty flag left by a failed migration.
func (m *Migrator) Force(version int) error {
	m.log.Warn("Forcing schema version", zap.Int("version", version))
	if err := m.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Drop removes every table, including carts and the version table
func (m *Migrator) Drop() error {
	m.log.Warn("Dropping all marketplace tables")
	if err := m.m.Drop(); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	return nil
}

// Close releases the source and the database connection
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.m.Close()
	return errors.Join(sourceErr, dbErr)
}
