package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/migration"
	"github.com/marketplace/backend/migrations"
	"go.uber.org/zap"
)

const defaultCreateDir = "migrations"

var errUsage = errors.New("invalid arguments")

// schemaCommand runs against an open migrator
type schemaCommand struct {
	usage string
	run   func(m *migration.Migrator, args []string, log *zap.Logger) error
}

var schemaCommands = map[string]schemaCommand{
	"up":   {"up", func(m *migration.Migrator, _ []string, _ *zap.Logger) error { return m.Up() }},
	"down": {"down", func(m *migration.Migrator, _ []string, _ *zap.Logger) error { return m.Down() }},
	"step": {"step <n>", func(m *migration.Migrator, args []string, _ *zap.Logger) error {
		n, err := intArg(args)
		if err != nil {
			return err
		}
		return m.Steps(n)
	}},
	"goto": {"goto <version>", func(m *migration.Migrator, args []string, _ *zap.Logger) error {
		n, err := intArg(args)
		if err != nil || n < 0 {
			return errUsage
		}
		return m.GoTo(uint(n))
	}},
	"force": {"force <version>", func(m *migration.Migrator, args []string, _ *zap.Logger) error {
		n, err := intArg(args)
		if err != nil {
			return err
		}
		return m.Force(n)
	}},
	"drop": {"drop -confirm", func(m *migration.Migrator, args []string, _ *zap.Logger) error {
		if !slices.Contains(args, "-confirm") && !slices.Contains(args, "--confirm") {
			return fmt.Errorf("%w: drop deletes every cart and product, pass -confirm", errUsage)
		}
		return m.Drop()
	}},
	"status":  {"status", status},
	"version": {"version", status},
}

func main() {
	migrationsPath := flag.String("path", "", "Read migrations from this directory instead of the embedded set")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{
		Level:      *logLevel,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}

	err = run(args[0], args[1:], *migrationsPath, log)
	_ = log.Sync()
	if errors.Is(err, errUsage) {
		fmt.Fprintf(os.Stderr, "migrate %s: %v\n\n", args[0], err)
		printUsage()
		os.Exit(2)
	}
	if err != nil {
		log.Error("Migration command failed", zap.String("command", args[0]), zap.Error(err))
		os.Exit(1)
	}
}

func run(command string, args []string, dir string, log *zap.Logger) error {
	// create and list never touch the database
	switch command {
	case "create":
		return create(args, dir, log)
	case "list":
		return list(dir)
	}

	cmd, ok := schemaCommands[command]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("database driver %q: SQL migrations only target postgres, the server auto-migrates sqlite", cfg.Database.Driver)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("connect to %s:%d: %w", cfg.Database.Host, cfg.Database.Port, err)
	}

	m, err := migration.New(db, dir, log)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() {
		if cerr := m.Close(); cerr != nil {
			log.Warn("Closing migrator", zap.Error(cerr))
		}
	}()

	log.Debug("Running migration command", zap.String("command", cmd.usage), zap.String("path", dir))
	return cmd.run(m, args, log)
}

func create(args []string, dir string, log *zap.Logger) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: create needs a name", errUsage)
	}
	description := ""
	if len(args) > 1 {
		description = args[1]
	}
	if dir == "" {
		dir = defaultCreateDir
	}

	mf, err := migration.CreateMigration(dir, args[0], description)
	if err != nil {
		return err
	}
	log.Info("Migration created",
		zap.String("version", mf.Version),
		zap.String("up", mf.UpPath),
		zap.String("down", mf.DownPath),
	)
	return nil
}

func list(dir string) error {
	var source fs.FS = migrations.FS
	if dir != "" {
		source = os.DirFS(dir)
	}
	names, err := migration.ListMigrations(source)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func status(m *migration.Migrator, _ []string, log *zap.Logger) error {
	st, err := m.Status()
	if err != nil {
		return err
	}
	fmt.Printf("current: %d\nlatest:  %d\ndirty:   %t\n", st.Current, st.Latest, st.Dirty)
	for _, name := range st.Pending {
		fmt.Println("pending:", name)
	}
	if st.Dirty {
		log.Warn("Schema is dirty; fix the failed migration and run force <version>")
	}
	return nil
}

func intArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: missing number", errUsage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errUsage, args[0])
	}
	return n, nil
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Marketplace schema migrations (postgres)

Usage:
  migrate [-path dir] [-log-level level] <command> [arguments]

Commands:
  up                    apply every pending migration
  down                  roll every migration back
  step <n>              apply n migrations, or roll back when n is negative
  goto <version>        migrate up or down to version
  status                show the applied, latest and pending versions
  force <version>       mark version as applied and clear the dirty flag
  drop -confirm         drop every table, carts included
  create <name> [desc]  write an empty migration pair (default dir ./migrations)
  list                  list available migrations

The database is taken from the server configuration, for example
MKT_DATABASE_HOST, MKT_DATABASE_PORT, MKT_DATABASE_USER,
MKT_DATABASE_PASSWORD, MKT_DATABASE_DBNAME and MKT_DATABASE_SSLMODE.
`)
}
