package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/logger"
	"github.com/julianstephens/slotbook/internal/migration"
	"github.com/julianstephens/slotbook/migrations"
)

type dialect struct {
	driver        string
	migrationsDir string
	placeholder   sq.PlaceholderFormat
}

var (
	sqliteDialect   = dialect{driver: "sqlite", migrationsDir: "sqlite", placeholder: sq.Question}
	postgresDialect = dialect{driver: "postgres", migrationsDir: "postgres", placeholder: sq.Dollar}
)

// Store is a database/sql bookings store backed by SQLite or PostgreSQL.
type Store struct {
	connStr string
	dialect dialect
	db      *sql.DB
	builder sq.StatementBuilderType
}

// IsPostgres reports whether connStr addresses a PostgreSQL server rather
// than a SQLite file.
func IsPostgres(connStr string) bool {
	return strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://")
}

// New returns a store for connStr. PostgreSQL URLs select the postgres
// driver; anything else is a SQLite file path.
func New(connStr string) (*Store, error) {
	d := sqliteDialect
	if IsPostgres(connStr) {
		if _, err := ValidateConnString(connStr); err != nil {
			return nil, err
		}
		d = postgresDialect
		connStr = withSearchPath(connStr)
	}
	return &Store{
		connStr: connStr,
		dialect: d,
		builder: sq.StatementBuilder.PlaceholderFormat(d.placeholder),
	}, nil
}

// Init opens the database and brings its schema up to date.
func (s *Store) Init(ctx context.Context) error {
	if s.dialect.driver == sqliteDialect.driver {
		if err := os.MkdirAll(filepath.Dir(s.connStr), 0700); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(s.dialect.driver, s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if s.dialect.driver == postgresDialect.driver {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		if _, err := db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+constants.AppName); err != nil {
			db.Close()
			if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(s.connStr) {
				return fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
			}
			return fmt.Errorf("failed to create schema: %w", err)
		}
	} else {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	runner, err := s.migrations(db)
	if err != nil {
		db.Close()
		return err
	}
	if _, err := runner.Apply(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	s.db = db

	logger.Debug("Bookings store ready", "store", s.Describe())
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Describe returns a non-sensitive identifier of the database.
func (s *Store) Describe() string {
	if s.dialect.driver == postgresDialect.driver {
		return "postgresql"
	}
	return s.connStr
}

// SchemaVersion reports the applied and the newest known schema versions.
func (s *Store) SchemaVersion(ctx context.Context) (current, latest int, err error) {
	if s.db == nil {
		return 0, 0, ErrNotInitialized
	}
	runner, err := s.migrations(s.db)
	if err != nil {
		return 0, 0, err
	}
	if err := runner.ValidateVersion(ctx); err != nil {
		return 0, 0, err
	}
	if current, err = runner.CurrentVersion(ctx); err != nil {
		return 0, 0, err
	}
	if latest, err = runner.LatestVersion(); err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}

func (s *Store) migrations(db *sql.DB) (*migration.Runner, error) {
	sub, err := fs.Sub(migrations.FS, s.dialect.migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s migrations: %w", s.dialect.migrationsDir, err)
	}
	return migration.NewRunner(db, sub, s.dialect.placeholder), nil
}
