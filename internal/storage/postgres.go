package storage

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rpattn/metacat/internal/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresConfig holds database configuration.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DefaultPostgresConfig returns a default database configuration.
func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "admin",
		DBName:   "metacat",
		SSLMode:  "disable",
	}
}

func (c PostgresConfig) dsn() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c PostgresConfig) migrateURL() string {
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.DBName,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

// Postgres keeps every document in one metacat_documents table keyed by
// (location, collection). The schema is managed by the embedded migrations.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects, verifies the connection, and brings the schema up to
// date.
func NewPostgres(ctx context.Context, config PostgresConfig) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(config.dsn())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Conservative pool settings; the catalog is a low-traffic client.
	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Minute * 30
	poolConfig.MaxConnIdleTime = time.Minute * 5
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := runMigrations(config.migrateURL()); err != nil {
		pool.Close()
		return nil, err
	}
	return &Postgres{pool: pool}, nil
}

func runMigrations(databaseURL string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to prepare migrations: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

func (p *Postgres) Exists(ctx context.Context, location string) (bool, error) {
	var count int
	err := p.pool.QueryRow(ctx,
		`SELECT count(*) FROM metacat_documents WHERE location = $1`,
		location,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check location: %w", err)
	}
	return count > 0, nil
}

func (p *Postgres) Create(ctx context.Context, location string) error {
	exists, err := p.Exists(ctx, location)
	if err != nil {
		return err
	}
	if exists {
		return alreadyExists(location)
	}
	return p.withTx(ctx, func(tx pgx.Tx) error {
		for _, c := range createCollections {
			if _, err := tx.Exec(ctx,
				`INSERT INTO metacat_documents (location, collection, doc) VALUES ($1, $2, $3)`,
				location, string(c), string(emptyDocument(c)),
			); err != nil {
				return fmt.Errorf("failed to create %s: %w", c, err)
			}
		}
		return nil
	})
}

func (p *Postgres) Read(ctx context.Context, location string, c domain.Collection) ([]byte, error) {
	if err := checkCollection(c); err != nil {
		return nil, err
	}
	var doc []byte
	err := p.pool.QueryRow(ctx,
		`SELECT doc FROM metacat_documents WHERE location = $1 AND collection = $2`,
		location, string(c),
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s in %q", ErrNotFound, c, location)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c, err)
	}
	return doc, nil
}

func (p *Postgres) Write(ctx context.Context, location string, c domain.Collection, doc []byte) error {
	if err := checkCollection(c); err != nil {
		return err
	}
	_, err := p.pool.Exec(ctx,
		`INSERT INTO metacat_documents (location, collection, doc)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (location, collection)
		 DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
		location, string(c), string(doc),
	)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", c, err)
	}
	return nil
}

// withTx executes a function within a database transaction.
func (p *Postgres) withTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %v", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
