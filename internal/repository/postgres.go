package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/mmeshcher/slug-shortener/internal/models"
)

type PostgresRepository struct {
	pool   *pgxpool.Pool
	sb     squirrel.StatementBuilderType
	logger *zap.Logger
}

// NewPostgresRepository applies pending migrations and opens the process-wide
// connection pool. The caller owns the pool and must call Close on shutdown.
func NewPostgresRepository(ctx context.Context, dsn, migrationsPath string, logger *zap.Logger) (*PostgresRepository, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := runMigrations(dsn, migrationsPath); err != nil {
		return nil, fmt.Errorf("migrations failed: %w", err)
	}
	logger.Info("Migrations applied successfully", zap.String("source", migrationsPath))

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("PostgreSQL repository initialized successfully")

	return &PostgresRepository{
		pool:   pool,
		sb:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		logger: logger,
	}, nil
}

func runMigrations(dsn, migrationsPath string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open database for migrations: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(migrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

func (p *PostgresRepository) FindBySlug(ctx context.Context, slug string) (models.Link, bool, error) {
	query, args, err := p.sb.
		Select(linkColumns...).
		From(linksTable).
		Where(squirrel.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return models.Link{}, false, fmt.Errorf("build query: %w", err)
	}

	var link models.Link
	err = p.pool.QueryRow(ctx, query, args...).Scan(&link.ID, &link.Slug, &link.URL, &link.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Link{}, false, nil
		}
		return models.Link{}, false, fmt.Errorf("query row: %w", err)
	}

	return link, true, nil
}

func (p *PostgresRepository) Create(ctx context.Context, slug, originalURL string) (models.Link, error) {
	query, args, err := p.sb.
		Insert(linksTable).
		Columns("id", "slug", "url").
		Values(uuid.NewString(), slug, originalURL).
		Suffix("RETURNING id, slug, url, created_at").
		ToSql()
	if err != nil {
		return models.Link{}, fmt.Errorf("build query: %w", err)
	}

	var link models.Link
	err = p.pool.QueryRow(ctx, query, args...).Scan(&link.ID, &link.Slug, &link.URL, &link.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return models.Link{}, fmt.Errorf("insert slug %q: %w", slug, ErrSlugExists)
		}
		return models.Link{}, fmt.Errorf("execute query: %w", err)
	}

	return link, nil
}

func (p *PostgresRepository) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresRepository) Close() error {
	p.pool.Close()
	p.logger.Info("PostgreSQL connection pool closed")
	return nil
}
