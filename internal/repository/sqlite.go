package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mmeshcher/slug-shortener/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS links (
	id TEXT PRIMARY KEY,
	slug TEXT NOT NULL UNIQUE,
	url TEXT NOT NULL,
	created_at DATETIME NOT NULL
);`

type SQLiteRepository struct {
	db     *sqlx.DB
	sb     squirrel.StatementBuilderType
	logger *zap.Logger
}

func NewSQLiteRepository(ctx context.Context, path string, logger *zap.Logger) (*SQLiteRepository, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// single writer: concurrent inserts queue on the pool instead of failing with SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	logger.Info("SQLite repository initialized successfully", zap.String("path", path))

	return &SQLiteRepository{
		db:     db,
		sb:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		logger: logger,
	}, nil
}

func (s *SQLiteRepository) FindBySlug(ctx context.Context, slug string) (models.Link, bool, error) {
	query, args, err := s.sb.
		Select(linkColumns...).
		From(linksTable).
		Where(squirrel.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return models.Link{}, false, fmt.Errorf("build query: %w", err)
	}

	var link models.Link
	if err := s.db.GetContext(ctx, &link, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Link{}, false, nil
		}
		return models.Link{}, false, fmt.Errorf("query row: %w", err)
	}

	return link, true, nil
}

func (s *SQLiteRepository) Create(ctx context.Context, slug, originalURL string) (models.Link, error) {
	link := models.Link{
		ID:        uuid.NewString(),
		Slug:      slug,
		URL:       originalURL,
		CreatedAt: time.Now().UTC(),
	}

	query, args, err := s.sb.
		Insert(linksTable).
		Columns(linkColumns...).
		Values(link.ID, link.Slug, link.URL, link.CreatedAt).
		ToSql()
	if err != nil {
		return models.Link{}, fmt.Errorf("build query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if isSQLiteUniqueViolation(err) {
			return models.Link{}, fmt.Errorf("insert slug %q: %w", slug, ErrSlugExists)
		}
		return models.Link{}, fmt.Errorf("execute query: %w", err)
	}

	return link, nil
}

func isSQLiteUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func (s *SQLiteRepository) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteRepository) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close sqlite database: %w", err)
	}
	s.logger.Info("SQLite database closed")
	return nil
}
