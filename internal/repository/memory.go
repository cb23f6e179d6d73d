package repository

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/slug-shortener/internal/models"
)

// MemoryRepository keeps links in a map. When storagePath is set every created
// link is appended to that file as one JSON line and the file is replayed on start.
type MemoryRepository struct {
	mu          sync.RWMutex
	links       map[string]models.Link
	storagePath string
	file        *os.File
	logger      *zap.Logger
}

func NewMemoryRepository(storagePath string, logger *zap.Logger) (*MemoryRepository, error) {
	r := &MemoryRepository{
		links:       make(map[string]models.Link),
		storagePath: storagePath,
		logger:      logger,
	}

	if storagePath == "" {
		return r, nil
	}

	if err := r.loadFromFile(); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(storagePath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open storage file: %w", err)
	}
	r.file = file

	logger.Info("File storage loaded",
		zap.String("path", storagePath),
		zap.Int("links", len(r.links)))

	return r, nil
}

func (r *MemoryRepository) loadFromFile() error {
	file, err := os.Open(r.storagePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open storage file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}

		var link models.Link
		if err := json.Unmarshal(scanner.Bytes(), &link); err != nil {
			r.logger.Warn("Skipping malformed storage record",
				zap.String("path", r.storagePath),
				zap.Int("line", line),
				zap.Error(err))
			continue
		}
		r.links[link.Slug] = link
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read storage file: %w", err)
	}

	return nil
}

func (r *MemoryRepository) FindBySlug(ctx context.Context, slug string) (models.Link, bool, error) {
	if err := ctx.Err(); err != nil {
		return models.Link{}, false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	link, ok := r.links[slug]
	return link, ok, nil
}

func (r *MemoryRepository) Create(ctx context.Context, slug, originalURL string) (models.Link, error) {
	if err := ctx.Err(); err != nil {
		return models.Link{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.links[slug]; exists {
		return models.Link{}, fmt.Errorf("insert slug %q: %w", slug, ErrSlugExists)
	}

	link := models.Link{
		ID:        uuid.NewString(),
		Slug:      slug,
		URL:       originalURL,
		CreatedAt: time.Now().UTC(),
	}

	if r.file != nil {
		if err := json.NewEncoder(r.file).Encode(link); err != nil {
			return models.Link{}, fmt.Errorf("append to storage file: %w", err)
		}
	}

	r.links[slug] = link
	return link, nil
}

func (r *MemoryRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *MemoryRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}

	err := r.file.Close()
	r.file = nil
	return err
}
