// Package seed loads an initial catalog from a JSON fixture file. Seeding
// is idempotent: every entity is looked up by name first and only created
// when missing, so re-running against a populated store is a no-op.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/shopfable/catalog/internal/domain"
	"github.com/shopfable/catalog/internal/repository"
	apperrors "github.com/shopfable/catalog/pkg/errors"
)

// File is the fixture file layout. Products reference their category and
// tags by name.
type File struct {
	Categories []CategoryEntry `json:"categories"`
	Tags       []TagEntry      `json:"tags"`
	Products   []ProductEntry  `json:"products"`
}

type CategoryEntry struct {
	Name string `json:"name"`
}

type TagEntry struct {
	Name string `json:"name"`
}

type ProductEntry struct {
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	PriceCents  int64    `json:"price_cents"`
	StockCount  int      `json:"stock_count"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags,omitempty"`
}

// matches reports whether the existing product carries exactly the values
// this entry would create it with.
func (e ProductEntry) matches(p *domain.Product, categoryID string) bool {
	if p.PriceCents != e.PriceCents || p.StockCount != e.StockCount || p.CategoryID != categoryID {
		return false
	}
	switch {
	case e.Description == nil && p.Description == nil:
		return true
	case e.Description == nil || p.Description == nil:
		return false
	default:
		return *e.Description == *p.Description
	}
}

// Summary reports what a seeding run created versus found in place.
type Summary struct {
	CategoriesCreated int
	TagsCreated       int
	ProductsCreated   int
	Skipped           int
}

// Seeder applies fixture files to the catalog store.
type Seeder struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	tags       repository.TagRepository
	logger     *slog.Logger
}

// New creates a seeder over the given repositories.
func New(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	tags repository.TagRepository,
	logger *slog.Logger,
) *Seeder {
	return &Seeder{
		products:   products,
		categories: categories,
		tags:       tags,
		logger:     logger,
	}
}

// LoadFile reads and parses a fixture file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	return &f, nil
}

// Apply seeds the store from the fixture. Categories and tags are resolved
// first so products can reference them by name; a product naming an unknown
// category or tag is an error, since the fixture is expected to be
// self-contained.
func (s *Seeder) Apply(ctx context.Context, f *File) (*Summary, error) {
	summary := &Summary{}

	categoryIDs := make(map[string]string, len(f.Categories))
	for _, entry := range f.Categories {
		id, created, err := s.ensureCategory(ctx, entry.Name)
		if err != nil {
			return summary, err
		}
		categoryIDs[entry.Name] = id
		if created {
			summary.CategoriesCreated++
		}
	}

	tagIDs := make(map[string]string, len(f.Tags))
	for _, entry := range f.Tags {
		id, created, err := s.ensureTag(ctx, entry.Name)
		if err != nil {
			return summary, err
		}
		tagIDs[entry.Name] = id
		if created {
			summary.TagsCreated++
		}
	}

	for _, entry := range f.Products {
		created, err := s.ensureProduct(ctx, entry, categoryIDs, tagIDs)
		if err != nil {
			return summary, err
		}
		if created {
			summary.ProductsCreated++
		} else {
			summary.Skipped++
		}
	}

	s.logger.InfoContext(ctx, "seed applied",
		slog.Int("categories_created", summary.CategoriesCreated),
		slog.Int("tags_created", summary.TagsCreated),
		slog.Int("products_created", summary.ProductsCreated),
		slog.Int("products_skipped", summary.Skipped),
	)

	return summary, nil
}

func (s *Seeder) ensureCategory(ctx context.Context, name string) (string, bool, error) {
	existing, err := s.categories.GetByName(ctx, name)
	if err == nil {
		return existing.ID, false, nil
	}
	if !apperrors.IsNotFound(err) {
		return "", false, fmt.Errorf("look up category %q: %w", name, err)
	}

	now := time.Now().UTC()
	category := &domain.Category{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return "", false, fmt.Errorf("create category %q: %w", name, err)
	}
	return category.ID, true, nil
}

func (s *Seeder) ensureTag(ctx context.Context, name string) (string, bool, error) {
	existing, err := s.tags.GetByName(ctx, name)
	if err == nil {
		return existing.ID, false, nil
	}
	if !apperrors.IsNotFound(err) {
		return "", false, fmt.Errorf("look up tag %q: %w", name, err)
	}

	tag := &domain.Tag{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.tags.Create(ctx, tag); err != nil {
		return "", false, fmt.Errorf("create tag %q: %w", name, err)
	}
	return tag.ID, true, nil
}

func (s *Seeder) ensureProduct(ctx context.Context, entry ProductEntry, categoryIDs, tagIDs map[string]string) (bool, error) {
	categoryID, ok := categoryIDs[entry.Category]
	if !ok {
		return false, fmt.Errorf("product %q references unknown category %q", entry.Name, entry.Category)
	}

	existing, err := s.products.GetByName(ctx, entry.Name)
	if err == nil {
		// Idempotence is keyed by the full field set: an identical repeat
		// is a no-op, a same-name entry with different fields is a conflict.
		if !entry.matches(existing, categoryID) {
			return false, fmt.Errorf("seed product %q: %w", entry.Name,
				apperrors.AlreadyExists("product", "name", entry.Name))
		}
		return false, nil
	}
	if !apperrors.IsNotFound(err) {
		return false, fmt.Errorf("look up product %q: %w", entry.Name, err)
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		Name:        entry.Name,
		Description: entry.Description,
		PriceCents:  entry.PriceCents,
		StockCount:  entry.StockCount,
		CategoryID:  categoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return false, fmt.Errorf("create product %q: %w", entry.Name, err)
	}

	for _, tagName := range entry.Tags {
		tagID, ok := tagIDs[tagName]
		if !ok {
			return false, fmt.Errorf("product %q references unknown tag %q", entry.Name, tagName)
		}
		if err := s.products.AddTag(ctx, product.ID, tagID); err != nil {
			return false, fmt.Errorf("attach tag %q to product %q: %w", tagName, entry.Name, err)
		}
	}

	return true, nil
}
