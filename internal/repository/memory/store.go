// Package memory provides an in-process catalog store. It implements the
// same repository contracts as the PostgreSQL backend and enforces the same
// constraints, so the service layer and handlers run unchanged against it.
// Used for local development and as the backend for handler tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shopfable/catalog/internal/domain"
	apperrors "github.com/shopfable/catalog/pkg/errors"
)

// Store holds the catalog in maps guarded by a single RWMutex. Reads take
// the read lock and may run concurrently; writes are exclusive.
type Store struct {
	mu          sync.RWMutex
	categories  map[string]domain.Category
	tags        map[string]domain.Tag
	products    map[string]domain.Product
	productTags map[string]map[string]struct{}
}

// NewStore creates an empty in-memory catalog store.
func NewStore() *Store {
	return &Store{
		categories:  make(map[string]domain.Category),
		tags:        make(map[string]domain.Tag),
		products:    make(map[string]domain.Product),
		productTags: make(map[string]map[string]struct{}),
	}
}

// Products returns the product repository view of the store.
func (s *Store) Products() *ProductStore { return &ProductStore{s: s} }

// Categories returns the category repository view of the store.
func (s *Store) Categories() *CategoryStore { return &CategoryStore{s: s} }

// Tags returns the tag repository view of the store.
func (s *Store) Tags() *TagStore { return &TagStore{s: s} }

// ─────────────────────────────────────────────────────────────────────────────
// CategoryStore
// ─────────────────────────────────────────────────────────────────────────────

// CategoryStore implements repository.CategoryRepository.
type CategoryStore struct {
	s *Store
}

func (r *CategoryStore) Create(_ context.Context, c *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.categories {
		if strings.EqualFold(existing.Name, c.Name) {
			return apperrors.AlreadyExists("category", "name", c.Name)
		}
	}

	r.s.categories[c.ID] = *c
	return nil
}

func (r *CategoryStore) GetByID(_ context.Context, id string) (*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.categories[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (r *CategoryStore) GetByName(_ context.Context, name string) (*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.categories {
		if c.Name == name {
			c := c
			return &c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *CategoryStore) ListAll(_ context.Context) ([]domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	categories := make([]domain.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

// Delete removes a category and cascades to the products it owns.
func (r *CategoryStore) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[id]; !ok {
		return apperrors.NotFound("category", id)
	}

	delete(r.s.categories, id)
	for pid, p := range r.s.products {
		if p.CategoryID == id {
			delete(r.s.products, pid)
			delete(r.s.productTags, pid)
		}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// TagStore
// ─────────────────────────────────────────────────────────────────────────────

// TagStore implements repository.TagRepository. Tag names carry no
// uniqueness constraint, matching the permissive schema.
type TagStore struct {
	s *Store
}

func (r *TagStore) Create(_ context.Context, t *domain.Tag) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.tags[t.ID] = *t
	return nil
}

func (r *TagStore) GetByID(_ context.Context, id string) (*domain.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tags[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &t, nil
}

// GetByName returns the oldest tag with the given name.
func (r *TagStore) GetByName(_ context.Context, name string) (*domain.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var found *domain.Tag
	for _, t := range r.s.tags {
		if t.Name != name {
			continue
		}
		t := t
		if found == nil || t.CreatedAt.Before(found.CreatedAt) {
			found = &t
		}
	}
	if found == nil {
		return nil, apperrors.ErrNotFound
	}
	return found, nil
}

func (r *TagStore) ListAll(_ context.Context) ([]domain.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tags := make([]domain.Tag, 0, len(r.s.tags))
	for _, t := range r.s.tags {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// ProductStore
// ─────────────────────────────────────────────────────────────────────────────

// ProductStore implements repository.ProductRepository.
type ProductStore struct {
	s *Store
}

func (r *ProductStore) Create(_ context.Context, p *domain.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if p.PriceCents <= 0 || p.StockCount <= 0 {
		return apperrors.InvalidInput("price and stock count must be positive")
	}
	if _, ok := r.s.categories[p.CategoryID]; !ok {
		return apperrors.NotFound("category", p.CategoryID)
	}
	for _, existing := range r.s.products {
		if strings.EqualFold(existing.Name, p.Name) {
			return apperrors.AlreadyExists("product", "name", p.Name)
		}
	}

	stored := *p
	stored.Category = nil
	stored.Tags = nil
	r.s.products[p.ID] = stored
	r.s.productTags[p.ID] = make(map[string]struct{})
	return nil
}

func (r *ProductStore) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	resolved := r.s.resolve(p)
	return &resolved, nil
}

func (r *ProductStore) GetByName(_ context.Context, name string) (*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.products {
		if p.Name == name {
			resolved := r.s.resolve(p)
			return &resolved, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// Search evaluates all populated criteria dimensions against every product.
// Matches are collected into a set keyed by product id before ordering, so a
// product can appear at most once no matter how many of its tags matched.
// Results are ordered by name ascending.
func (r *ProductStore) Search(_ context.Context, criteria domain.Criteria) ([]domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := make(map[string]domain.Product)
	for id, p := range r.s.products {
		if !r.s.matches(p, criteria) {
			continue
		}
		matched[id] = p
	}

	products := make([]domain.Product, 0, len(matched))
	for _, p := range matched {
		products = append(products, r.s.resolve(p))
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

func (r *ProductStore) List(_ context.Context, limit, offset int) ([]domain.Product, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]domain.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	total := len(all)
	if offset >= total {
		return []domain.Product{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}

	page := make([]domain.Product, 0, end-offset)
	for _, p := range all[offset:end] {
		page = append(page, r.s.resolve(p))
	}
	return page, total, nil
}

func (r *ProductStore) AddTag(_ context.Context, productID, tagID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[productID]; !ok {
		return apperrors.NotFound("product", productID)
	}
	if _, ok := r.s.tags[tagID]; !ok {
		return apperrors.NotFound("tag", tagID)
	}

	r.s.productTags[productID][tagID] = struct{}{}
	return nil
}

// Delete removes a product and its tag attachments. The tags themselves
// survive.
func (r *ProductStore) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[id]; !ok {
		return apperrors.NotFound("product", id)
	}
	delete(r.s.products, id)
	delete(r.s.productTags, id)
	return nil
}

// matches reports whether the product satisfies every populated criteria
// dimension. Callers hold at least the read lock.
func (s *Store) matches(p domain.Product, c domain.Criteria) bool {
	if c.SearchTerm != "" {
		term := strings.ToLower(c.SearchTerm)
		inName := strings.Contains(strings.ToLower(p.Name), term)
		// A missing description never matches, same as SQL NULL.
		inDesc := p.Description != nil && strings.Contains(strings.ToLower(*p.Description), term)
		if !inName && !inDesc {
			return false
		}
	}

	if c.CategoryID != "" && p.CategoryID != c.CategoryID {
		return false
	}
	if c.CategoryName != "" {
		cat, ok := s.categories[p.CategoryID]
		if !ok || cat.Name != c.CategoryName {
			return false
		}
	}

	if len(c.TagIDs) > 0 && !s.hasAnyTagID(p.ID, c.TagIDs) {
		return false
	}
	if len(c.TagNames) > 0 && !s.hasAnyTagName(p.ID, c.TagNames) {
		return false
	}

	return true
}

func (s *Store) hasAnyTagID(productID string, ids []string) bool {
	attached := s.productTags[productID]
	for _, id := range ids {
		if _, ok := attached[id]; ok {
			return true
		}
	}
	return false
}

func (s *Store) hasAnyTagName(productID string, names []string) bool {
	for tagID := range s.productTags[productID] {
		tag := s.tags[tagID]
		for _, name := range names {
			if tag.Name == name {
				return true
			}
		}
	}
	return false
}

// resolve returns a copy of the product with its category and sorted tag set
// attached. Callers hold at least the read lock.
func (s *Store) resolve(p domain.Product) domain.Product {
	if cat, ok := s.categories[p.CategoryID]; ok {
		cat := cat
		p.Category = &cat
	}

	tags := make([]domain.Tag, 0, len(s.productTags[p.ID]))
	for tagID := range s.productTags[p.ID] {
		if t, ok := s.tags[tagID]; ok {
			tags = append(tags, t)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	p.Tags = tags
	return p
}
