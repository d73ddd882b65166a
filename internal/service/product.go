package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shopfable/catalog/internal/cache"
	"github.com/shopfable/catalog/internal/domain"
	"github.com/shopfable/catalog/internal/event"
	"github.com/shopfable/catalog/internal/repository"
	apperrors "github.com/shopfable/catalog/pkg/errors"
	"github.com/shopfable/catalog/pkg/validator"
)

// ProductService implements the business logic for product operations,
// including the catalog search.
type ProductService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	tags       repository.TagRepository
	cache      cache.SearchCache
	producer   *event.Producer
	logger     *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	tags repository.TagRepository,
	searchCache cache.SearchCache,
	producer *event.Producer,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		tags:       tags,
		cache:      searchCache,
		producer:   producer,
		logger:     logger,
	}
}

// Search resolves the raw input to canonical criteria and returns the
// matching products, name-ordered. Results are served from the search cache
// when present; cache failures fall through to the store.
func (s *ProductService) Search(ctx context.Context, input domain.SearchInput) ([]domain.Product, error) {
	return s.SearchByCriteria(ctx, domain.Normalize(input))
}

// SearchByCriteria runs a search with already-canonical criteria.
func (s *ProductService) SearchByCriteria(ctx context.Context, criteria domain.Criteria) ([]domain.Product, error) {
	if products, err := s.cache.Get(ctx, criteria); err == nil {
		s.logger.DebugContext(ctx, "search cache hit", slog.Int("results", len(products)))
		return products, nil
	} else if !apperrors.IsNotFound(err) {
		s.logger.WarnContext(ctx, "search cache read failed", slog.String("error", err.Error()))
	}

	products, err := s.products.Search(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	if err := s.cache.Set(ctx, criteria, products); err != nil {
		s.logger.WarnContext(ctx, "search cache write failed", slog.String("error", err.Error()))
	}

	return products, nil
}

// CreateProduct creates a product and attaches the requested tags. The
// category and every tag must already exist.
func (s *ProductService) CreateProduct(ctx context.Context, input *domain.CreateProductInput) (*domain.Product, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("category", input.CategoryID)
		}
		return nil, fmt.Errorf("get category for product: %w", err)
	}
	for _, tagID := range input.TagIDs {
		if _, err := s.tags.GetByID(ctx, tagID); err != nil {
			if apperrors.IsNotFound(err) {
				return nil, apperrors.NotFound("tag", tagID)
			}
			return nil, fmt.Errorf("get tag for product: %w", err)
		}
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
		PriceCents:  input.PriceCents,
		StockCount:  input.StockCount,
		CategoryID:  input.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	for _, tagID := range input.TagIDs {
		if err := s.products.AddTag(ctx, product.ID, tagID); err != nil {
			return nil, fmt.Errorf("attach tag %s: %w", tagID, err)
		}
	}

	created, err := s.products.GetByID(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("reload created product: %w", err)
	}

	s.invalidateSearchCache(ctx)

	if err := s.producer.PublishProductCreated(ctx, created); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", created.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", created.ID),
		slog.String("name", created.Name),
	)

	return created, nil
}

// GetProduct retrieves a product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

// ListProducts returns a page of products with the total count.
func (s *ProductService) ListProducts(ctx context.Context, page, perPage int) ([]domain.Product, int, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	products, total, err := s.products.List(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

// DeleteProduct removes a product by its ID. Attached tags survive.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.invalidateSearchCache(ctx)

	if err := s.producer.PublishProductDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted", slog.String("product_id", id))
	return nil
}

func (s *ProductService) invalidateSearchCache(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "search cache invalidation failed", slog.String("error", err.Error()))
	}
}
