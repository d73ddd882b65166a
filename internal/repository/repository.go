package repository

import (
	"context"

	"github.com/shopfable/catalog/internal/domain"
)

// ProductRepository defines product persistence operations.
//
// Search is the query engine's storage contract: given canonical criteria it
// returns products ordered by name ascending, each appearing exactly once
// regardless of how many tags matched, with the category and full tag set
// already resolved. Unknown ids or names in the criteria match nothing; they
// are never an error.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	// GetByName matches the stored name exactly (case-sensitive); used by
	// the seeder's lookup-or-create path.
	GetByName(ctx context.Context, name string) (*domain.Product, error)
	Search(ctx context.Context, criteria domain.Criteria) ([]domain.Product, error)
	// List returns a page of products with the total count, for the admin
	// listing endpoint.
	List(ctx context.Context, limit, offset int) ([]domain.Product, int, error)
	// AddTag attaches a tag to a product; attaching an already-attached tag
	// is a no-op.
	AddTag(ctx context.Context, productID, tagID string) error
	Delete(ctx context.Context, id string) error
}

// CategoryRepository defines category persistence operations. Delete
// cascades to the products owned by the category.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	ListAll(ctx context.Context) ([]domain.Category, error)
	Delete(ctx context.Context, id string) error
}

// TagRepository defines tag persistence operations. Tags are shared and are
// never deleted as a side effect of product deletion.
type TagRepository interface {
	Create(ctx context.Context, tag *domain.Tag) error
	GetByID(ctx context.Context, id string) (*domain.Tag, error)
	GetByName(ctx context.Context, name string) (*domain.Tag, error)
	ListAll(ctx context.Context) ([]domain.Tag, error)
}
