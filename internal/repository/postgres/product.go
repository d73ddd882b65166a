package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shopfable/catalog/internal/domain"
	"github.com/shopfable/catalog/pkg/database"
	apperrors "github.com/shopfable/catalog/pkg/errors"
)

const productSelectColumns = `
	p.id, p.name, p.description, p.price_cents, p.stock_count, p.category_id,
	p.created_at, p.updated_at,
	c.id, c.name, c.created_at, c.updated_at`

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	db database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(db database.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a new product. Name uniqueness is case-insensitive; the
// price and stock check constraints surface as invalid input.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (id, name, description, price_cents, stock_count, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.PriceCents,
		p.StockCount,
		p.CategoryID,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product", "name", p.Name)
		}
		if isCheckViolation(err) {
			return apperrors.InvalidInput("price and stock count must be positive")
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by its ID with category and tags resolved.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`, productSelectColumns)

	return r.scanProduct(ctx, query, id)
}

// GetByName retrieves a product by exact name.
func (r *ProductRepository) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.name = $1`, productSelectColumns)

	return r.scanProduct(ctx, query, name)
}

// Search returns products matching all populated criteria dimensions,
// ordered by name ascending. Tag membership is expressed as an EXISTS
// subquery against the join table, so a product matching several tags still
// yields a single row. Empty criteria match every product; id refs that are
// not valid UUIDs match nothing rather than erroring on the uuid cast.
func (r *ProductRepository) Search(ctx context.Context, criteria domain.Criteria) ([]domain.Product, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if criteria.SearchTerm != "" {
		conditions = append(conditions, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+escapeLike(criteria.SearchTerm)+"%")
		argIndex++
	}

	if criteria.CategoryID != "" {
		if _, err := uuid.Parse(criteria.CategoryID); err != nil {
			return []domain.Product{}, nil
		}
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", argIndex))
		args = append(args, criteria.CategoryID)
		argIndex++
	} else if criteria.CategoryName != "" {
		conditions = append(conditions, fmt.Sprintf("c.name = $%d", argIndex))
		args = append(args, criteria.CategoryName)
		argIndex++
	}

	if len(criteria.TagIDs) > 0 {
		tagIDs := validUUIDs(criteria.TagIDs)
		if len(tagIDs) == 0 {
			return []domain.Product{}, nil
		}
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM product_tags pt WHERE pt.product_id = p.id AND pt.tag_id = ANY($%d))", argIndex))
		args = append(args, tagIDs)
		argIndex++
	} else if len(criteria.TagNames) > 0 {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM product_tags pt JOIN tags t ON t.id = pt.tag_id WHERE pt.product_id = p.id AND t.name = ANY($%d))", argIndex))
		args = append(args, criteria.TagNames)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN categories c ON c.id = p.category_id
		%s
		ORDER BY p.name ASC`, productSelectColumns, whereClause)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadTags(ctx, products); err != nil {
		return nil, err
	}

	return products, nil
}

// List returns a page of products with the total count.
func (r *ProductRepository) List(ctx context.Context, limit, offset int) ([]domain.Product, int, error) {
	// Use count(*) OVER() for total count in a single query.
	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM products p
		JOIN categories c ON c.id = p.category_id
		ORDER BY p.name ASC
		LIMIT $1 OFFSET $2`, productSelectColumns)

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var (
		products   []domain.Product
		totalCount int
	)

	for rows.Next() {
		var (
			p   domain.Product
			cat domain.Category
		)

		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.StockCount, &p.CategoryID,
			&p.CreatedAt, &p.UpdatedAt,
			&cat.ID, &cat.Name, &cat.CreatedAt, &cat.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}

		p.Category = &cat
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}

	if products == nil {
		products = []domain.Product{}
	}

	if err := r.loadTags(ctx, products); err != nil {
		return nil, 0, err
	}

	return products, totalCount, nil
}

// AddTag attaches a tag to a product; re-attaching is a no-op.
func (r *ProductRepository) AddTag(ctx context.Context, productID, tagID string) error {
	query := `
		INSERT INTO product_tags (product_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT (product_id, tag_id) DO NOTHING`

	_, err := r.db.Exec(ctx, query, productID, tagID)
	if err != nil {
		return fmt.Errorf("attach tag: %w", err)
	}

	return nil
}

// Delete removes a product. Join-table rows go with it via ON DELETE
// CASCADE; the tags themselves survive.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM products WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}

	return nil
}

// scanProduct executes a query expected to return a single product row and
// resolves its tags.
func (r *ProductRepository) scanProduct(ctx context.Context, query string, args ...any) (*domain.Product, error) {
	var (
		p   domain.Product
		cat domain.Category
	)

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.StockCount, &p.CategoryID,
		&p.CreatedAt, &p.UpdatedAt,
		&cat.ID, &cat.Name, &cat.CreatedAt, &cat.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	p.Category = &cat

	products := []domain.Product{p}
	if err := r.loadTags(ctx, products); err != nil {
		return nil, err
	}

	return &products[0], nil
}

// loadTags resolves the tag sets for the given products in one batch query
// and assigns them in place.
func (r *ProductRepository) loadTags(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}

	query := `
		SELECT pt.product_id, t.id, t.name, t.created_at
		FROM product_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.product_id = ANY($1)
		ORDER BY t.name ASC`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("load product tags: %w", err)
	}
	defer rows.Close()

	byProduct := make(map[string][]domain.Tag)
	for rows.Next() {
		var (
			productID string
			t         domain.Tag
		)
		if err := rows.Scan(&productID, &t.ID, &t.Name, &t.CreatedAt); err != nil {
			return fmt.Errorf("scan product tag row: %w", err)
		}
		byProduct[productID] = append(byProduct[productID], t)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate product tag rows: %w", err)
	}

	for i := range products {
		tags := byProduct[products[i].ID]
		if tags == nil {
			tags = []domain.Tag{}
		}
		products[i].Tags = tags
	}

	return nil
}

// escapeLike escapes LIKE metacharacters so the search term is matched as a
// literal substring.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// validUUIDs drops values that cannot be cast to the uuid column type. They
// can never identify a row, so filtering matches the memory backend instead
// of failing the query.
func validUUIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			out = append(out, id)
		}
	}
	return out
}

func collectProducts(rows pgx.Rows) ([]domain.Product, error) {
	var products []domain.Product

	for rows.Next() {
		var (
			p   domain.Product
			cat domain.Category
		)

		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.StockCount, &p.CategoryID,
			&p.CreatedAt, &p.UpdatedAt,
			&cat.ID, &cat.Name, &cat.CreatedAt, &cat.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}

		p.Category = &cat
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	if products == nil {
		products = []domain.Product{}
	}

	return products, nil
}
