package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/shopfable/catalog/internal/domain"
	"github.com/shopfable/catalog/pkg/database"
	apperrors "github.com/shopfable/catalog/pkg/errors"
)

// TagRepository implements repository.TagRepository using PostgreSQL.
type TagRepository struct {
	db database.DBTX
}

// NewTagRepository creates a new PostgreSQL-backed tag repository.
func NewTagRepository(db database.DBTX) *TagRepository {
	return &TagRepository{db: db}
}

// Create inserts a new tag. Tag names carry no uniqueness constraint.
func (r *TagRepository) Create(ctx context.Context, t *domain.Tag) error {
	query := `
		INSERT INTO tags (id, name, created_at)
		VALUES ($1, $2, $3)`

	_, err := r.db.Exec(ctx, query, t.ID, t.Name, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert tag: %w", err)
	}

	return nil
}

// GetByID retrieves a tag by its ID.
func (r *TagRepository) GetByID(ctx context.Context, id string) (*domain.Tag, error) {
	query := `
		SELECT id, name, created_at
		FROM tags
		WHERE id = $1`

	return r.scanTag(ctx, query, id)
}

// GetByName retrieves a tag by exact name. With duplicate names the oldest
// tag wins; the seeder relies on this for lookup-or-create.
func (r *TagRepository) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	query := `
		SELECT id, name, created_at
		FROM tags
		WHERE name = $1
		ORDER BY created_at ASC
		LIMIT 1`

	return r.scanTag(ctx, query, name)
}

// ListAll returns every tag ordered by name.
func (r *TagRepository) ListAll(ctx context.Context) ([]domain.Tag, error) {
	query := `
		SELECT id, name, created_at
		FROM tags
		ORDER BY name ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag row: %w", err)
		}
		tags = append(tags, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tag rows: %w", err)
	}

	if tags == nil {
		tags = []domain.Tag{}
	}

	return tags, nil
}

func (r *TagRepository) scanTag(ctx context.Context, query string, args ...any) (*domain.Tag, error) {
	var t domain.Tag

	err := r.db.QueryRow(ctx, query, args...).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan tag: %w", err)
	}

	return &t, nil
}
