package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shopfable/catalog/internal/domain"
	"github.com/shopfable/catalog/internal/event"
	"github.com/shopfable/catalog/internal/repository"
	"github.com/shopfable/catalog/pkg/validator"
)

// TagService implements the business logic for tag operations.
type TagService struct {
	tags     repository.TagRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(tags repository.TagRepository, producer *event.Producer, logger *slog.Logger) *TagService {
	return &TagService{
		tags:     tags,
		producer: producer,
		logger:   logger,
	}
}

// CreateTag creates a new tag.
func (s *TagService) CreateTag(ctx context.Context, input *domain.CreateTagInput) (*domain.Tag, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	tag := &domain.Tag{
		ID:        uuid.New().String(),
		Name:      input.Name,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}

	if err := s.producer.PublishTagCreated(ctx, tag); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish tag.created event",
			slog.String("tag_id", tag.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "tag created",
		slog.String("tag_id", tag.ID),
		slog.String("name", tag.Name),
	)

	return tag, nil
}

// GetTag retrieves a tag by its ID.
func (s *TagService) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	tag, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get tag by id: %w", err)
	}
	return tag, nil
}

// ListTags returns every tag ordered by name.
func (s *TagService) ListTags(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.tags.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}
