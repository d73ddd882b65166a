package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopfable/catalog/internal/domain"
	pkgkafka "github.com/shopfable/catalog/pkg/kafka"
)

// Kafka topic constants for catalog domain events.
const (
	TopicProductCreated  = "catalog.product.created"
	TopicProductDeleted  = "catalog.product.deleted"
	TopicCategoryCreated = "catalog.category.created"
	TopicCategoryDeleted = "catalog.category.deleted"
	TopicTagCreated      = "catalog.tag.created"
)

// Aggregate type constants.
const (
	AggregateTypeProduct  = "product"
	AggregateTypeCategory = "category"
	AggregateTypeTag      = "tag"
)

// Source identifier for events originating from the catalog service.
const SourceCatalogService = "catalog-service"

// ProductCreatedData is the payload for a product.created event.
type ProductCreatedData struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	PriceCents  int64    `json:"price_cents"`
	StockCount  int      `json:"stock_count"`
	CategoryID  string   `json:"category_id"`
	TagIDs      []string `json:"tag_ids,omitempty"`
}

// ProductDeletedData is the payload for a product.deleted event.
type ProductDeletedData struct {
	ID string `json:"id"`
}

// CategoryCreatedData is the payload for a category.created event.
type CategoryCreatedData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryDeletedData is the payload for a category.deleted event.
type CategoryDeletedData struct {
	ID string `json:"id"`
}

// TagCreatedData is the payload for a tag.created event.
type TagCreatedData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Producer publishes catalog domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the catalog service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	data := ProductCreatedData{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		PriceCents:  product.PriceCents,
		StockCount:  product.StockCount,
		CategoryID:  product.CategoryID,
	}
	for _, t := range product.Tags {
		data.TagIDs = append(data.TagIDs, t.ID)
	}

	return p.publish(ctx, TopicProductCreated, product.ID, AggregateTypeProduct, data)
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, id string) error {
	return p.publish(ctx, TopicProductDeleted, id, AggregateTypeProduct, ProductDeletedData{ID: id})
}

// PublishCategoryCreated publishes a category.created event.
func (p *Producer) PublishCategoryCreated(ctx context.Context, category *domain.Category) error {
	data := CategoryCreatedData{ID: category.ID, Name: category.Name}
	return p.publish(ctx, TopicCategoryCreated, category.ID, AggregateTypeCategory, data)
}

// PublishCategoryDeleted publishes a category.deleted event.
func (p *Producer) PublishCategoryDeleted(ctx context.Context, id string) error {
	return p.publish(ctx, TopicCategoryDeleted, id, AggregateTypeCategory, CategoryDeletedData{ID: id})
}

// PublishTagCreated publishes a tag.created event.
func (p *Producer) PublishTagCreated(ctx context.Context, tag *domain.Tag) error {
	data := TagCreatedData{ID: tag.ID, Name: tag.Name}
	return p.publish(ctx, TopicTagCreated, tag.ID, AggregateTypeTag, data)
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published catalog event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}
