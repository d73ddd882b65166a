package domain

import (
	"time"
)

// Product is a catalog entry. Product names are unique under
// case-insensitive comparison. Price is integer cents and must be positive;
// stock_count must likewise be strictly positive (the schema CHECK rejects
// zero-stock products). A product belongs to exactly one category and
// carries zero or more shared tags.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	StockCount  int       `json:"stock_count"`
	CategoryID  string    `json:"category_id"`
	Category    *Category `json:"category,omitempty"`
	Tags        []Tag     `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name        string   `json:"name" validate:"required,min=1,max=100"`
	Description *string  `json:"description"`
	PriceCents  int64    `json:"price_cents" validate:"required,gt=0"`
	StockCount  int      `json:"stock_count" validate:"required,gt=0"`
	CategoryID  string   `json:"category_id" validate:"required,uuid"`
	TagIDs      []string `json:"tag_ids" validate:"omitempty,dive,uuid"`
}
