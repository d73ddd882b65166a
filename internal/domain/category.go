package domain

import (
	"time"
)

// Category groups products. Category names are unique under case-insensitive
// comparison, and a category owns its products: deleting a category deletes
// every product that references it.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCategoryInput holds the parameters for creating a category.
type CreateCategoryInput struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}
