package domain

import (
	"time"
)

// Tag is a shared label attached to products via a many-to-many relation.
// A tag outlives any single product, and tag names carry no uniqueness
// constraint at the storage layer (duplicates are tolerated; the seeder
// treats names as de-facto unique via lookup-or-create).
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTagInput holds the parameters for creating a tag.
type CreateTagInput struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}
