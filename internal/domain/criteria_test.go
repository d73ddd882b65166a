package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_EmptyInput(t *testing.T) {
	c := Normalize(SearchInput{})

	assert.True(t, c.IsEmpty())
	assert.Empty(t, c.SearchTerm)
	assert.Empty(t, c.CategoryID)
	assert.Empty(t, c.CategoryName)
	assert.Empty(t, c.TagIDs)
	assert.Empty(t, c.TagNames)
}

func TestNormalize_CategoryShapes(t *testing.T) {
	tests := []struct {
		name     string
		category any
		wantID   string
		wantName string
	}{
		{"resolved pointer", &Category{ID: "cat-1", Name: "Kitchen"}, "cat-1", ""},
		{"resolved value", Category{ID: "cat-2", Name: "Apparel"}, "cat-2", ""},
		{"plain string is a name, not an id", "Kitchen", "", "Kitchen"},
		{"nil pointer treated as absent", (*Category)(nil), "", ""},
		{"unrecognized type treated as absent", 42, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Normalize(SearchInput{Category: tt.category})
			assert.Equal(t, tt.wantID, c.CategoryID)
			assert.Equal(t, tt.wantName, c.CategoryName)
		})
	}
}

func TestNormalize_TagShapes(t *testing.T) {
	t.Run("resolved tags yield ids", func(t *testing.T) {
		c := Normalize(SearchInput{Tags: []any{
			&Tag{ID: "t-1", Name: "Sale"},
			Tag{ID: "t-2", Name: "New"},
		}})
		assert.Equal(t, []string{"t-1", "t-2"}, c.TagIDs)
		assert.Empty(t, c.TagNames)
	})

	t.Run("string tags yield names", func(t *testing.T) {
		c := Normalize(SearchInput{Tags: []any{"Sale", "New"}})
		assert.Equal(t, []string{"Sale", "New"}, c.TagNames)
		assert.Empty(t, c.TagIDs)
	})

	t.Run("first element decides the shape", func(t *testing.T) {
		c := Normalize(SearchInput{Tags: []any{"Sale", Tag{ID: "t-2"}}})
		assert.Equal(t, []string{"Sale"}, c.TagNames)
		assert.Empty(t, c.TagIDs)
	})

	t.Run("empty sequence means no filter", func(t *testing.T) {
		c := Normalize(SearchInput{Tags: []any{}})
		assert.Empty(t, c.TagIDs)
		assert.Empty(t, c.TagNames)
	})
}

func TestNormalize_PopulatesAtMostOneVariantPerDimension(t *testing.T) {
	c := Normalize(SearchInput{
		Search:   "mug",
		Category: "Kitchen",
		Tags:     []any{&Tag{ID: "t-1"}},
	})

	assert.Equal(t, "mug", c.SearchTerm)
	assert.Empty(t, c.CategoryID)
	assert.Equal(t, "Kitchen", c.CategoryName)
	assert.Equal(t, []string{"t-1"}, c.TagIDs)
	assert.Empty(t, c.TagNames)
}

func TestCriteriaByNames(t *testing.T) {
	c := CriteriaByNames("mug", "Kitchen", []string{"Sale"})

	assert.Equal(t, "mug", c.SearchTerm)
	assert.Equal(t, "Kitchen", c.CategoryName)
	assert.Equal(t, []string{"Sale"}, c.TagNames)
	assert.Empty(t, c.CategoryID)
	assert.Empty(t, c.TagIDs)
}

func TestCriteriaByIDs(t *testing.T) {
	c := CriteriaByIDs("", "cat-1", []string{"t-1", "t-2"})

	assert.Empty(t, c.SearchTerm)
	assert.Equal(t, "cat-1", c.CategoryID)
	assert.Equal(t, []string{"t-1", "t-2"}, c.TagIDs)
	assert.Empty(t, c.CategoryName)
	assert.Empty(t, c.TagNames)
}

func TestCriteriaByIDs_EmptyRefsAreAbsent(t *testing.T) {
	c := CriteriaByIDs("shirt", "", nil)

	assert.Equal(t, "shirt", c.SearchTerm)
	assert.True(t, c.CategoryID == "" && c.CategoryName == "")
	assert.Empty(t, c.TagIDs)
}

func TestCriteriaByIDs_SkipsEmptyTagIDs(t *testing.T) {
	// A bare ?tag_id= query parameter arrives as an empty string; it must
	// not become a tag filter element.
	c := CriteriaByIDs("", "", []string{""})
	assert.True(t, c.IsEmpty())

	c = CriteriaByIDs("", "", []string{"", "t-1", ""})
	assert.Equal(t, []string{"t-1"}, c.TagIDs)
}
