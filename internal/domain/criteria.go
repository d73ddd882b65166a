package domain

// SearchInput is the raw, loosely-shaped search request as collaborators
// hand it over. Two shapes are accepted per filter dimension:
//
//   - resolved references: *Category / Category values (or *Tag / Tag
//     elements) carrying an identifier, as produced by a caller that has
//     already looked the entity up;
//   - plain strings, interpreted as names to match exactly at query time.
//
// Tags must be homogeneous within one call; the shape of the first element
// decides how the whole sequence is interpreted. Missing or empty fields
// mean "no filter on this dimension".
type SearchInput struct {
	Search   string
	Category any
	Tags     []any
}

// Criteria is the canonical, shape-resolved form consumed by the store.
// For each dimension at most one of the id/name variants is populated.
// CategoryName matching is exact and case-sensitive, deliberately distinct
// from the case-insensitive uniqueness rule applied at write time.
type Criteria struct {
	SearchTerm   string
	CategoryID   string
	CategoryName string
	TagIDs       []string
	TagNames     []string
}

// IsEmpty reports whether no filter dimension is set, in which case a
// search returns every product.
func (c Criteria) IsEmpty() bool {
	return c.SearchTerm == "" &&
		c.CategoryID == "" && c.CategoryName == "" &&
		len(c.TagIDs) == 0 && len(c.TagNames) == 0
}

// Normalize reduces a SearchInput to canonical Criteria. It never fails:
// values of unrecognized types are treated as absent, and empty
// strings/sequences degrade to "no filter". The shape probe happens here,
// once, so the query engine never inspects input types.
func Normalize(in SearchInput) Criteria {
	c := Criteria{SearchTerm: in.Search}

	switch v := in.Category.(type) {
	case *Category:
		if v != nil {
			c.CategoryID = v.ID
		}
	case Category:
		c.CategoryID = v.ID
	case string:
		c.CategoryName = v
	}

	if len(in.Tags) == 0 {
		return c
	}

	// The sequence is homogeneous by construction; probe the first element.
	switch in.Tags[0].(type) {
	case *Tag, Tag:
		for _, raw := range in.Tags {
			switch t := raw.(type) {
			case *Tag:
				if t != nil {
					c.TagIDs = append(c.TagIDs, t.ID)
				}
			case Tag:
				c.TagIDs = append(c.TagIDs, t.ID)
			}
		}
	case string:
		for _, raw := range in.Tags {
			if s, ok := raw.(string); ok {
				c.TagNames = append(c.TagNames, s)
			}
		}
	}

	return c
}

// CriteriaByNames builds canonical criteria from the string-shaped request
// used by the JSON search endpoint: category and tags are names, not ids.
func CriteriaByNames(search, categoryName string, tagNames []string) Criteria {
	in := SearchInput{Search: search}
	if categoryName != "" {
		in.Category = categoryName
	}
	for _, name := range tagNames {
		in.Tags = append(in.Tags, name)
	}
	return Normalize(in)
}

// CriteriaByIDs builds canonical criteria from identifier-shaped input, the
// resolved-reference flow. Empty ids are treated as absent, for the category
// ref and for each tag ref alike.
func CriteriaByIDs(search, categoryID string, tagIDs []string) Criteria {
	in := SearchInput{Search: search}
	if categoryID != "" {
		in.Category = &Category{ID: categoryID}
	}
	for _, id := range tagIDs {
		if id == "" {
			continue
		}
		in.Tags = append(in.Tags, &Tag{ID: id})
	}
	return Normalize(in)
}
