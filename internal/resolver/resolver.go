// Package resolver maps the active category selector to a catalog listing
// request and tracks per-tab results across in-flight fetches.
package resolver

import (
	"fmt"
	"net/url"

	"spice-storefront/internal/model"
)

// All is the synthetic selector meaning "no category filter".
const All = "all"

// DefaultLimit is the listing size used when no limit is given.
const DefaultLimit = 20

// Target is the listing request chosen for a selector.
type Target struct {
	// Selector is the selector the request was made for. Results are cached
	// under this value even when resolution fell back to the unscoped listing.
	Selector     string
	Scoped       bool
	CategorySlug string
	Limit        int
}

// Path returns the API path and query for the target.
func (t Target) Path() string {
	if t.Scoped {
		return fmt.Sprintf("/api/products/category/%s?limit=%d", url.PathEscape(t.CategorySlug), t.Limit)
	}
	return fmt.Sprintf("/api/products?limit=%d", t.Limit)
}

// NormalizeSelector maps the empty selector to All.
func NormalizeSelector(selector string) string {
	if selector == "" {
		return All
	}
	return selector
}

// Resolve picks the listing request for selector. A nil category list is
// treated as still loading. Unknown selectors fall back to the unscoped
// listing rather than failing.
func Resolve(selector string, categories []model.Category, limit int) Target {
	selector = NormalizeSelector(selector)
	if limit <= 0 {
		limit = DefaultLimit
	}

	t := Target{Selector: selector, Limit: limit}
	if selector == All {
		return t
	}

	cat, ok := Lookup(selector, categories)
	if !ok || cat.Slug == "" || cat.Slug == All {
		return t
	}

	t.Scoped = true
	t.CategorySlug = cat.Slug
	return t
}

// Lookup finds a category by identifier.
func Lookup(selector string, categories []model.Category) (model.Category, bool) {
	for _, c := range categories {
		if c.ID.String() == selector {
			return c, true
		}
	}
	return model.Category{}, false
}
