package repository

import (
	"context"

	"spice-storefront/internal/model"
)

// CatalogRepository defines read access to the remote catalog API.
// Every method treats the response as untrusted and returns an error rather
// than partial data when the envelope is malformed or unsuccessful.
type CatalogRepository interface {
	// Categories retrieves the category list.
	Categories(ctx context.Context) ([]model.Category, error)

	// Products retrieves the unscoped product listing.
	Products(ctx context.Context, limit int) ([]model.Product, error)

	// ProductsByCategory retrieves the listing scoped to a category slug.
	ProductsByCategory(ctx context.Context, slug string, limit int) ([]model.Product, error)

	// ProductBySlug retrieves a single product.
	// Returns model.ErrProductNotFound when the API has no such product.
	ProductBySlug(ctx context.Context, slug string) (*model.Product, error)

	// Featured retrieves the featured products and page metadata.
	Featured(ctx context.Context) ([]model.Product, *model.PageMeta, error)

	// Latest retrieves the latest products.
	Latest(ctx context.Context, limit int) ([]model.Product, error)

	// LatestSorted retrieves the unscoped listing sorted by recency.
	LatestSorted(ctx context.Context, limit int) ([]model.Product, error)

	// Banners retrieves the home page banners and page metadata.
	Banners(ctx context.Context) ([]model.Banner, *model.PageMeta, error)
}
