package service

import (
	"context"

	"spice-storefront/internal/model"
)

// StorefrontService builds the listing views of the storefront. Upstream
// failures degrade to empty views; only a cancelled context is reported as
// an error.
type StorefrontService interface {
	// Categories retrieves the category list, or an empty list on failure.
	Categories(ctx context.Context) ([]model.Category, error)

	// Shop builds the tabbed listing for selector within a view session.
	Shop(ctx context.Context, sessionID, selector string, limit int) (*model.ShopView, error)

	// Showcase builds the per-category product strips of the home page.
	Showcase(ctx context.Context) ([]model.CategoryShowcase, error)

	// Brands builds the latest-products carousel.
	Brands(ctx context.Context) (*model.ListView, error)

	// Featured builds the featured products listing.
	Featured(ctx context.Context) (*model.ListView, error)

	// Latest builds the latest products listing.
	Latest(ctx context.Context, limit int) (*model.ListView, error)

	// Banners builds the home page banner slider.
	Banners(ctx context.Context) (*model.BannerView, error)
}

// ProductService defines operations for the product detail page.
type ProductService interface {
	// Detail builds the detail view of a product with selectedImage as the
	// main gallery image when it belongs to the gallery.
	Detail(ctx context.Context, slug, selectedImage string) (*model.ProductDetail, error)
}
