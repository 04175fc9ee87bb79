package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"spice-storefront/internal/config"
	"spice-storefront/internal/gallery"
	"spice-storefront/internal/media"
	"spice-storefront/internal/model"
	"spice-storefront/internal/pricing"
	"spice-storefront/internal/repository"
	"spice-storefront/internal/sections"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	catalog repository.CatalogRepository
	media   media.Checker
	view    config.ViewConfig
	logger  zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(catalog repository.CatalogRepository, checker media.Checker, view config.ViewConfig, logger zerolog.Logger) ProductService {
	if checker == nil {
		checker = media.NewNopChecker()
	}
	return &productService{
		catalog: catalog,
		media:   checker,
		view:    view,
		logger:  logger.With().Str("service", "product").Logger(),
	}
}

// Detail builds the detail view of a product. Any upstream failure is
// reported as model.ErrProductNotFound.
func (s *productService) Detail(ctx context.Context, slug, selectedImage string) (*model.ProductDetail, error) {
	if slug == "" {
		s.logger.Warn().Msg("product slug is empty")
		return nil, model.ErrProductNotFound
	}

	product, err := s.catalog.ProductBySlug(ctx, slug)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, model.ErrProductNotFound) {
			s.logger.Debug().Str("slug", slug).Msg("product not found")
		} else {
			s.logger.Error().Err(err).Str("slug", slug).Msg("failed to get product")
		}
		return nil, model.ErrProductNotFound
	}

	placeholder := s.view.PlaceholderDetail
	images := gallery.Build(product.Thumbnail, product.Images, placeholder)
	images = gallery.Substitute(images, func(img string) bool {
		return img != placeholder && !s.media.Exists(ctx, img)
	}, placeholder)
	g := gallery.FromImages(images).Select(selectedImage)

	card := pricing.Card(*product, placeholder, s.view.CurrencyLabel)
	card.Image = g.Main

	detail := &model.ProductDetail{
		ProductCard:      card,
		ShortDescription: product.ShortDescription,
		Gallery:          model.GalleryView{Images: g.Images, Main: g.Main},
		Sections:         sections.Interpret(product.Sections, s.logger.With().Str("slug", slug).Logger()),
		OrderLink:        orderLink(s.view.OrderWhatsAppPhone, product.Name, card.Link),
	}

	s.logger.Debug().
		Str("slug", slug).
		Int("images", len(g.Images)).
		Int("sections", len(detail.Sections)).
		Msg("built product detail")

	return detail, nil
}

// orderLink returns a WhatsApp click-to-chat link, or "" when no number is
// configured.
func orderLink(phone, name, link string) string {
	phone = strings.TrimPrefix(strings.TrimSpace(phone), "+")
	if phone == "" {
		return ""
	}
	text := fmt.Sprintf("I'd like to order %s (%s)", name, link)
	return "https://wa.me/" + url.PathEscape(phone) + "?text=" + url.QueryEscape(text)
}
