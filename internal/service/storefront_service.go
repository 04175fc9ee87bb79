package service

import (
	"context"
	"time"

	"spice-storefront/internal/config"
	"spice-storefront/internal/model"
	"spice-storefront/internal/pricing"
	"spice-storefront/internal/repository"
	"spice-storefront/internal/resolver"
	"spice-storefront/internal/session"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const (
	maxListingLimit = 100

	showcaseCategories = 4
	showcaseProducts   = 8

	brandsFetchLimit = 20
	brandsShown      = 12

	defaultLatestLimit = 4

	allProductsLabel = "All Products"
)

// storefrontService implements StorefrontService.
type storefrontService struct {
	catalog repository.CatalogRepository
	store   session.Store
	seq     *resolver.Sequencer
	view    config.ViewConfig
	now     func() time.Time
	logger  zerolog.Logger
}

// NewStorefrontService creates a new storefront service.
func NewStorefrontService(
	catalog repository.CatalogRepository,
	store session.Store,
	seq *resolver.Sequencer,
	view config.ViewConfig,
	logger zerolog.Logger,
) StorefrontService {
	return &storefrontService{
		catalog: catalog,
		store:   store,
		seq:     seq,
		view:    view,
		now:     time.Now,
		logger:  logger.With().Str("service", "storefront").Logger(),
	}
}

// Categories retrieves the category list, or an empty list on failure.
func (s *storefrontService) Categories(ctx context.Context) ([]model.Category, error) {
	categories := s.categories(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *storefrontService) categories(ctx context.Context) []model.Category {
	categories, err := s.catalog.Categories(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load categories, continuing without them")
		return []model.Category{}
	}
	return categories
}

// Shop builds the tabbed listing for selector. Every call performs a fresh
// fetch for its selector; results of other tabs come from the session's
// stored slots.
func (s *storefrontService) Shop(ctx context.Context, sessionID, selector string, limit int) (*model.ShopView, error) {
	selector = resolver.NormalizeSelector(selector)
	if limit <= 0 {
		limit = s.view.ListingLimit
	}
	if limit > maxListingLimit {
		limit = maxListingLimit
	}

	view := resolver.FromSlots(s.loadSlots(ctx, sessionID))
	view, ticket := view.Begin(selector, s.seq.Next())

	var (
		categories []model.Category
		products   []model.Product
		fetchErr   error
		target     resolver.Target
	)

	if selector == resolver.All {
		// The unscoped listing does not depend on the category list.
		var g errgroup.Group
		g.Go(func() error {
			categories = s.categories(ctx)
			return nil
		})
		g.Go(func() error {
			products, fetchErr = s.catalog.Products(ctx, limit)
			return nil
		})
		_ = g.Wait()
		target = resolver.Resolve(selector, categories, limit)
	} else {
		categories = s.categories(ctx)
		target = resolver.Resolve(selector, categories, limit)
		products, fetchErr = s.list(ctx, target)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if fetchErr != nil {
		s.logger.Warn().
			Err(fetchErr).
			Str("selector", selector).
			Bool("scoped", target.Scoped).
			Msg("failed to load listing")
		view = view.Fail(ticket)
	} else {
		view = view.Settle(ticket, products, s.now())
		if persistable(selector, categories) {
			s.persist(ctx, sessionID, ticket, view)
		} else {
			s.logger.Debug().Str("selector", selector).Msg("not persisting unknown selector")
		}
	}

	display := view.Display()
	cards := pricing.Cards(display.Products, s.view.PlaceholderCard, s.view.CurrencyLabel)

	cached := view.Cached()
	delete(cached, selector)

	return &model.ShopView{
		Selector:   selector,
		Scoped:     target.Scoped,
		Categories: categoryTabs(categories, display.Products, selector),
		Products:   cards,
		Total:      len(cards),
		Cached:     cached,
		Status:     statusOf(len(cards)),
	}, nil
}

func (s *storefrontService) list(ctx context.Context, target resolver.Target) ([]model.Product, error) {
	if target.Scoped {
		return s.catalog.ProductsByCategory(ctx, target.CategorySlug, target.Limit)
	}
	return s.catalog.Products(ctx, target.Limit)
}

func (s *storefrontService) loadSlots(ctx context.Context, sessionID string) map[string]resolver.Slot {
	if sessionID == "" {
		return nil
	}
	slots, err := s.store.Load(ctx, sessionID)
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to load tab cache")
		return nil
	}
	return slots
}

// persistable reports whether selector names a tab worth keeping across
// requests: the All tab or a category from the current list.
func persistable(selector string, categories []model.Category) bool {
	if selector == resolver.All {
		return true
	}
	_, ok := resolver.Lookup(selector, categories)
	return ok
}

// persist stores the settled slot when this ticket's result was kept.
func (s *storefrontService) persist(ctx context.Context, sessionID string, ticket resolver.Ticket, view resolver.View) {
	if sessionID == "" {
		return
	}
	slot, ok := view.Tabs[ticket.Selector]
	if !ok || slot.Seq != ticket.Seq {
		return
	}
	applied, err := s.store.Save(ctx, sessionID, ticket.Selector, slot)
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Str("selector", ticket.Selector).Msg("failed to save tab slot")
		return
	}
	if !applied {
		s.logger.Debug().Str("selector", ticket.Selector).Uint64("seq", ticket.Seq).Msg("newer tab slot already stored")
	}
}

// categoryTabs returns the All tab followed by every category, each with the
// number of displayed products that belong to it.
func categoryTabs(categories []model.Category, products []model.Product, selector string) []model.CategoryTab {
	counts := lo.CountValuesBy(products, func(p model.Product) model.ID {
		return p.CategoryID
	})

	tabs := make([]model.CategoryTab, 0, len(categories)+1)
	tabs = append(tabs, model.CategoryTab{
		ID:     resolver.All,
		Name:   allProductsLabel,
		Slug:   resolver.All,
		Count:  len(products),
		Active: selector == resolver.All,
	})
	for _, c := range categories {
		tabs = append(tabs, model.CategoryTab{
			ID:     c.ID,
			Name:   c.Name,
			Slug:   c.Slug,
			Count:  counts[c.ID],
			Active: c.ID.String() == selector,
		})
	}
	return tabs
}

// Showcase fetches the first categories' product strips concurrently. A
// failed strip is shown empty.
func (s *storefrontService) Showcase(ctx context.Context) ([]model.CategoryShowcase, error) {
	categories := s.categories(ctx)
	if len(categories) > showcaseCategories {
		categories = categories[:showcaseCategories]
	}

	out := make([]model.CategoryShowcase, len(categories))
	var g errgroup.Group
	g.SetLimit(showcaseCategories)
	for i, c := range categories {
		out[i] = model.CategoryShowcase{Category: c, Products: []model.ProductCard{}}
		if c.Slug == "" {
			continue
		}
		g.Go(func() error {
			products, err := s.catalog.ProductsByCategory(ctx, c.Slug, showcaseProducts)
			if err != nil {
				s.logger.Warn().Err(err).Str("category", c.Slug).Msg("failed to load showcase strip")
				return nil
			}
			out[i].Products = pricing.Cards(products, s.view.PlaceholderCard, s.view.CurrencyLabel)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Brands lists the most recent products that have a thumbnail and a slug.
func (s *storefrontService) Brands(ctx context.Context) (*model.ListView, error) {
	products, err := s.catalog.LatestSorted(ctx, brandsFetchLimit)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn().Err(err).Msg("failed to load brand carousel")
		return emptyList(nil), nil
	}

	products = lo.Filter(products, func(p model.Product, _ int) bool {
		return p.Thumbnail != "" && p.Slug != ""
	})
	if len(products) > brandsShown {
		products = products[:brandsShown]
	}
	return s.listView(products, nil), nil
}

// Featured builds the featured products listing.
func (s *storefrontService) Featured(ctx context.Context) (*model.ListView, error) {
	products, meta, err := s.catalog.Featured(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn().Err(err).Msg("failed to load featured products")
		return emptyList(nil), nil
	}
	return s.listView(products, meta), nil
}

// Latest builds the latest products listing.
func (s *storefrontService) Latest(ctx context.Context, limit int) (*model.ListView, error) {
	if limit <= 0 {
		limit = defaultLatestLimit
	}
	if limit > maxListingLimit {
		limit = maxListingLimit
	}

	products, err := s.catalog.Latest(ctx, limit)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn().Err(err).Int("limit", limit).Msg("failed to load latest products")
		return emptyList(nil), nil
	}
	return s.listView(products, nil), nil
}

// Banners builds the home page banner slider.
func (s *storefrontService) Banners(ctx context.Context) (*model.BannerView, error) {
	banners, meta, err := s.catalog.Banners(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn().Err(err).Msg("failed to load banners")
		return &model.BannerView{Banners: []model.Banner{}, Status: model.StatusEmpty}, nil
	}

	return &model.BannerView{
		Banners: banners,
		Meta:    meta,
		Status:  statusOf(len(banners)),
	}, nil
}

func (s *storefrontService) listView(products []model.Product, meta *model.PageMeta) *model.ListView {
	cards := pricing.Cards(products, s.view.PlaceholderCard, s.view.CurrencyLabel)
	return &model.ListView{
		Products: cards,
		Meta:     meta,
		Status:   statusOf(len(cards)),
	}
}

func emptyList(meta *model.PageMeta) *model.ListView {
	return &model.ListView{Products: []model.ProductCard{}, Meta: meta, Status: model.StatusEmpty}
}

func statusOf(n int) model.ViewStatus {
	if n == 0 {
		return model.StatusEmpty
	}
	return model.StatusOK
}
