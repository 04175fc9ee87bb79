package router

import (
	"net/http"

	"spice-storefront/internal/config"
	"spice-storefront/internal/handler"
	"spice-storefront/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	storefrontHandler *handler.StorefrontHandler,
	productHandler *handler.ProductHandler,
	apiKey string,
	session config.SessionConfig,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.HandleFunc("/api/storefront/categories", storefrontHandler.Categories)
	mux.HandleFunc("/api/storefront/shop", storefrontHandler.Shop)
	mux.HandleFunc("/api/storefront/showcase", storefrontHandler.Showcase)
	mux.HandleFunc("/api/storefront/brands", storefrontHandler.Brands)
	mux.HandleFunc("/api/storefront/featured", storefrontHandler.Featured)
	mux.HandleFunc("/api/storefront/latest", storefrontHandler.Latest)
	mux.HandleFunc("/api/storefront/banners", storefrontHandler.Banners)

	// Product detail by slug
	mux.HandleFunc("/api/storefront/products/", productHandler.Detail)

	// Apply middleware in order: Recovery -> Logging -> RequestID -> CORS -> APIKeyAuth -> Session
	var handler http.Handler = mux
	handler = middleware.Session(session.TTL, session.SecureCookie)(handler)
	handler = middleware.APIKeyAuth(apiKey, logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
