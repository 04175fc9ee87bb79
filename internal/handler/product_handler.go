package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"spice-storefront/internal/model"
	"spice-storefront/internal/service"

	"github.com/rs/zerolog"
)

const productPathPrefix = "/api/storefront/products/"

// ProductHandler handles the product detail page.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// Detail handles GET /api/storefront/products/{slug}?image={url}.
func (h *ProductHandler) Detail(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r, h.logger) {
		return
	}

	// Extract the slug from the path
	slug, err := url.PathUnescape(strings.TrimPrefix(r.URL.EscapedPath(), productPathPrefix))
	if err != nil || slug == "" || strings.Contains(slug, "/") {
		writeError(w, r, http.StatusNotFound, model.ErrCodeProductNotFound, model.ErrProductNotFound.Message, h.logger)
		return
	}

	detail, err := h.service.Detail(r.Context(), slug, r.URL.Query().Get("image"))
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			writeError(w, r, http.StatusNotFound, model.ErrCodeProductNotFound, model.ErrProductNotFound.Message, h.logger)
			return
		}
		h.logger.Error().Err(err).Str("slug", slug).Msg("failed to build product detail")
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to build product detail", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}
