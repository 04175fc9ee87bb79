package handler

import (
	"net/http"

	"spice-storefront/internal/middleware"
	"spice-storefront/internal/model"
	"spice-storefront/internal/service"

	"github.com/rs/zerolog"
)

// StorefrontHandler handles the listing views of the storefront.
type StorefrontHandler struct {
	service service.StorefrontService
	logger  zerolog.Logger
}

// NewStorefrontHandler creates a new storefront handler.
func NewStorefrontHandler(service service.StorefrontService, logger zerolog.Logger) *StorefrontHandler {
	return &StorefrontHandler{
		service: service,
		logger:  logger.With().Str("handler", "storefront").Logger(),
	}
}

// Categories handles GET /api/storefront/categories.
func (h *StorefrontHandler) Categories(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r, h.logger) {
		return
	}

	categories, err := h.service.Categories(r.Context())
	if err != nil {
		h.internalError(w, r, err, "failed to load categories")
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

// Shop handles GET /api/storefront/shop?category={selector}&limit={n}.
func (h *StorefrontHandler) Shop(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r, h.logger) {
		return
	}

	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidQuery, err.Error(), h.logger)
		return
	}

	sessionID := middleware.SessionFromContext(r.Context())
	selector := r.URL.Query().Get("category")

	view, err := h.service.Shop(r.Context(), sessionID, selector, limit)
	if err != nil {
		h.internalError(w, r, err, "failed to build shop view")
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Showcase handles GET /api/storefront/showcase.
func (h *StorefrontHandler) Showcase(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r, h.logger) {
		return
	}

	showcase, err := h.service.Showcase(r.Context())
	if err != nil {
		h.internalError(w, r, err, "failed to build showcase")
		return
	}

	writeJSON(w, http.StatusOK, showcase)
}

// Brands handles GET /api/storefront/brands.
func (h *StorefrontHandler) Brands(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r, h.logger) {
		return
	}

	view, err := h.service.Brands(r.Context())
	if err != nil {
		h.internalError(w, r, err, "failed to build brands view")
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Featured handles GET /api/storefront/featured.
func (h *StorefrontHandler) Featured(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r, h.logger) {
		return
	}

	view, err := h.service.Featured(r.Context())
	if err != nil {
		h.internalError(w, r, err, "failed to build featured view")
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Latest handles GET /api/storefront/latest?limit={n}.
func (h *StorefrontHandler) Latest(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r, h.logger) {
		return
	}

	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidQuery, err.Error(), h.logger)
		return
	}

	view, err := h.service.Latest(r.Context(), limit)
	if err != nil {
		h.internalError(w, r, err, "failed to build latest view")
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Banners handles GET /api/storefront/banners.
func (h *StorefrontHandler) Banners(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r, h.logger) {
		return
	}

	view, err := h.service.Banners(r.Context())
	if err != nil {
		h.internalError(w, r, err, "failed to build banner view")
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *StorefrontHandler) internalError(w http.ResponseWriter, r *http.Request, err error, message string) {
	h.logger.Error().Err(err).Str("path", r.URL.Path).Msg(message)
	writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, message, h.logger)
}
