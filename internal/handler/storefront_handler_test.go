package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"spice-storefront/internal/middleware"
	"spice-storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStorefrontService is a mock implementation of StorefrontService.
type MockStorefrontService struct {
	mock.Mock
}

func (m *MockStorefrontService) Categories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockStorefrontService) Shop(ctx context.Context, sessionID, selector string, limit int) (*model.ShopView, error) {
	args := m.Called(ctx, sessionID, selector, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShopView), args.Error(1)
}

func (m *MockStorefrontService) Showcase(ctx context.Context) ([]model.CategoryShowcase, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CategoryShowcase), args.Error(1)
}

func (m *MockStorefrontService) Brands(ctx context.Context) (*model.ListView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ListView), args.Error(1)
}

func (m *MockStorefrontService) Featured(ctx context.Context) (*model.ListView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ListView), args.Error(1)
}

func (m *MockStorefrontService) Latest(ctx context.Context, limit int) (*model.ListView, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ListView), args.Error(1)
}

func (m *MockStorefrontService) Banners(ctx context.Context) (*model.BannerView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BannerView), args.Error(1)
}

func TestStorefrontHandler_Shop(t *testing.T) {
	logger := zerolog.Nop()

	view := &model.ShopView{
		Selector: "3",
		Scoped:   true,
		Products: []model.ProductCard{{ID: "7", Slug: "saffron", Name: "Saffron"}},
		Total:    1,
		Status:   model.StatusOK,
	}

	tests := []struct {
		name           string
		method         string
		query          string
		mockError      error
		expectedStatus int
		expectService  bool
		selector       string
		limit          int
	}{
		{
			name:           "Default selector and limit",
			method:         http.MethodGet,
			query:          "",
			expectedStatus: http.StatusOK,
			expectService:  true,
			selector:       "",
			limit:          0,
		},
		{
			name:           "Category with limit",
			method:         http.MethodGet,
			query:          "?category=3&limit=12",
			expectedStatus: http.StatusOK,
			expectService:  true,
			selector:       "3",
			limit:          12,
		},
		{
			name:           "Invalid limit",
			method:         http.MethodGet,
			query:          "?limit=abc",
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
		{
			name:           "Cancelled request",
			method:         http.MethodGet,
			query:          "?category=all",
			mockError:      context.Canceled,
			expectedStatus: http.StatusInternalServerError,
			expectService:  true,
			selector:       "all",
		},
		{
			name:           "Method not allowed",
			method:         http.MethodDelete,
			expectedStatus: http.StatusMethodNotAllowed,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockStorefrontService)
			handler := NewStorefrontHandler(mockService, logger)

			if tt.expectService {
				var ret interface{}
				if tt.mockError == nil {
					ret = view
				}
				mockService.On("Shop", mock.Anything, "session-1", tt.selector, tt.limit).
					Return(ret, tt.mockError)
			}

			req := httptest.NewRequest(tt.method, "/api/storefront/shop"+tt.query, nil)
			req = req.WithContext(middleware.WithSessionID(req.Context(), "session-1"))
			w := httptest.NewRecorder()

			handler.Shop(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var body model.ShopView
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, "3", body.Selector)
				assert.Len(t, body.Products, 1)
			}

			if tt.expectService {
				mockService.AssertExpectations(t)
			} else {
				mockService.AssertNotCalled(t, "Shop", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestStorefrontHandler_Latest(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectService  bool
		limit          int
	}{
		{name: "Default limit", query: "", expectedStatus: http.StatusOK, expectService: true, limit: 0},
		{name: "Custom limit", query: "?limit=8", expectedStatus: http.StatusOK, expectService: true, limit: 8},
		{name: "Invalid limit", query: "?limit=0", expectedStatus: http.StatusBadRequest, expectService: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockStorefrontService)
			handler := NewStorefrontHandler(mockService, logger)

			if tt.expectService {
				mockService.On("Latest", mock.Anything, tt.limit).
					Return(&model.ListView{Products: []model.ProductCard{}, Status: model.StatusEmpty}, nil)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/storefront/latest"+tt.query, nil)
			w := httptest.NewRecorder()

			handler.Latest(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestStorefrontHandler_Views(t *testing.T) {
	logger := zerolog.Nop()
	list := &model.ListView{Products: []model.ProductCard{{ID: "1", Name: "Cumin"}}, Status: model.StatusOK}

	tests := []struct {
		name    string
		method  string
		ret     interface{}
		handle  func(h *StorefrontHandler) http.HandlerFunc
		contain string
	}{
		{
			name:    "Categories",
			method:  "Categories",
			ret:     []model.Category{{ID: "1", Name: "Whole Spices", Slug: "whole-spices"}},
			handle:  func(h *StorefrontHandler) http.HandlerFunc { return h.Categories },
			contain: "whole-spices",
		},
		{
			name:    "Showcase",
			method:  "Showcase",
			ret:     []model.CategoryShowcase{{Category: model.Category{ID: "1", Name: "Whole Spices"}, Products: []model.ProductCard{}}},
			handle:  func(h *StorefrontHandler) http.HandlerFunc { return h.Showcase },
			contain: "Whole Spices",
		},
		{
			name:    "Brands",
			method:  "Brands",
			ret:     list,
			handle:  func(h *StorefrontHandler) http.HandlerFunc { return h.Brands },
			contain: "Cumin",
		},
		{
			name:    "Featured",
			method:  "Featured",
			ret:     list,
			handle:  func(h *StorefrontHandler) http.HandlerFunc { return h.Featured },
			contain: "Cumin",
		},
		{
			name:    "Banners",
			method:  "Banners",
			ret:     &model.BannerView{Banners: []model.Banner{{Title: "Diwali sale"}}, Status: model.StatusOK},
			handle:  func(h *StorefrontHandler) http.HandlerFunc { return h.Banners },
			contain: "Diwali sale",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockStorefrontService)
			mockService.On(tt.method, mock.Anything).Return(tt.ret, nil)
			handler := NewStorefrontHandler(mockService, logger)

			req := httptest.NewRequest(http.MethodGet, "/api/storefront/x", nil)
			w := httptest.NewRecorder()

			tt.handle(handler)(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.contain)
			mockService.AssertExpectations(t)
		})
	}
}

func TestStorefrontHandler_ViewsError(t *testing.T) {
	mockService := new(MockStorefrontService)
	mockService.On("Showcase", mock.Anything).Return(nil, context.DeadlineExceeded)
	handler := NewStorefrontHandler(mockService, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/storefront/showcase", nil)
	w := httptest.NewRecorder()

	handler.Showcase(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, model.ErrCodeInternalError, body.Error)
}
