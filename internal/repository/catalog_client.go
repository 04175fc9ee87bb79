package repository

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"spice-storefront/internal/config"
	"spice-storefront/internal/model"

	"github.com/andybalholm/brotli"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// Upstream failure classes. Callers degrade all of them to an empty view.
var (
	ErrUpstreamStatus   = errors.New("catalog API returned a non-success HTTP status")
	ErrMalformedPayload = errors.New("catalog API returned a malformed payload")
	ErrUnsuccessful     = errors.New("catalog API reported an unsuccessful response")
	ErrResponseTooLarge = errors.New("catalog API response exceeds the size limit")
)

const maxBodyBytes = 4 << 20

// catalogClient implements CatalogRepository over HTTP.
type catalogClient struct {
	baseURL string
	timeout time.Duration
	client  *retryablehttp.Client
	limiter *rate.Limiter
	group   singleflight.Group
	logger  zerolog.Logger
}

// NewCatalogRepository creates an HTTP-backed catalog repository.
func NewCatalogRepository(cfg config.CatalogConfig, logger zerolog.Logger) (CatalogRepository, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid catalog API URL %q", cfg.BaseURL)
	}

	logger = logger.With().Str("component", "catalog-client").Logger()

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.MaxRetries
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = retryLogger{logger: logger}
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.HTTPClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 20,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	limit := rate.Limit(cfg.RatePerSecond)
	if cfg.RatePerSecond <= 0 {
		limit = rate.Inf
	}

	logger.Info().
		Str("base_url", base.String()).
		Dur("timeout", cfg.Timeout).
		Int("max_retries", cfg.MaxRetries).
		Msg("catalog client initialised")

	return &catalogClient{
		baseURL: base.String(),
		timeout: cfg.Timeout,
		client:  rc,
		limiter: rate.NewLimiter(limit, max(cfg.RateBurst, 1)),
		logger:  logger,
	}, nil
}

// Categories retrieves the category list.
func (c *catalogClient) Categories(ctx context.Context) ([]model.Category, error) {
	env, err := getEnvelope[[]model.Category](ctx, c, "/api/categories")
	if err != nil {
		return nil, err
	}
	return nonNil(env.Data), nil
}

// Products retrieves the unscoped product listing.
func (c *catalogClient) Products(ctx context.Context, limit int) ([]model.Product, error) {
	return c.productList(ctx, fmt.Sprintf("/api/products?limit=%d", limit))
}

// ProductsByCategory retrieves the listing scoped to a category slug.
func (c *catalogClient) ProductsByCategory(ctx context.Context, slug string, limit int) ([]model.Product, error) {
	if slug == "" {
		return nil, model.ErrCategoryNotFound
	}
	products, err := c.productList(ctx, fmt.Sprintf("/api/products/category/%s?limit=%d", url.PathEscape(slug), limit))
	if errors.Is(err, errNotFound) {
		return nil, model.ErrCategoryNotFound
	}
	return products, err
}

// ProductBySlug retrieves a single product.
func (c *catalogClient) ProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	if slug == "" {
		return nil, model.ErrProductNotFound
	}

	env, err := getEnvelope[*model.Product](ctx, c, "/api/products/"+url.PathEscape(slug))
	if errors.Is(err, errNotFound) {
		return nil, model.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, model.ErrProductNotFound
	}
	return env.Data, nil
}

// Featured retrieves the featured products and page metadata.
func (c *catalogClient) Featured(ctx context.Context) ([]model.Product, *model.PageMeta, error) {
	return c.productPage(ctx, "/api/products/featured")
}

// Latest retrieves the latest products.
func (c *catalogClient) Latest(ctx context.Context, limit int) ([]model.Product, error) {
	return c.productList(ctx, fmt.Sprintf("/api/products/latest?limit=%d", limit))
}

// LatestSorted retrieves the unscoped listing sorted by recency.
func (c *catalogClient) LatestSorted(ctx context.Context, limit int) ([]model.Product, error) {
	return c.productList(ctx, fmt.Sprintf("/api/products?limit=%d&sort=latest", limit))
}

// Banners retrieves the home page banners and page metadata.
func (c *catalogClient) Banners(ctx context.Context) ([]model.Banner, *model.PageMeta, error) {
	env, err := getEnvelope[[]model.Banner](ctx, c, "/api/banners")
	if err != nil {
		return nil, nil, err
	}
	return nonNil(env.Data), env.Meta, nil
}

func (c *catalogClient) productList(ctx context.Context, path string) ([]model.Product, error) {
	products, _, err := c.productPage(ctx, path)
	return products, err
}

// productPage decodes a product listing record by record. A malformed
// record is logged and dropped; the rest of the listing survives.
func (c *catalogClient) productPage(ctx context.Context, path string) ([]model.Product, *model.PageMeta, error) {
	env, err := getEnvelope[[]json.RawMessage](ctx, c, path)
	if err != nil {
		return nil, nil, err
	}

	products := make([]model.Product, 0, len(env.Data))
	for i, raw := range env.Data {
		if string(raw) == "null" {
			continue
		}
		var p model.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			c.logger.Warn().Err(err).Str("path", path).Int("index", i).Msg("skipping malformed product")
			continue
		}
		products = append(products, p)
	}
	return products, env.Meta, nil
}

var errNotFound = errors.New("not found")

// getEnvelope fetches path and decodes the standard response envelope.
func getEnvelope[T any](ctx context.Context, c *catalogClient, path string) (*model.Envelope[T], error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var env model.Envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		c.logger.Warn().Err(err).Str("path", path).Msg("malformed catalog payload")
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedPayload, path, err)
	}
	if !env.Success {
		c.logger.Warn().Str("path", path).Msg("catalog API reported failure")
		return nil, fmt.Errorf("%w: %s", ErrUnsuccessful, path)
	}
	return &env, nil
}

// get performs a rate limited, coalesced GET with an explicit timeout. The
// shared fetch is detached from any single caller's cancellation; each
// caller stops waiting only when its own context is done.
func (c *catalogClient) get(ctx context.Context, path string) ([]byte, error) {
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(path, func() (any, error) {
		return c.fetch(shared, path)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("request %s: %w", path, ctx.Err())
	case res := <-ch:
		if res.Shared {
			c.logger.Debug().Str("path", path).Msg("coalesced catalog request")
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (c *catalogClient) fetch(ctx context.Context, path string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, br")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("path", path).Msg("catalog request failed")
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := readBody(resp)
	if err != nil {
		c.logger.Warn().Err(err).Str("path", path).Msg("failed to read catalog response")
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	c.logger.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("catalog request completed")

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", path, errNotFound)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %s: status %d", ErrUpstreamStatus, path, resp.StatusCode)
	}
	return body, nil
}

// readBody reads and decompresses a response body. Bodies larger than
// maxBodyBytes fail with ErrResponseTooLarge.
func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "br":
		reader = brotli.NewReader(resp.Body)
	default:
		reader = resp.Body
	}
	body, err := io.ReadAll(io.LimitReader(reader, maxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, maxBodyBytes)
	}
	return body, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// retryLogger adapts zerolog to retryablehttp.LeveledLogger.
type retryLogger struct {
	logger zerolog.Logger
}

func (l retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Trace().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}
