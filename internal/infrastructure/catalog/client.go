// Package catalog fetches the product catalog from a remote HTTP API.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/foodplanner/backend/internal/domain"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	maxAttempts     = 3
	defaultPageSize = 500
	maxPages        = 1000 // guards against a server that never ends paging
)

// Config holds catalog API client settings
type Config struct {
	BaseURL       string
	APIKey        string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
	PageSize      int
}

// Client implements domain.CatalogSource over the catalog HTTP API
type Client struct {
	http        *resty.Client
	rateLimiter *rate.Limiter
	pageSize    int
	backoff     func(attempt int) time.Duration
	logger      *zap.Logger
}

// NewClient creates a new catalog API client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", "FoodPlanner/1.0").
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		httpClient.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}

	return &Client{
		http:        httpClient,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		pageSize:    cfg.PageSize,
		backoff:     exponentialBackoff,
		logger:      logger.Named("catalog"),
	}
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// FetchAllProducts walks every page of the catalog
func (c *Client) FetchAllProducts(ctx context.Context) ([]domain.Product, error) {
	var all []domain.Product
	page := 1

	for i := 0; i < maxPages; i++ {
		result, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}

		products, skipped := mapProducts(result.Products)
		if skipped > 0 {
			c.logger.Warn("skipped invalid catalog entries", zap.Int("page", page), zap.Int("skipped", skipped))
		}
		all = append(all, products...)

		if result.NextPage <= page {
			c.logger.Info("fetched catalog", zap.Int("products", len(all)), zap.Int("pages", page))
			return all, nil
		}
		page = result.NextPage
	}

	return nil, fmt.Errorf("%w: more than %d pages", domain.ErrCatalogUnavailable, maxPages)
}

// fetchPage requests one page, retrying transient failures
func (c *Client) fetchPage(ctx context.Context, page int) (*productPage, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		var result productPage
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParam("page", strconv.Itoa(page)).
			SetQueryParam("page_size", strconv.Itoa(c.pageSize)).
			SetResult(&result).
			ForceContentType("application/json").
			Get("/v1/products")

		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// the body arrived but resty could not decode it
			if resp != nil && resp.StatusCode() == http.StatusOK {
				return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrCatalogUnavailable, err)
			}
			c.logger.Warn("catalog request failed", zap.Int("attempt", attempt), zap.Error(err))
			lastErr = fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
			c.sleep(ctx, attempt)
			continue
		}

		status := resp.StatusCode()
		if status == http.StatusTooManyRequests || status >= http.StatusInternalServerError {
			c.logger.Warn("catalog API error",
				zap.Int("attempt", attempt),
				zap.Int("status", status),
				zap.String("body", truncate(resp.String(), 200)))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrCatalogUnavailable, status)
			c.sleep(ctx, attempt)
			continue
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("%w: status %d", domain.ErrCatalogUnavailable, status)
		}

		return &result, nil
	}

	c.logger.Error("all catalog retries failed", zap.Int("page", page))
	return nil, lastErr
}

func (c *Client) sleep(ctx context.Context, attempt int) {
	if attempt == maxAttempts {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(c.backoff(attempt)):
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
