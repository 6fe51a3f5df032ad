package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/foodplanner/backend/internal/domain"
	"github.com/foodplanner/backend/internal/usecase"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const serviceName = "foodplanner-backend"

// Matcher is the matching use case served over HTTP
type Matcher interface {
	FindMatches(ctx context.Context, ingredientName string, topK int, minConfidence float64) ([]domain.MatchResult, error)
	ComputeAllMatches(ctx context.Context, opts usecase.ComputeOptions) (*domain.ComputeSummary, error)
	InvalidateCache()
	NormalizeIngredient(name string) string
}

// ShoppingListGenerator builds shopping lists from recipes
type ShoppingListGenerator interface {
	Generate(ctx context.Context, req usecase.ShoppingListRequest) (*usecase.ShoppingList, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	matcher  Matcher
	shopping ShoppingListGenerator
	version  string
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler. Either use case may be nil, in which
// case its endpoints answer 501.
func NewHandler(matcher Matcher, shopping ShoppingListGenerator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		matcher:  matcher,
		shopping: shopping,
		version:  "1.0.0",
		logger:   logger.Named("http"),
	}
}

// SearchMatchesRequest is the body of POST /api/v1/matches/search
type SearchMatchesRequest struct {
	IngredientName string  `json:"ingredient_name" binding:"required"`
	TopK           int     `json:"top_k"`
	MinConfidence  float64 `json:"min_confidence"`
}

// SearchMatchesResponse lists the matches for one ingredient
type SearchMatchesResponse struct {
	IngredientName string               `json:"ingredient_name"`
	NormalizedName string               `json:"normalized_name"`
	Matches        []domain.MatchResult `json:"matches"`
}

// ComputeMatchesRequest is the optional body of POST /api/v1/matches/compute
type ComputeMatchesRequest struct {
	MinConfidence float64 `json:"min_confidence"`
	TopK          int     `json:"top_k"`
	BatchSize     int     `json:"batch_size"`
	Limit         int     `json:"limit"`
}

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": h.version,
	})
}

// SearchMatches returns the best catalog products for one ingredient
func (h *Handler) SearchMatches(c *gin.Context) {
	if h.matcher == nil {
		c.JSON(http.StatusNotImplemented, ErrorResponse{Error: "ingredient matching not configured"})
		return
	}

	var req SearchMatchesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.IngredientName) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "ingredient_name is required"})
		return
	}
	if req.MinConfidence < 0 || req.MinConfidence > 1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "min_confidence must be between 0 and 1"})
		return
	}

	matches, err := h.matcher.FindMatches(c.Request.Context(), req.IngredientName, req.TopK, req.MinConfidence)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SearchMatchesResponse{
		IngredientName: req.IngredientName,
		NormalizedName: h.matcher.NormalizeIngredient(req.IngredientName),
		Matches:        matches,
	})
}

// ComputeMatches runs a bulk matching pass over all unmatched ingredients
func (h *Handler) ComputeMatches(c *gin.Context) {
	if h.matcher == nil {
		c.JSON(http.StatusNotImplemented, ErrorResponse{Error: "ingredient matching not configured"})
		return
	}

	var req ComputeMatchesRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
			return
		}
	}

	summary, err := h.matcher.ComputeAllMatches(c.Request.Context(), usecase.ComputeOptions{
		MinConfidence: req.MinConfidence,
		TopK:          req.TopK,
		BatchSize:     req.BatchSize,
		Limit:         req.Limit,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// InvalidateCache drops the product index so the next request reloads the catalog
func (h *Handler) InvalidateCache(c *gin.Context) {
	if h.matcher == nil {
		c.JSON(http.StatusNotImplemented, ErrorResponse{Error: "ingredient matching not configured"})
		return
	}

	h.matcher.InvalidateCache()
	c.JSON(http.StatusOK, gin.H{"status": "invalidated"})
}

// GenerateShoppingList aggregates recipes into a priced shopping list
func (h *Handler) GenerateShoppingList(c *gin.Context) {
	if h.shopping == nil {
		c.JSON(http.StatusNotImplemented, ErrorResponse{Error: "shopping lists not configured"})
		return
	}

	var req usecase.ShoppingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	list, err := h.shopping.Generate(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// respondError maps use case errors onto HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrCatalogUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusRequestTimeout
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}
