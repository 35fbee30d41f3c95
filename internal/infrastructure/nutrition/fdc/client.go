// Package fdc adapts the FoodData Central HTTP API to the outbound
// NutrientLookupService port. The adapter never surfaces transport or
// upstream failures to callers; it logs and returns empty results so one
// slow or broken upstream cannot stall ingestion.
package fdc

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/mealforge/importer/internal/infrastructure/config"
	"github.com/mealforge/importer/internal/ports/outbound"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client talks to the food-composition API
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	apiKey  string
	logger  *zap.Logger
}

// NewClient builds the lookup adapter from nutrition config
func NewClient(cfg config.NutritionConfig, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	rpm := cfg.RequestsPerMinute
	if rpm < 1 {
		rpm = 60
	}

	return &Client{
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
		apiKey:  cfg.APIKey,
		logger:  logger.Named("fdc-client"),
	}
}

type searchRequest struct {
	Query    string `json:"query"`
	PageSize int    `json:"pageSize"`
}

type searchResponse struct {
	Foods []struct {
		FdcID       int64  `json:"fdcId"`
		Description string `json:"description"`
	} `json:"foods"`
}

type foodResponse struct {
	FdcID         int64  `json:"fdcId"`
	Description   string `json:"description"`
	FoodNutrients []struct {
		Nutrient struct {
			Name     string `json:"name"`
			UnitName string `json:"unitName"`
		} `json:"nutrient"`
		Amount float64 `json:"amount"`
	} `json:"foodNutrients"`
}

// Search returns up to limit candidate foods for the query. Any failure
// yields an empty slice.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]outbound.FoodCandidate, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil
	}
	if limit < 1 {
		limit = 1
	}

	var body searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("api_key", c.apiKey).
		SetBody(searchRequest{Query: query, PageSize: limit}).
		SetResult(&body).
		Post("/v1/foods/search")
	if err != nil {
		c.logger.Warn("food search request failed",
			zap.String("query", query),
			zap.Error(err),
		)
		return nil, nil
	}
	if !c.acceptResponse(resp, "food search", query) {
		return nil, nil
	}

	candidates := make([]outbound.FoodCandidate, 0, len(body.Foods))
	for _, f := range body.Foods {
		candidates = append(candidates, outbound.FoodCandidate{
			ExternalID:  fmt.Sprintf("%d", f.FdcID),
			Description: f.Description,
		})
		if len(candidates) == limit {
			break
		}
	}
	return candidates, nil
}

// Details fetches the full nutrient profile for one food. A missing food
// returns (nil, nil) so callers can treat absence as ordinary.
func (c *Client) Details(ctx context.Context, externalID string) (*outbound.FoodDetail, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil
	}

	var body foodResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("api_key", c.apiKey).
		SetResult(&body).
		Get("/v1/food/" + externalID)
	if err != nil {
		c.logger.Warn("food detail request failed",
			zap.String("external_id", externalID),
			zap.Error(err),
		)
		return nil, nil
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if !c.acceptResponse(resp, "food detail", externalID) {
		return nil, nil
	}

	detail := &outbound.FoodDetail{
		ExternalID:  externalID,
		Description: body.Description,
		Nutrients:   make([]outbound.FoodNutrient, 0, len(body.FoodNutrients)),
	}
	for _, fn := range body.FoodNutrients {
		detail.Nutrients = append(detail.Nutrients, outbound.FoodNutrient{
			Name:   fn.Nutrient.Name,
			Unit:   fn.Nutrient.UnitName,
			Amount: fn.Amount,
		})
	}
	return detail, nil
}

// acceptResponse classifies non-success statuses so operators can tell
// credential problems from throttling in the logs.
func (c *Client) acceptResponse(resp *resty.Response, operation, subject string) bool {
	switch {
	case resp.IsSuccess():
		return true
	case resp.StatusCode() == http.StatusTooManyRequests:
		c.logger.Warn("upstream throttled request",
			zap.String("operation", operation),
			zap.String("subject", subject),
		)
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden:
		c.logger.Error("upstream rejected credentials",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode()),
		)
	default:
		c.logger.Warn("upstream returned unexpected status",
			zap.String("operation", operation),
			zap.String("subject", subject),
			zap.Int("status", resp.StatusCode()),
		)
	}
	return false
}

var _ outbound.NutrientLookupService = (*Client)(nil)
