// Package places proxies the Google Places autocomplete API using the API
// key resolved from platform settings. The key never reaches the browser;
// clients call this server-side proxy instead.
package places

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/solera-market/solera/internal/settings"
)

// defaultBaseURL is the Google Places API endpoint.
const defaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// ErrDisabled is returned when the Google integration or its Places service
// is switched off in platform settings.
var ErrDisabled = errors.New("places integration disabled")

// Prediction is a single autocomplete suggestion.
type Prediction struct {
	Description string `json:"description"`
	PlaceID     string `json:"place_id"`
}

// AutocompleteResponse mirrors the subset of the Places response the
// storefront consumes.
type AutocompleteResponse struct {
	Status      string       `json:"status"`
	Predictions []Prediction `json:"predictions"`
}

// Client calls the Places API with the key from platform settings.
type Client struct {
	http     *resty.Client
	settings *settings.Service
}

// NewClient creates a places client backed by the settings service.
func NewClient(svc *settings.Service) *Client {
	return &Client{
		http:     resty.New().SetBaseURL(defaultBaseURL),
		settings: svc,
	}
}

// SetBaseURL overrides the upstream endpoint. Used in tests.
func (c *Client) SetBaseURL(url string) {
	c.http.SetBaseURL(url)
}

// Autocomplete proxies an autocomplete query. types is optional and passed
// through when non-empty.
func (c *Client) Autocomplete(ctx context.Context, input, types string) (*AutocompleteResponse, error) {
	cfg, err := c.settings.Google(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve google config: %w", err)
	}
	if !cfg.Enabled || !cfg.Services.Places {
		return nil, ErrDisabled
	}

	var out AutocompleteResponse
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("input", input).
		SetQueryParam("key", cfg.APIKey).
		SetResult(&out)
	if types != "" {
		req.SetQueryParam("types", types)
	}

	resp, err := req.Get("/autocomplete/json")
	if err != nil {
		return nil, fmt.Errorf("places request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("places upstream returned %d", resp.StatusCode())
	}

	return &out, nil
}
