package costfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"numrent-admin-core/config"
	"numrent-admin-core/internal/core/ports"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPFeed implements ports.CostFeed against the provider's cost API.
type HTTPFeed struct {
	baseURL    string
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewHTTPFeed creates a cost feed client.
func NewHTTPFeed(cfg config.CostFeedConfig, httpClient HTTPClient, log zerolog.Logger) *HTTPFeed {
	return &HTTPFeed{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
		log:        log,
	}
}

// costResponse is the provider's wire format.
type costResponse struct {
	ServiceCode    string `json:"service_code"`
	CountryCode    string `json:"country_code"`
	BaseCost       string `json:"base_cost"`
	AvailableCount int    `json:"available_count"`
}

// FetchCost retrieves the live base cost for a (service, country) pair.
func (f *HTTPFeed) FetchCost(ctx context.Context, serviceCode, countryCode string) (*ports.CostQuote, error) {
	endpoint := fmt.Sprintf("%s/v1/costs/%s/%s",
		f.baseURL, url.PathEscape(serviceCode), url.PathEscape(countryCode))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build cost feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cost feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cost feed returned status %d", resp.StatusCode)
	}

	var body costResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode cost feed response: %w", err)
	}

	quote, err := body.toQuote()
	if err != nil {
		return nil, err
	}

	f.log.Debug().
		Str("service", serviceCode).
		Str("country", countryCode).
		Str("base_cost", quote.BaseCost.String()).
		Msg("cost feed fetch")

	return quote, nil
}

func (r costResponse) toQuote() (*ports.CostQuote, error) {
	cost, err := decimal.NewFromString(r.BaseCost)
	if err != nil {
		return nil, fmt.Errorf("parse base cost %q: %w", r.BaseCost, err)
	}
	return &ports.CostQuote{
		ServiceCode:    r.ServiceCode,
		CountryCode:    r.CountryCode,
		BaseCost:       cost,
		AvailableCount: r.AvailableCount,
	}, nil
}
