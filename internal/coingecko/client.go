// Package coingecko talks to the CoinGecko exchanges API: the paginated
// listing endpoint, the per-exchange detail endpoint, and the historical
// volume chart endpoint.
//
// Listing and volume-chart calls share a rate limiter (burst 1), so the first
// call in any sequence goes out immediately and every subsequent one is
// spaced by the configured delay. Detail lookups are not throttled; the
// orchestrator filters them down to first-sighting exchanges only.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const apiKeyHeader = "x-cg-pro-api-key"

// Defaults applied by NewClient for zero-valued Config fields.
const (
	DefaultBaseURL      = "https://pro-api.coingecko.com/api/v3"
	DefaultPageSize     = 500 // CoinGecko's maximum per page
	DefaultWindowDays   = 365
	DefaultMaxPages     = 50
	DefaultRequestDelay = time.Second
	DefaultTimeout      = 30 * time.Second
)

// Config carries the client settings, usually sourced from config.AppConfig.
type Config struct {
	BaseURL      string
	APIKey       string
	PageSize     int
	WindowDays   int
	MaxPages     int
	RequestDelay time.Duration
	Timeout      time.Duration
}

// ExchangeListing is one row of the paginated /exchanges listing.
type ExchangeListing struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ExchangeDetail is the subset of /exchanges/{id} the pipeline cares about.
type ExchangeDetail struct {
	Name        string `json:"name"`
	Centralized bool   `json:"centralized"`
}

// VolumePoint is one normalized sample of the volume chart: the UTC calendar
// date (midnight, no time-of-day) and the volume parsed from the upstream
// decimal string, in the exchange's native unit.
type VolumePoint struct {
	Date   time.Time
	Volume float64
}

// Client is a rate-limited CoinGecko API client. It performs no retries:
// transport and status failures surface to the caller immediately.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient builds a Client, filling unset Config fields with defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = DefaultWindowDays
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	if cfg.RequestDelay <= 0 {
		cfg.RequestDelay = DefaultRequestDelay
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Every(cfg.RequestDelay), 1),
	}
}

// ListExchanges walks the paginated listing endpoint until exhaustion and
// returns the concatenation of all pages.
//
// Termination, checked per page: empty page, or page shorter than the
// requested size (last page). A configurable page ceiling guards against an
// upstream that never returns a short page; exceeding it is a TransportError.
func (c *Client) ListExchanges(ctx context.Context) ([]ExchangeListing, error) {
	var all []ExchangeListing

	for page := 1; ; page++ {
		if page > c.cfg.MaxPages {
			return nil, &TransportError{
				URL: c.cfg.BaseURL + "/exchanges",
				Err: fmt.Errorf("page ceiling of %d exceeded without a short page", c.cfg.MaxPages),
			}
		}

		q := url.Values{}
		q.Set("per_page", strconv.Itoa(c.cfg.PageSize))
		q.Set("page", strconv.Itoa(page))

		var batch []ExchangeListing
		if err := c.get(ctx, "/exchanges", q, true, &batch); err != nil {
			return nil, fmt.Errorf("list exchanges page %d: %w", page, err)
		}
		if len(batch) == 0 {
			break
		}
		all = append(all, batch...)
		if len(batch) < c.cfg.PageSize {
			break
		}
	}

	return all, nil
}

// GetExchange resolves the detail record for a single exchange.
// Returns ErrNotFound (wrapped) when the upstream does not know the id.
func (c *Client) GetExchange(ctx context.Context, id string) (*ExchangeDetail, error) {
	var detail ExchangeDetail
	if err := c.get(ctx, "/exchanges/"+url.PathEscape(id), nil, false, &detail); err != nil {
		return nil, fmt.Errorf("exchange %s: %w", id, err)
	}
	return &detail, nil
}

// GetVolumeChart fetches the trailing volume window for an exchange and
// normalizes the raw [epoch_ms, "volume"] samples into date-stamped points.
// The API returns the whole window in one response, already chronological;
// the order is preserved as-is.
func (c *Client) GetVolumeChart(ctx context.Context, id string) ([]VolumePoint, error) {
	q := url.Values{}
	q.Set("days", strconv.Itoa(c.cfg.WindowDays))

	var raw [][2]json.RawMessage
	if err := c.get(ctx, "/exchanges/"+url.PathEscape(id)+"/volume_chart", q, true, &raw); err != nil {
		return nil, fmt.Errorf("volume chart %s: %w", id, err)
	}

	points := make([]VolumePoint, 0, len(raw))
	for i, sample := range raw {
		var ms int64
		if err := json.Unmarshal(sample[0], &ms); err != nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("volume chart %s sample %d: timestamp", id, i), Err: err}
		}
		var volStr string
		if err := json.Unmarshal(sample[1], &volStr); err != nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("volume chart %s sample %d: volume", id, i), Err: err}
		}
		vol, err := strconv.ParseFloat(volStr, 64)
		if err != nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("volume chart %s sample %d: volume %q", id, i, volStr), Err: err}
		}
		if vol < 0 {
			return nil, &ValidationError{Reason: fmt.Sprintf("volume chart %s sample %d: negative volume %v", id, i, vol)}
		}
		ts := time.UnixMilli(ms).UTC()
		points = append(points, VolumePoint{
			Date:   time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
			Volume: vol,
		})
	}

	return points, nil
}

// get performs one HTTP GET and decodes the JSON body into out.
// Throttled calls wait on the shared limiter first, which spaces consecutive
// calls by the configured delay while leaving the first one unthrottled.
func (c *Client) get(ctx context.Context, path string, query url.Values, throttled bool, out any) error {
	if throttled {
		if err := c.limiter.Wait(ctx); err != nil {
			return &TransportError{URL: path, Err: err}
		}
	}

	u := c.cfg.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &TransportError{URL: u, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set(apiKeyHeader, c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{URL: u, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("GET %s: %w", path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{URL: u, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ValidationError{Reason: "malformed response body", Err: err}
	}
	return nil
}
