// Package alphavantage provides a client for the Alpha Vantage API
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/quill/internal/common"
	"github.com/bobmcallan/quill/internal/interfaces"
	"github.com/bobmcallan/quill/internal/models"
)

const (
	DefaultBaseURL   = "https://www.alphavantage.co"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
	DefaultRetries   = 3

	// backoff between retry attempts is backoffUnit × attempt number
	defaultBackoffUnit = 1500 * time.Millisecond
)

// Client implements the MarketDataClient interface
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	logger      *common.Logger
	limiter     *rate.Limiter
	retries     int
	backoffUnit time.Duration
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRetries sets the number of attempts per request
func WithRetries(retries int) ClientOption {
	return func(c *Client) {
		if retries > 0 {
			c.retries = retries
		}
	}
}

// WithBackoffUnit sets the linear backoff unit between attempts
func WithBackoffUnit(unit time.Duration) ClientOption {
	return func(c *Client) {
		c.backoffUnit = unit
	}
}

// NewClient creates a new Alpha Vantage client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter:     rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:      common.NewSilentLogger(),
		retries:     DefaultRetries,
		backoffUnit: defaultBackoffUnit,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Function   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Alpha Vantage API error: %s (status: %d, function: %s)", e.Message, e.StatusCode, e.Function)
}

// get performs a rate-limited GET against /query with linear-backoff
// retries. Non-200 responses count as failed attempts.
func (c *Client) get(ctx context.Context, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	params.Set("apikey", c.apiKey)
	function := params.Get("function")
	reqURL := fmt.Sprintf("%s/query?%s", c.baseURL, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		c.logger.Debug().Str("function", function).Int("attempt", attempt).Msg("Alpha Vantage API request")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("failed to execute request: %w", err)
		} else if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			lastErr = &APIError{
				StatusCode: resp.StatusCode,
				Message:    string(body),
				Function:   function,
			}
		} else {
			err := json.NewDecoder(resp.Body).Decode(result)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
			return nil
		}

		if attempt < c.retries {
			select {
			case <-time.After(c.backoffUnit * time.Duration(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return lastErr
}

// indicatorResponse is the shared shape of the economic indicator endpoints.
type indicatorResponse struct {
	Data []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"data"`
}

// indicator fetches an economic indicator series, sorted by date ascending.
// Non-numeric observations ("." placeholders) are dropped.
func (c *Client) indicator(ctx context.Context, params url.Values) ([]models.IndicatorPoint, error) {
	var resp indicatorResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("empty %s response", params.Get("function"))
	}

	points := make([]models.IndicatorPoint, 0, len(resp.Data))
	for _, d := range resp.Data {
		date, err := time.Parse("2006-01-02", d.Date)
		if err != nil {
			continue
		}
		value, err := strconv.ParseFloat(d.Value, 64)
		if err != nil {
			continue
		}
		points = append(points, models.IndicatorPoint{Date: date, Value: value})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}

// CPI retrieves the monthly consumer price index series
func (c *Client) CPI(ctx context.Context) ([]models.IndicatorPoint, error) {
	params := url.Values{}
	params.Set("function", "CPI")
	params.Set("interval", "monthly")
	return c.indicator(ctx, params)
}

// FedFundsRate retrieves the monthly federal funds rate series
func (c *Client) FedFundsRate(ctx context.Context) ([]models.IndicatorPoint, error) {
	params := url.Values{}
	params.Set("function", "FEDERAL_FUNDS_RATE")
	params.Set("interval", "monthly")
	return c.indicator(ctx, params)
}

// TreasuryYield10Y retrieves the daily 10-year treasury yield series
func (c *Client) TreasuryYield10Y(ctx context.Context) ([]models.IndicatorPoint, error) {
	params := url.Values{}
	params.Set("function", "TREASURY_YIELD")
	params.Set("interval", "daily")
	params.Set("maturity", "10year")
	return c.indicator(ctx, params)
}

// RealGDP retrieves the annual real GDP series
func (c *Client) RealGDP(ctx context.Context) ([]models.IndicatorPoint, error) {
	params := url.Values{}
	params.Set("function", "REAL_GDP")
	params.Set("interval", "annual")
	return c.indicator(ctx, params)
}

// Unemployment retrieves the monthly unemployment rate series
func (c *Client) Unemployment(ctx context.Context) ([]models.IndicatorPoint, error) {
	params := url.Values{}
	params.Set("function", "UNEMPLOYMENT")
	return c.indicator(ctx, params)
}

// AllCommodities retrieves the monthly global commodities index series
func (c *Client) AllCommodities(ctx context.Context) ([]models.IndicatorPoint, error) {
	params := url.Values{}
	params.Set("function", "ALL_COMMODITIES")
	params.Set("interval", "monthly")
	return c.indicator(ctx, params)
}

// DailyAdjusted retrieves the full adjusted daily close series for a symbol,
// sorted by date ascending.
func (c *Client) DailyAdjusted(ctx context.Context, symbol string) (models.PriceSeries, error) {
	params := url.Values{}
	params.Set("function", "TIME_SERIES_DAILY_ADJUSTED")
	params.Set("symbol", symbol)
	params.Set("outputsize", "full")

	var resp struct {
		Series map[string]struct {
			AdjustedClose string `json:"5. adjusted close"`
			Close         string `json:"4. close"`
		} `json:"Time Series (Daily)"`
	}
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Series) == 0 {
		return nil, fmt.Errorf("empty daily series for %s", symbol)
	}

	series := make(models.PriceSeries, 0, len(resp.Series))
	for dateStr, bar := range resp.Series {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}
		raw := bar.AdjustedClose
		if raw == "" {
			raw = bar.Close
		}
		closePx, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		series = append(series, models.PricePoint{Date: date, Close: closePx})
	}

	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series, nil
}

// FXDaily retrieves the full daily close series for a currency pair,
// sorted by date ascending.
func (c *Client) FXDaily(ctx context.Context, base, quote string) (models.PriceSeries, error) {
	params := url.Values{}
	params.Set("function", "FX_DAILY")
	params.Set("from_symbol", base)
	params.Set("to_symbol", quote)
	params.Set("outputsize", "full")

	var resp struct {
		Series map[string]struct {
			Close string `json:"4. close"`
		} `json:"Time Series FX (Daily)"`
	}
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Series) == 0 {
		return nil, fmt.Errorf("empty FX series for %s/%s", base, quote)
	}

	series := make(models.PriceSeries, 0, len(resp.Series))
	for dateStr, bar := range resp.Series {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}
		closePx, err := strconv.ParseFloat(bar.Close, 64)
		if err != nil {
			continue
		}
		series = append(series, models.PricePoint{Date: date, Close: closePx})
	}

	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series, nil
}

// NewsFeed retrieves recent news articles for the given tickers. timeFrom is
// the provider's YYYYMMDDTHHMM format.
func (c *Client) NewsFeed(ctx context.Context, tickers []string, timeFrom string, limit int) ([]models.NewsArticle, error) {
	params := url.Values{}
	params.Set("function", "NEWS_SENTIMENT")
	params.Set("tickers", strings.Join(tickers, ","))
	params.Set("time_from", timeFrom)
	params.Set("limit", strconv.Itoa(limit))

	var resp struct {
		Feed []struct {
			Title   string `json:"title"`
			Summary string `json:"summary"`
		} `json:"feed"`
	}
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}

	articles := make([]models.NewsArticle, len(resp.Feed))
	for i, item := range resp.Feed {
		articles[i] = models.NewsArticle{Title: item.Title, Summary: item.Summary}
	}
	return articles, nil
}

// Ensure Client implements MarketDataClient
var _ interfaces.MarketDataClient = (*Client)(nil)
