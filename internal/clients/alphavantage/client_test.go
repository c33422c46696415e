package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient("test-key",
		WithBaseURL(server.URL),
		WithRateLimit(1000),
		WithBackoffUnit(time.Millisecond),
	)
	return client, server
}

func TestDailyAdjusted(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TIME_SERIES_DAILY_ADJUSTED", r.URL.Query().Get("function"))
		assert.Equal(t, "SPY", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		w.Write([]byte(`{
			"Time Series (Daily)": {
				"2025-04-02": {"4. close": "560.00", "5. adjusted close": "559.50"},
				"2025-04-01": {"4. close": "555.00", "5. adjusted close": "554.20"},
				"2025-04-03": {"4. close": "540.00"}
			}
		}`))
	})

	series, err := client.DailyAdjusted(context.Background(), "SPY")
	require.NoError(t, err)
	require.Len(t, series, 3)

	// sorted ascending, adjusted close preferred, plain close as fallback
	assert.Equal(t, "2025-04-01", series[0].Date.Format("2006-01-02"))
	assert.Equal(t, 554.20, series[0].Close)
	assert.Equal(t, 559.50, series[1].Close)
	assert.Equal(t, 540.00, series[2].Close)
}

func TestDailyAdjustedEmpty(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note": "rate limited"}`))
	})

	_, err := client.DailyAdjusted(context.Background(), "SPY")
	assert.Error(t, err)
}

func TestCPIDropsNonNumeric(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "CPI", r.URL.Query().Get("function"))
		w.Write([]byte(`{
			"data": [
				{"date": "2025-03-01", "value": "319.8"},
				{"date": "2025-02-01", "value": "."},
				{"date": "2025-01-01", "value": "317.7"}
			]
		}`))
	})

	points, err := client.CPI(context.Background())
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 317.7, points[0].Value)
	assert.Equal(t, 319.8, points[1].Value)
}

func TestFXDaily(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "FX_DAILY", r.URL.Query().Get("function"))
		assert.Equal(t, "EUR", r.URL.Query().Get("from_symbol"))
		assert.Equal(t, "USD", r.URL.Query().Get("to_symbol"))
		w.Write([]byte(`{
			"Time Series FX (Daily)": {
				"2025-04-01": {"4. close": "1.0810"},
				"2025-04-02": {"4. close": "1.0845"}
			}
		}`))
	})

	series, err := client.FXDaily(context.Background(), "EUR", "USD")
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, 1.0810, series[0].Close)
}

func TestNewsFeed(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "NEWS_SENTIMENT", r.URL.Query().Get("function"))
		assert.Equal(t, "SPY,QQQ", r.URL.Query().Get("tickers"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		w.Write([]byte(`{
			"feed": [
				{"title": "Stocks rally on earnings", "summary": "Broad gains across sectors."},
				{"title": "Rates hold steady", "summary": "Central bank leaves policy unchanged."}
			]
		}`))
	})

	articles, err := client.NewsFeed(context.Background(), []string{"SPY", "QQQ"}, "20250101T0000", 50)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "Stocks rally on earnings", articles[0].Title)
}

func TestRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"data": [{"date": "2025-01-01", "value": "4.33"}]}`))
	})

	points, err := client.FedFundsRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	require.Len(t, points, 1)
	assert.Equal(t, 4.33, points[0].Value)
}

func TestRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Unemployment(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "UNEMPLOYMENT", apiErr.Function)
}
