// Package interfaces defines client and service contracts for Quill
package interfaces

import (
	"context"

	"github.com/bobmcallan/quill/internal/models"
)

// MarketDataClient provides access to the market data provider.
// All series come back chronologically ordered (oldest first).
type MarketDataClient interface {
	// DailyAdjusted retrieves the adjusted daily close series for a symbol
	DailyAdjusted(ctx context.Context, symbol string) (models.PriceSeries, error)

	// FXDaily retrieves the daily close series for a currency pair
	FXDaily(ctx context.Context, base, quote string) (models.PriceSeries, error)

	// CPI retrieves the monthly consumer price index series
	CPI(ctx context.Context) ([]models.IndicatorPoint, error)

	// FedFundsRate retrieves the monthly policy rate series
	FedFundsRate(ctx context.Context) ([]models.IndicatorPoint, error)

	// TreasuryYield10Y retrieves the daily 10-year treasury yield series
	TreasuryYield10Y(ctx context.Context) ([]models.IndicatorPoint, error)

	// RealGDP retrieves the annual real GDP series
	RealGDP(ctx context.Context) ([]models.IndicatorPoint, error)

	// Unemployment retrieves the monthly unemployment rate series
	Unemployment(ctx context.Context) ([]models.IndicatorPoint, error)

	// AllCommodities retrieves the monthly global commodities index series
	AllCommodities(ctx context.Context) ([]models.IndicatorPoint, error)

	// NewsFeed retrieves recent news articles for the given tickers
	NewsFeed(ctx context.Context, tickers []string, timeFrom string, limit int) ([]models.NewsArticle, error)
}

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat-style message sent to the text-generation backend.
type Message struct {
	Role    string
	Content string
}

// GenerateOption configures a text generation request
type GenerateOption func(*GenerateParams)

// GenerateParams holds text generation parameters
type GenerateParams struct {
	Model       string
	Temperature *float64
}

// WithModel overrides the backend model for one request
func WithModel(model string) GenerateOption {
	return func(p *GenerateParams) {
		if model != "" {
			p.Model = model
		}
	}
}

// WithTemperature sets the sampling temperature for one request
func WithTemperature(t float64) GenerateOption {
	return func(p *GenerateParams) {
		p.Temperature = &t
	}
}

// TextGenerator provides access to the text-generation backend
type TextGenerator interface {
	// Generate invokes the backend once with the composed messages
	Generate(ctx context.Context, messages []Message, opts ...GenerateOption) (string, error)
}
