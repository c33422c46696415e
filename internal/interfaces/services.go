package interfaces

import (
	"context"

	"github.com/bobmcallan/quill/internal/models"
)

// AssemblerService builds validated market context payloads from external
// data collaborators.
type AssemblerService interface {
	// Assemble queries the collaborators and returns a validated payload,
	// or the accumulated validation errors. Missing data degrades to the
	// "not provided" sentinel; only validation failure is fatal.
	Assemble(ctx context.Context, period, marketRegion, benchmark string) (*models.MarketContext, []string)

	// DailyPrices returns the benchmark's daily price series for the
	// period, for event detection and charting.
	DailyPrices(ctx context.Context, period, benchmark string) (models.PriceSeries, error)

	// CalendarHints returns short macro calendar lines ("CPI:…", "FOMC:…")
	// passed to the narrator as context.
	CalendarHints(ctx context.Context) []string
}

// NarrativeOptions tunes one commentary generation run.
type NarrativeOptions struct {
	ParaMin    int
	ParaMax    int
	MaxRetries int
	Model      string
}

// NarrativeService composes, generates, checks, and critiques the market
// context commentary.
type NarrativeService interface {
	// GenerateMarketContext runs the full compose, generate, check, and
	// critique loop and returns the accepted markdown document.
	GenerateMarketContext(ctx context.Context, payload *models.MarketContext, events []models.DetectedEvent, calendarHints []string, opts NarrativeOptions) (string, error)
}
