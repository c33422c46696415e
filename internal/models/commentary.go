// Package models defines the domain types for Quill
package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Period format patterns. A period is either a quarter label ("Q2 2025")
// or an explicit ISO date range ("2025-04-01 to 2025-06-30").
var (
	PeriodQuarterRe = regexp.MustCompile(`^Q[1-4] 20\d{2}$`)
	PeriodRangeRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} to \d{4}-\d{2}-\d{2}$`)
)

// PeriodBounds resolves a period string to its inclusive start and end dates.
func PeriodBounds(period string) (time.Time, time.Time, error) {
	if PeriodQuarterRe.MatchString(period) {
		var quarter, year int
		if _, err := fmt.Sscanf(period, "Q%d %d", &quarter, &year); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid quarter period %q: %w", period, err)
		}
		start := time.Date(year, time.Month(3*(quarter-1)+1), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 3, 0).AddDate(0, 0, -1)
		return start, end, nil
	}

	if PeriodRangeRe.MatchString(period) {
		startStr, endStr, _ := strings.Cut(period, " to ")
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid range start %q: %w", startStr, err)
		}
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid range end %q: %w", endStr, err)
		}
		return start, end, nil
	}

	return time.Time{}, time.Time{}, fmt.Errorf("period %q must be 'Q# YYYY' or 'YYYY-MM-DD to YYYY-MM-DD'", period)
}

// NotProvided is the sentinel substituted for any field an external data
// source cannot supply.
const NotProvided = "not provided"

// MarketContext is the validated commentary input document. It is produced
// only by schema.Validate and is immutable by convention afterwards.
type MarketContext struct {
	Period                 string                `json:"period"`
	MarketRegion           string                `json:"market_region"`
	Benchmark              string                `json:"benchmark"`
	BenchmarkReturnPct     *float64              `json:"benchmark_return_total_pct,omitempty"`
	QualitativeMarketMove  string                `json:"qualitative_market_move,omitempty"`
	IndexLevelEvents       []IndexEvent          `json:"index_level_events,omitempty"`
	Macro                  *Macro                `json:"macro,omitempty"`
	BreadthConcentration   *BreadthConcentration `json:"breadth_concentration,omitempty"`
	SectorThemes           []SectorTheme         `json:"sector_themes,omitempty"`
	StyleRotation          *StyleRotation        `json:"style_rotation,omitempty"`
	Disclaimers            string                `json:"disclaimers,omitempty"`
}

// IndexEvent is a caller-supplied index-level event.
type IndexEvent struct {
	Date           string   `json:"date"`
	Description    string   `json:"description"`
	OneDayMovePct  *float64 `json:"one_day_move_pct,omitempty"`
}

// Macro is the macro snapshot section of the document.
type Macro struct {
	Inflation         string   `json:"inflation,omitempty"`
	PolicyRate        string   `json:"policy_rate,omitempty"`
	Yields            string   `json:"yields,omitempty"`
	Growth            string   `json:"growth,omitempty"`
	Employment        string   `json:"employment,omitempty"`
	FX                string   `json:"fx,omitempty"`
	Credit            string   `json:"credit,omitempty"`
	Commodities       string   `json:"commodities,omitempty"`
	PolicyGeopolitics []string `json:"policy_geopolitics,omitempty"`
}

// BreadthConcentration describes market breadth and concentration.
type BreadthConcentration struct {
	Description             string `json:"description,omitempty"`
	TopNamesContributionPct string `json:"top_names_contribution_pct,omitempty"`
	AdvanceDecline          string `json:"advance_decline,omitempty"`
}

// SectorTheme pairs a sector with its period theme.
type SectorTheme struct {
	Sector string `json:"sector"`
	Theme  string `json:"theme"`
}

// StyleRotation describes factor/style behavior over the period.
type StyleRotation struct {
	ValueVsGrowth string `json:"value_vs_growth,omitempty"`
	Size          string `json:"size,omitempty"`
	Quality       string `json:"quality,omitempty"`
	Volatility    string `json:"volatility,omitempty"`
}

// DetectedEvent is an outsized single-day move flagged by the detector.
// Derived from price history, never user-supplied.
type DetectedEvent struct {
	Date string  `json:"date"`
	Pct  float64 `json:"pct"`
}

// PricePoint is one daily observation of a price series.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries is a chronologically ordered daily price series.
type PriceSeries []PricePoint

// TotalReturnPct returns the simple total return over the series as a
// percentage, or nil when the series is too short or degenerate.
func (s PriceSeries) TotalReturnPct() *float64 {
	if len(s) < 2 {
		return nil
	}
	first, last := s[0].Close, s[len(s)-1].Close
	if first <= 0 {
		return nil
	}
	ret := (last/first - 1.0) * 100.0
	return &ret
}

// Between returns the sub-series with dates in [start, end] inclusive.
func (s PriceSeries) Between(start, end time.Time) PriceSeries {
	out := make(PriceSeries, 0, len(s))
	for _, p := range s {
		if p.Date.Before(start) || p.Date.After(end) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// IndicatorPoint is one observation of an economic indicator series.
type IndicatorPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// NewsArticle is a news feed item used for keyword extraction only.
type NewsArticle struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}
