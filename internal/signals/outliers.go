// Package signals computes statistical signals from price history
package signals

import (
	"math"
	"sort"

	"github.com/bobmcallan/quill/internal/models"
)

const (
	DefaultZThreshold = 1.5
	DefaultMaxEvents  = 3

	// minObservations is the smallest sample admitted for outlier
	// detection; anything shorter yields no events.
	minObservations = 5
)

// Detector flags outsized single-day moves in a daily price series.
// A move is outsized when its magnitude is at least threshold times the
// sample standard deviation of the series' daily returns, so the rule
// adapts to each benchmark's volatility regime.
type Detector struct {
	threshold float64
	maxEvents int
}

// NewDetector creates a detector. Non-positive arguments fall back to the
// defaults.
func NewDetector(threshold float64, maxEvents int) *Detector {
	if threshold <= 0 {
		threshold = DefaultZThreshold
	}
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}
	return &Detector{threshold: threshold, maxEvents: maxEvents}
}

type dailyReturn struct {
	date string
	ret  float64
}

// DetectOutsizedMoves returns up to maxEvents detected events ordered by
// descending magnitude, ties broken by date ascending. Short, flat, or
// degenerate series yield no events.
func (d *Detector) DetectOutsizedMoves(prices models.PriceSeries) []models.DetectedEvent {
	if len(prices) < minObservations {
		return nil
	}

	returns := make([]dailyReturn, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1].Close
		if prev == 0 {
			return nil
		}
		returns = append(returns, dailyReturn{
			date: prices[i].Date.Format("2006-01-02"),
			ret:  prices[i].Close/prev - 1.0,
		})
	}

	sigma := sampleStdDev(returns)
	if math.IsNaN(sigma) || math.IsInf(sigma, 0) || sigma == 0 {
		return nil
	}

	cutoff := d.threshold * sigma
	flagged := make([]dailyReturn, 0, len(returns))
	for _, r := range returns {
		if math.Abs(r.ret) >= cutoff {
			flagged = append(flagged, r)
		}
	}

	sort.SliceStable(flagged, func(i, j int) bool {
		ai, aj := math.Abs(flagged[i].ret), math.Abs(flagged[j].ret)
		if ai != aj {
			return ai > aj
		}
		return flagged[i].date < flagged[j].date
	})

	if len(flagged) > d.maxEvents {
		flagged = flagged[:d.maxEvents]
	}

	events := make([]models.DetectedEvent, len(flagged))
	for i, r := range flagged {
		events[i] = models.DetectedEvent{
			Date: r.date,
			Pct:  math.Round(r.ret*100.0*100.0) / 100.0,
		}
	}
	return events
}

// sampleStdDev computes the n-1 standard deviation of the returns.
func sampleStdDev(returns []dailyReturn) float64 {
	n := len(returns)
	if n < 2 {
		return 0
	}

	var mean float64
	for _, r := range returns {
		mean += r.ret
	}
	mean /= float64(n)

	var ss float64
	for _, r := range returns {
		diff := r.ret - mean
		ss += diff * diff
	}
	return math.Sqrt(ss / float64(n-1))
}
