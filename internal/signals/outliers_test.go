package signals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/quill/internal/models"
)

func series(closes ...float64) models.PriceSeries {
	out := make(models.PriceSeries, len(closes))
	for i, c := range closes {
		out[i] = models.PricePoint{
			Date:  time.Date(2025, 4, i+1, 0, 0, 0, 0, time.UTC),
			Close: c,
		}
	}
	return out
}

func TestDetectTooFewObservations(t *testing.T) {
	d := NewDetector(0, 0)
	assert.Nil(t, d.DetectOutsizedMoves(series(100, 101, 102, 103)))
}

func TestDetectConstantSeries(t *testing.T) {
	d := NewDetector(0, 0)
	assert.Nil(t, d.DetectOutsizedMoves(series(100, 100, 100, 100, 100, 100)))
}

func TestDetectZeroPreviousClose(t *testing.T) {
	d := NewDetector(0, 0)
	assert.Nil(t, d.DetectOutsizedMoves(series(100, 0, 100, 101, 102, 103)))
}

func TestDetectSingleOutsizedMove(t *testing.T) {
	d := NewDetector(0, 0)

	events := d.DetectOutsizedMoves(series(100, 101, 100, 101, 100, 110))
	require.Len(t, events, 1)
	assert.Equal(t, "2025-04-06", events[0].Date)
	assert.Equal(t, 10.0, events[0].Pct)
}

func TestDetectOrdersByMagnitudeThenDate(t *testing.T) {
	// the up and down moves have identical magnitude, so ordering falls
	// back to date ascending
	d := NewDetector(1.0, 3)

	events := d.DetectOutsizedMoves(series(100, 150, 75, 75, 75, 75))
	require.Len(t, events, 2)
	assert.Equal(t, "2025-04-02", events[0].Date)
	assert.Equal(t, 50.0, events[0].Pct)
	assert.Equal(t, "2025-04-03", events[1].Date)
	assert.Equal(t, -50.0, events[1].Pct)
}

func TestDetectCapsEvents(t *testing.T) {
	d := NewDetector(1.0, 1)

	events := d.DetectOutsizedMoves(series(100, 150, 75, 75, 75, 75))
	require.Len(t, events, 1)
	assert.Equal(t, "2025-04-02", events[0].Date)
}

func TestNewDetectorDefaults(t *testing.T) {
	d := NewDetector(-1, 0)
	assert.Equal(t, DefaultZThreshold, d.threshold)
	assert.Equal(t, DefaultMaxEvents, d.maxEvents)
}
