// Package report renders supporting artifacts for generated commentary.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/quill/internal/models"
)

// RenderBenchmarkChart renders a PNG line chart of the benchmark's daily
// closes over the period, with detected outsized moves annotated as points.
// Returns raw PNG bytes.
func RenderBenchmarkChart(benchmark string, prices models.PriceSeries, events []models.DetectedEvent) ([]byte, error) {
	if len(prices) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(prices))
	}

	xValues := make([]time.Time, len(prices))
	yValues := make([]float64, len(prices))
	byDate := make(map[string]float64, len(prices))
	for i, p := range prices {
		xValues[i] = p.Date
		yValues[i] = p.Close
		byDate[p.Date.Format("2006-01-02")] = p.Close
	}

	priceSeries := chart.TimeSeries{
		Name: benchmark,
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.0,
		},
		XValues: xValues,
		YValues: yValues,
	}

	series := []chart.Series{priceSeries}

	var eventX []time.Time
	var eventY []float64
	for _, ev := range events {
		if close, ok := byDate[ev.Date]; ok {
			d, err := time.Parse("2006-01-02", ev.Date)
			if err != nil {
				continue
			}
			eventX = append(eventX, d)
			eventY = append(eventY, close)
		}
	}
	if len(eventX) > 0 {
		series = append(series, chart.TimeSeries{
			Name: "Outsized moves",
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    5,
				DotColor:    drawing.ColorFromHex("dc2626"), // red-600
			},
			XValues: eventX,
			YValues: eventY,
		})
	}

	graph := chart.Chart{
		Title:  benchmark + " daily close",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 02")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Series: series,
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
