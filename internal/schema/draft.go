// Package schema defines the unvalidated commentary draft and the rules
// that convert it into a validated models.MarketContext.
package schema

import (
	"bytes"
	"encoding/json"

	"github.com/bobmcallan/quill/internal/models"
)

// Draft is the loosely-typed candidate document. Assemblers and API callers
// build a Draft; only Validate converts it into a models.MarketContext, so
// an unvalidated document can never be mistaken for a validated one.
type Draft struct {
	Period                string                       `json:"period" validate:"required"`
	MarketRegion          string                       `json:"market_region" validate:"required"`
	Benchmark             string                       `json:"benchmark" validate:"required"`
	BenchmarkReturnPct    *float64                     `json:"benchmark_return_total_pct,omitempty" validate:"omitempty,gte=-100,lte=100"`
	QualitativeMarketMove string                       `json:"qualitative_market_move,omitempty"`
	IndexLevelEvents      []DraftIndexEvent            `json:"index_level_events,omitempty" validate:"omitempty,dive"`
	Macro                 *models.Macro                `json:"macro,omitempty"`
	BreadthConcentration  *models.BreadthConcentration `json:"breadth_concentration,omitempty"`
	SectorThemes          []models.SectorTheme         `json:"sector_themes,omitempty"`
	StyleRotation         *models.StyleRotation        `json:"style_rotation,omitempty"`
	Disclaimers           string                       `json:"disclaimers,omitempty"`
}

// DraftIndexEvent is the unvalidated form of models.IndexEvent.
type DraftIndexEvent struct {
	Date          string   `json:"date" validate:"required,datetime=2006-01-02"`
	Description   string   `json:"description" validate:"required"`
	OneDayMovePct *float64 `json:"one_day_move_pct,omitempty"`
}

// DecodeDraft strictly decodes a JSON candidate document into a Draft.
// Type coercion failures abort before any rule checks run.
func DecodeDraft(data []byte) (*Draft, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var d Draft
	if err := dec.Decode(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

// DraftFrom rebuilds a Draft from a validated document. Round-tripping a
// validated document through DraftFrom and Validate yields no errors.
func DraftFrom(mc *models.MarketContext) *Draft {
	d := &Draft{
		Period:                mc.Period,
		MarketRegion:          mc.MarketRegion,
		Benchmark:             mc.Benchmark,
		BenchmarkReturnPct:    mc.BenchmarkReturnPct,
		QualitativeMarketMove: mc.QualitativeMarketMove,
		Macro:                 mc.Macro,
		BreadthConcentration:  mc.BreadthConcentration,
		SectorThemes:          mc.SectorThemes,
		StyleRotation:         mc.StyleRotation,
		Disclaimers:           mc.Disclaimers,
	}
	for _, ev := range mc.IndexLevelEvents {
		d.IndexLevelEvents = append(d.IndexLevelEvents, DraftIndexEvent{
			Date:          ev.Date,
			Description:   ev.Description,
			OneDayMovePct: ev.OneDayMovePct,
		})
	}
	return d
}

// toMarketContext converts a fully checked draft into the validated type.
func (d *Draft) toMarketContext() *models.MarketContext {
	mc := &models.MarketContext{
		Period:                d.Period,
		MarketRegion:          d.MarketRegion,
		Benchmark:             d.Benchmark,
		BenchmarkReturnPct:    d.BenchmarkReturnPct,
		QualitativeMarketMove: d.QualitativeMarketMove,
		Macro:                 d.Macro,
		BreadthConcentration:  d.BreadthConcentration,
		SectorThemes:          d.SectorThemes,
		StyleRotation:         d.StyleRotation,
		Disclaimers:           d.Disclaimers,
	}
	for _, ev := range d.IndexLevelEvents {
		mc.IndexLevelEvents = append(mc.IndexLevelEvents, models.IndexEvent{
			Date:          ev.Date,
			Description:   ev.Description,
			OneDayMovePct: ev.OneDayMovePct,
		})
	}
	return mc
}
