package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/quill/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func validDraft() *Draft {
	return &Draft{
		Period:             "Q2 2025",
		MarketRegion:       "U.S. equities (small-cap)",
		Benchmark:          "Russell 2000",
		BenchmarkReturnPct: floatPtr(-1.79),
		IndexLevelEvents: []DraftIndexEvent{
			{Date: "2025-04-08", Description: "Tariff pause announced", OneDayMovePct: floatPtr(9.5)},
		},
		Macro: &models.Macro{
			Inflation:         "Headline CPI 3.1% YoY, easing",
			PolicyRate:        "Fed on hold; markets price 2-3 cuts in 2025",
			Yields:            "10y UST ~4.22%",
			Growth:            "EPS revisions trimmed; GDP resilient",
			Employment:        "not provided",
			FX:                "USD weaker vs. basket",
			Credit:            "High-yield spreads narrowed",
			Commodities:       "not provided",
			PolicyGeopolitics: []string{"Tariffs narrative volatility", "Geopolitical flare-ups"},
		},
		BreadthConcentration: &models.BreadthConcentration{
			Description:             "Risk-on, high beta outperformed; market narrowness increased",
			TopNamesContributionPct: "not provided",
			AdvanceDecline:          "not provided",
		},
		SectorThemes: []models.SectorTheme{
			{Sector: "Information Technology", Theme: "AI-related demand; strong rally"},
			{Sector: "Health Care", Theme: "Biotech weakness"},
		},
		StyleRotation: &models.StyleRotation{
			ValueVsGrowth: "Growth outperformed",
			Size:          "Large > Small",
			Quality:       "Low-quality beta led",
			Volatility:    "Elevated headline-driven swings; VIX level not provided",
		},
		Disclaimers: "No forecasts; monitoring policy path and earnings dispersion",
	}
}

func TestValidateAcceptsFullDocument(t *testing.T) {
	mc, errs := Validate(validDraft())
	require.Empty(t, errs)
	require.NotNil(t, mc)
	assert.Equal(t, "Q2 2025", mc.Period)
	assert.Equal(t, -1.79, *mc.BenchmarkReturnPct)
	require.Len(t, mc.IndexLevelEvents, 1)
	assert.Equal(t, "2025-04-08", mc.IndexLevelEvents[0].Date)
}

func TestValidateMissingRequiredFields(t *testing.T) {
	d := validDraft()
	d.Period = ""
	d.Benchmark = ""

	mc, errs := Validate(d)
	assert.Nil(t, mc)
	assert.Contains(t, errs, "required: period")
	assert.Contains(t, errs, "required: benchmark")
}

func TestValidateStructuralFailsFast(t *testing.T) {
	// a structurally broken draft reports only the structural error, even
	// when later stages would also fail
	d := validDraft()
	d.BenchmarkReturnPct = floatPtr(150)
	d.MarketRegion = "our region" // would fail the content stage

	mc, errs := Validate(d)
	assert.Nil(t, mc)
	require.Len(t, errs, 1)
	assert.Equal(t, "benchmark_return_total_pct must be between -100 and 100", errs[0])
}

func TestValidateRequiredCombo(t *testing.T) {
	d := validDraft()
	d.BenchmarkReturnPct = nil
	d.QualitativeMarketMove = ""

	mc, errs := Validate(d)
	assert.Nil(t, mc)
	assert.Equal(t, []string{"required: at least one of benchmark_return_total_pct or qualitative_market_move"}, errs)

	// a qualitative description alone satisfies the combination
	d.QualitativeMarketMove = "Benchmark declined modestly amid rotation"
	mc, errs = Validate(d)
	assert.Empty(t, errs)
	assert.NotNil(t, mc)
}

func TestValidateEventDateFormat(t *testing.T) {
	d := validDraft()
	d.IndexLevelEvents[0].Date = "04/08/2025"

	mc, errs := Validate(d)
	assert.Nil(t, mc)
	assert.Contains(t, errs, "index_level_events date must be ISO format YYYY-MM-DD")
}

func TestValidateAccumulatesContentErrors(t *testing.T) {
	d := validDraft()
	d.Period = "Q5 2025"
	d.Macro.FX = "our FX view improved"
	d.SectorThemes[1].Theme = "portfolio rotation into defensives"
	d.IndexLevelEvents[0].OneDayMovePct = floatPtr(150)

	mc, errs := Validate(d)
	assert.Nil(t, mc)
	assert.Equal(t, []string{
		"macro.fx: contains forbidden fund-specific language",
		"sector_themes[1].theme: contains forbidden fund-specific language",
		"index_level_events[0].one_day_move_pct must be between -100 and 100",
		"period must be 'Q# YYYY' or 'YYYY-MM-DD to YYYY-MM-DD'",
	}, errs)
}

func TestValidatePeriodRange(t *testing.T) {
	d := validDraft()
	d.Period = "2025-04-01 to 2025-06-30"
	mc, errs := Validate(d)
	assert.Empty(t, errs)
	assert.NotNil(t, mc)

	d.Period = "2025-06-30 to 2025-04-01"
	mc, errs = Validate(d)
	assert.Nil(t, mc)
	assert.Equal(t, []string{"period range start must be <= end"}, errs)
}

func TestValidateRoundTrip(t *testing.T) {
	mc, errs := Validate(validDraft())
	require.Empty(t, errs)

	again, errs := Validate(DraftFrom(mc))
	require.Empty(t, errs)
	assert.Equal(t, mc, again)
}

func TestDecodeDraftRejectsUnknownFields(t *testing.T) {
	_, err := DecodeDraft([]byte(`{"period":"Q2 2025","benchmark":"S&P 500","surprise":true}`))
	assert.Error(t, err)
}

func TestDecodeDraft(t *testing.T) {
	d, err := DecodeDraft([]byte(`{"period":"Q2 2025","market_region":"U.S. equities","benchmark":"S&P 500","benchmark_return_total_pct":4.5}`))
	require.NoError(t, err)
	assert.Equal(t, "Q2 2025", d.Period)
	assert.Equal(t, 4.5, *d.BenchmarkReturnPct)
}
