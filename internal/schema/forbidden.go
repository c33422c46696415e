package schema

import (
	"fmt"
	"regexp"
)

// ForbiddenTermsRe matches first-person and fund-specific language that must
// never appear in a market context document or in generated output.
var ForbiddenTermsRe = regexp.MustCompile(`(?i)\b(we|our|us|the fund|portfolio|overweight|underweight|selection|allocation)\b`)

// ContainsForbiddenTerm reports whether text contains any forbidden term as
// a whole word, case-insensitively.
func ContainsForbiddenTerm(text string) bool {
	return ForbiddenTermsRe.MatchString(text)
}

// forbiddenTermErrors scans every free-text field of the draft, including
// nested list and object fields, and reports one error per offending field
// naming its path.
func forbiddenTermErrors(d *Draft) []string {
	var errs []string

	check := func(text, path string) {
		if text != "" && ForbiddenTermsRe.MatchString(text) {
			errs = append(errs, fmt.Sprintf("%s: contains forbidden fund-specific language", path))
		}
	}

	check(d.MarketRegion, "market_region")
	check(d.Benchmark, "benchmark")
	check(d.QualitativeMarketMove, "qualitative_market_move")

	for i, ev := range d.IndexLevelEvents {
		check(ev.Description, fmt.Sprintf("index_level_events[%d].description", i))
	}

	if m := d.Macro; m != nil {
		check(m.Inflation, "macro.inflation")
		check(m.PolicyRate, "macro.policy_rate")
		check(m.Yields, "macro.yields")
		check(m.Growth, "macro.growth")
		check(m.Employment, "macro.employment")
		check(m.FX, "macro.fx")
		check(m.Credit, "macro.credit")
		check(m.Commodities, "macro.commodities")
		for i, s := range m.PolicyGeopolitics {
			check(s, fmt.Sprintf("macro.policy_geopolitics[%d]", i))
		}
	}

	if bc := d.BreadthConcentration; bc != nil {
		check(bc.Description, "breadth_concentration.description")
		check(bc.TopNamesContributionPct, "breadth_concentration.top_names_contribution_pct")
		check(bc.AdvanceDecline, "breadth_concentration.advance_decline")
	}

	for i, st := range d.SectorThemes {
		check(st.Sector, fmt.Sprintf("sector_themes[%d].sector", i))
		check(st.Theme, fmt.Sprintf("sector_themes[%d].theme", i))
	}

	if sr := d.StyleRotation; sr != nil {
		check(sr.ValueVsGrowth, "style_rotation.value_vs_growth")
		check(sr.Size, "style_rotation.size")
		check(sr.Quality, "style_rotation.quality")
		check(sr.Volatility, "style_rotation.volatility")
	}

	check(d.Disclaimers, "disclaimers")

	return errs
}
