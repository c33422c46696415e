package assembler

import (
	"fmt"

	"github.com/bobmcallan/quill/internal/models"
)

// Benchmark labels and their ETF proxy symbols, in presentation order.
var benchmarks = []struct {
	Label  string
	Symbol string
}{
	{"S&P 500", "SPY"},
	{"S&P 500 Equal Weight", "RSP"},
	{"Russell 3000", "IWV"},
	{"Russell 1000", "IWB"},
	{"Russell 1000 Growth", "IWF"},
	{"Russell 1000 Value", "IWD"},
	{"Russell Midcap", "IWR"},
	{"Russell 2000", "IWM"},
	{"MSCI ACWI", "ACWI"},
	{"MSCI EAFE", "EFA"},
	{"MSCI Emerging Markets", "EEM"},
	{"NASDAQ-100", "QQQ"},
}

// BenchmarkSymbol resolves a benchmark label to its ETF proxy symbol.
func BenchmarkSymbol(label string) (string, bool) {
	for _, b := range benchmarks {
		if b.Label == label {
			return b.Symbol, true
		}
	}
	return "", false
}

// BenchmarkLabels returns the supported benchmark labels in order.
func BenchmarkLabels() []string {
	labels := make([]string, len(benchmarks))
	for i, b := range benchmarks {
		labels[i] = b.Label
	}
	return labels
}

// GICS sector names and their SPDR proxy ETFs.
var sectorETFs = []struct {
	Sector string
	Symbol string
}{
	{"Communication Services", "XLC"},
	{"Consumer Discretionary", "XLY"},
	{"Consumer Staples", "XLP"},
	{"Energy", "XLE"},
	{"Financials", "XLF"},
	{"Health Care", "XLV"},
	{"Industrials", "XLI"},
	{"Information Technology", "XLK"},
	{"Materials", "XLB"},
	{"Real Estate", "XLRE"},
	{"Utilities", "XLU"},
}

// RegionPresets returns the curated region/benchmark preset pairs.
func RegionPresets() []models.RegionPreset {
	return []models.RegionPreset{
		{ID: "us_large_core", Label: "U.S. equities (large-cap core)", Benchmark: "S&P 500"},
		{ID: "us_all_cap_core", Label: "U.S. equities (all-cap core)", Benchmark: "Russell 3000"},
		{ID: "us_small_cap", Label: "U.S. equities (small-cap)", Benchmark: "Russell 2000"},
		{ID: "us_large_growth", Label: "U.S. equities (large-cap growth)", Benchmark: "Russell 1000 Growth"},
		{ID: "us_large_value", Label: "U.S. equities (large-cap value)", Benchmark: "Russell 1000 Value"},
		{ID: "us_mid_cap", Label: "U.S. equities (mid-cap)", Benchmark: "Russell Midcap"},
		{ID: "global_equity", Label: "Global equities", Benchmark: "MSCI ACWI"},
		{ID: "intl_dev", Label: "International developed equities", Benchmark: "MSCI EAFE"},
		{ID: "em_equity", Label: "Emerging markets equities", Benchmark: "MSCI Emerging Markets"},
		{ID: "us_equal_weight", Label: "U.S. equities (equal-weight)", Benchmark: "S&P 500 Equal Weight"},
		{ID: "global_growth_tech", Label: "Global large-cap growth (tech tilt)", Benchmark: "NASDAQ-100"},
	}
}

// QuarterLabels returns quarter labels from start back to end inclusive,
// newest first.
func QuarterLabels(startYear, startQuarter, endYear, endQuarter int) []string {
	var out []string
	y, q := startYear, startQuarter
	for y > endYear || (y == endYear && q >= endQuarter) {
		out = append(out, fmt.Sprintf("Q%d %d", q, y))
		if q > 1 {
			q--
		} else {
			y--
			q = 4
		}
	}
	return out
}
