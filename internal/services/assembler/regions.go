package assembler

import "strings"

// fxPair is an ordered currency pair.
type fxPair struct {
	Base  string
	Quote string
}

// Region keyword to FX pair mapping. Entries are ordered; the first keyword
// found as a case-insensitive substring of the market region wins.
var fxRegionMap = []struct {
	keyword string
	pairs   []fxPair
}{
	{"u.s.", []fxPair{{"USD", "JPY"}, {"EUR", "USD"}}},
	{"us ", []fxPair{{"USD", "JPY"}, {"EUR", "USD"}}},
	{"united states", []fxPair{{"USD", "JPY"}, {"EUR", "USD"}}},
	{"emerging", []fxPair{{"USD", "CNY"}, {"USD", "INR"}, {"USD", "BRL"}}},
	{"europe", []fxPair{{"EUR", "USD"}, {"EUR", "GBP"}, {"USD", "CHF"}}},
	{"japan", []fxPair{{"USD", "JPY"}}},
	{"uk", []fxPair{{"GBP", "USD"}, {"EUR", "GBP"}}},
}

var defaultFXPairs = []fxPair{{"EUR", "USD"}, {"USD", "JPY"}}

func regionFXPairs(marketRegion string) []fxPair {
	mr := strings.ToLower(marketRegion)
	for _, entry := range fxRegionMap {
		if strings.Contains(mr, entry.keyword) {
			return entry.pairs
		}
	}
	return defaultFXPairs
}

// regionNewsTickers selects the news query tickers for a market region.
func regionNewsTickers(marketRegion string) []string {
	mr := strings.ToLower(marketRegion)
	if strings.Contains(mr, "emerging") {
		return []string{"FOREX:USD", "FOREX:CNY", "FOREX:BRL", "CRYPTO:BTC"}
	}
	if strings.Contains(mr, "europe") {
		return []string{"FOREX:EUR", "FOREX:GBP", "FOREX:USD"}
	}
	return []string{"FOREX:USD", "CRYPTO:BTC"}
}
