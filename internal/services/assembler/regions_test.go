package assembler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegionFXPairs(t *testing.T) {
	tests := []struct {
		region string
		pairs  []fxPair
	}{
		{"U.S. equities (small-cap)", []fxPair{{"USD", "JPY"}, {"EUR", "USD"}}},
		{"Emerging markets equities", []fxPair{{"USD", "CNY"}, {"USD", "INR"}, {"USD", "BRL"}}},
		{"European equities", []fxPair{{"EUR", "USD"}, {"EUR", "GBP"}, {"USD", "CHF"}}},
		{"Japan equities", []fxPair{{"USD", "JPY"}}},
		{"UK equities", []fxPair{{"GBP", "USD"}, {"EUR", "GBP"}}},
		{"Global equities", []fxPair{{"EUR", "USD"}, {"USD", "JPY"}}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.pairs, regionFXPairs(tt.region), tt.region)
	}
}

func TestRegionNewsTickers(t *testing.T) {
	assert.Equal(t, []string{"FOREX:USD", "FOREX:CNY", "FOREX:BRL", "CRYPTO:BTC"},
		regionNewsTickers("Emerging markets equities"))
	assert.Equal(t, []string{"FOREX:EUR", "FOREX:GBP", "FOREX:USD"},
		regionNewsTickers("European equities"))
	assert.Equal(t, []string{"FOREX:USD", "CRYPTO:BTC"},
		regionNewsTickers("U.S. equities"))
}

func TestQuarterLabels(t *testing.T) {
	labels := QuarterLabels(2025, 2, 2023, 1)
	assert.Len(t, labels, 10)
	assert.Equal(t, "Q2 2025", labels[0])
	assert.Equal(t, "Q1 2025", labels[1])
	assert.Equal(t, "Q4 2024", labels[2])
	assert.Equal(t, "Q1 2023", labels[len(labels)-1])
}

func TestBenchmarkSymbol(t *testing.T) {
	symbol, ok := BenchmarkSymbol("Russell 2000")
	assert.True(t, ok)
	assert.Equal(t, "IWM", symbol)

	_, ok = BenchmarkSymbol("FTSE 100")
	assert.False(t, ok)
}
