// Package assembler builds validated commentary input documents from
// external market data, degrading gracefully when sources fail.
package assembler

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/bobmcallan/quill/internal/common"
	"github.com/bobmcallan/quill/internal/interfaces"
	"github.com/bobmcallan/quill/internal/models"
	"github.com/bobmcallan/quill/internal/schema"
)

const newsFeedLimit = 200

// Service assembles market context payloads. Every data-source failure
// degrades the affected field to the "not provided" sentinel; only
// validation of the finished document is fatal.
type Service struct {
	market interfaces.MarketDataClient
	logger *common.Logger
}

// NewService creates a new assembler service
func NewService(market interfaces.MarketDataClient, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{market: market, logger: logger}
}

// Assemble fetches all collaborator data for the period and returns the
// validated document, or the accumulated validation errors.
func (s *Service) Assemble(ctx context.Context, period, marketRegion, benchmark string) (*models.MarketContext, []string) {
	macro := &models.Macro{
		Inflation:   s.inflationLine(ctx),
		PolicyRate:  s.policyRateLine(ctx),
		Yields:      s.yieldsLine(ctx),
		Growth:      s.growthLine(ctx),
		Employment:  s.employmentLine(ctx),
		FX:          s.fxLine(ctx, period, marketRegion),
		Credit:      models.NotProvided,
		Commodities: s.commoditiesLine(ctx, period),
	}

	topics := s.newsTopics(ctx, period, marketRegion)
	if len(topics) == 0 {
		topics = []string{models.NotProvided}
	}
	macro.PolicyGeopolitics = topics

	draft := &schema.Draft{
		Period:             period,
		MarketRegion:       marketRegion,
		Benchmark:          benchmark,
		BenchmarkReturnPct: s.benchmarkReturn(ctx, period, benchmark),
		Macro:              macro,
		BreadthConcentration: &models.BreadthConcentration{
			Description:             models.NotProvided,
			TopNamesContributionPct: models.NotProvided,
			AdvanceDecline:          models.NotProvided,
		},
		SectorThemes: s.sectorThemes(ctx, period),
		StyleRotation: &models.StyleRotation{
			ValueVsGrowth: models.NotProvided,
			Size:          models.NotProvided,
			Quality:       models.NotProvided,
			Volatility:    models.NotProvided,
		},
		Disclaimers: "No forecasts; monitoring policy path and earnings dispersion",
	}

	return schema.Validate(draft)
}

// DailyPrices returns the benchmark's daily adjusted closes within the
// period. An unmapped benchmark yields an empty series.
func (s *Service) DailyPrices(ctx context.Context, period, benchmark string) (models.PriceSeries, error) {
	start, end, err := models.PeriodBounds(period)
	if err != nil {
		return nil, err
	}
	symbol, ok := BenchmarkSymbol(benchmark)
	if !ok {
		s.logger.Debug().Str("benchmark", benchmark).Msg("No ETF proxy for benchmark")
		return nil, nil
	}
	series, err := s.market.DailyAdjusted(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("daily prices for %s: %w", symbol, err)
	}
	return series.Between(start, end), nil
}

// CalendarHints returns prefixed macro calendar lines for event narration.
func (s *Service) CalendarHints(ctx context.Context) []string {
	var hints []string
	if line := s.inflationLine(ctx); line != models.NotProvided {
		hints = append(hints, "CPI:"+line)
	}
	if line := s.policyRateLine(ctx); line != models.NotProvided {
		hints = append(hints, "FOMC:"+line)
	}
	if line := s.yieldsLine(ctx); line != models.NotProvided {
		hints = append(hints, "UST10Y:"+line)
	}
	return hints
}

func (s *Service) inflationLine(ctx context.Context) string {
	points, err := s.market.CPI(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("CPI fetch failed")
		return models.NotProvided
	}
	// year over year from the monthly series
	if len(points) < 13 {
		return "Headline CPI " + models.NotProvided
	}
	latest := points[len(points)-1].Value
	yearAgo := points[len(points)-13].Value
	yoy := (latest/yearAgo - 1.0) * 100.0
	return fmt.Sprintf("Headline CPI %.1f%% YoY", yoy)
}

func (s *Service) policyRateLine(ctx context.Context) string {
	points, err := s.market.FedFundsRate(ctx)
	if err != nil || len(points) == 0 {
		s.logger.Warn().Err(err).Msg("Fed funds rate fetch failed")
		return models.NotProvided
	}
	return fmt.Sprintf("Fed funds rate %.2f%%", points[len(points)-1].Value)
}

func (s *Service) yieldsLine(ctx context.Context) string {
	points, err := s.market.TreasuryYield10Y(ctx)
	if err != nil || len(points) == 0 {
		s.logger.Warn().Err(err).Msg("10y treasury yield fetch failed")
		return models.NotProvided
	}
	return fmt.Sprintf("10y UST ~%.2f%%", points[len(points)-1].Value)
}

func (s *Service) growthLine(ctx context.Context) string {
	points, err := s.market.RealGDP(ctx)
	if err != nil || len(points) == 0 {
		s.logger.Warn().Err(err).Msg("Real GDP fetch failed")
		return models.NotProvided
	}
	if len(points) < 2 {
		return fmt.Sprintf("Real GDP %.1f (YoY not provided)", points[len(points)-1].Value)
	}
	yoy := (points[len(points)-1].Value/points[len(points)-2].Value - 1.0) * 100.0
	return fmt.Sprintf("Real GDP YoY %.1f%% (annual)", yoy)
}

func (s *Service) employmentLine(ctx context.Context) string {
	points, err := s.market.Unemployment(ctx)
	if err != nil || len(points) == 0 {
		s.logger.Warn().Err(err).Msg("Unemployment fetch failed")
		return models.NotProvided
	}
	return fmt.Sprintf("Unemployment %.1f%%", points[len(points)-1].Value)
}

func (s *Service) commoditiesLine(ctx context.Context, period string) string {
	start, end, err := models.PeriodBounds(period)
	if err != nil {
		return models.NotProvided
	}
	points, err := s.market.AllCommodities(ctx)
	if err != nil || len(points) == 0 {
		s.logger.Warn().Err(err).Msg("Commodities index fetch failed")
		return models.NotProvided
	}

	// last observation inside the period, if any
	lastIdx := -1
	for i, p := range points {
		if !p.Date.Before(start) && !p.Date.After(end) {
			lastIdx = i
		}
	}
	if lastIdx < 0 {
		return fmt.Sprintf("All Commodities index %.1f (period data not provided)", points[len(points)-1].Value)
	}

	last := points[lastIdx]
	parts := []string{fmt.Sprintf("All Commodities index %.1f", last.Value)}
	if lastIdx >= 1 {
		mom := (last.Value/points[lastIdx-1].Value - 1.0) * 100.0
		if !math.IsNaN(mom) && !math.IsInf(mom, 0) {
			parts = append(parts, fmt.Sprintf("MoM %.1f%%", mom))
		}
	}
	if lastIdx >= 12 {
		yoy := (last.Value/points[lastIdx-12].Value - 1.0) * 100.0
		if !math.IsNaN(yoy) && !math.IsInf(yoy, 0) {
			parts = append(parts, fmt.Sprintf("YoY %.1f%%", yoy))
		}
	}
	return strings.Join(parts, "; ")
}

func (s *Service) fxLine(ctx context.Context, period, marketRegion string) string {
	start, end, err := models.PeriodBounds(period)
	if err != nil {
		return models.NotProvided
	}

	var bits []string
	for _, pair := range regionFXPairs(marketRegion) {
		series, err := s.market.FXDaily(ctx, pair.Base, pair.Quote)
		if err != nil {
			s.logger.Warn().Err(err).Str("pair", pair.Base+"/"+pair.Quote).Msg("FX fetch failed")
			continue
		}
		inPeriod := series.Between(start, end)
		ret := inPeriod.TotalReturnPct()
		if ret == nil {
			continue
		}
		bits = append(bits, fmt.Sprintf("%s/%s %+.2f%%", pair.Base, pair.Quote, *ret))
	}
	if len(bits) == 0 {
		return models.NotProvided
	}
	return strings.Join(bits, "; ")
}

func (s *Service) newsTopics(ctx context.Context, period, marketRegion string) []string {
	start, _, err := models.PeriodBounds(period)
	if err != nil {
		return nil
	}
	timeFrom := start.Format("20060102") + "T0000"
	articles, err := s.market.NewsFeed(ctx, regionNewsTickers(marketRegion), timeFrom, newsFeedLimit)
	if err != nil {
		s.logger.Warn().Err(err).Msg("News feed fetch failed")
		return nil
	}
	return newsTopics(articles, 5)
}

func (s *Service) benchmarkReturn(ctx context.Context, period, benchmark string) *float64 {
	series, err := s.DailyPrices(ctx, period, benchmark)
	if err != nil {
		s.logger.Warn().Err(err).Str("benchmark", benchmark).Msg("Benchmark return fetch failed")
		return nil
	}
	return series.TotalReturnPct()
}

func (s *Service) sectorThemes(ctx context.Context, period string) []models.SectorTheme {
	start, end, err := models.PeriodBounds(period)
	if err != nil {
		return nil
	}

	type sectorReturn struct {
		Sector string
		Pct    float64
	}
	var returns []sectorReturn
	for _, entry := range sectorETFs {
		series, err := s.market.DailyAdjusted(ctx, entry.Symbol)
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", entry.Symbol).Msg("Sector ETF fetch failed")
			continue
		}
		ret := series.Between(start, end).TotalReturnPct()
		if ret == nil {
			continue
		}
		returns = append(returns, sectorReturn{Sector: entry.Sector, Pct: *ret})
	}
	if len(returns) == 0 {
		return nil
	}

	sort.SliceStable(returns, func(i, j int) bool { return returns[i].Pct > returns[j].Pct })

	var themes []models.SectorTheme
	for _, sr := range returns[:min(2, len(returns))] {
		themes = append(themes, models.SectorTheme{
			Sector: sr.Sector,
			Theme:  fmt.Sprintf("%s led; proxy ETF return %.1f%%", sr.Sector, sr.Pct),
		})
	}
	laggards := returns[max(0, len(returns)-2):]
	for _, sr := range laggards {
		themes = append(themes, models.SectorTheme{
			Sector: sr.Sector,
			Theme:  fmt.Sprintf("%s lagged; proxy ETF return %.1f%%", sr.Sector, sr.Pct),
		})
	}
	return themes
}

// Ensure Service implements AssemblerService
var _ interfaces.AssemblerService = (*Service)(nil)
