package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/bobmcallan/quill/internal/interfaces"
	"github.com/bobmcallan/quill/internal/models"
	"github.com/bobmcallan/quill/internal/services/assembler"
	"github.com/bobmcallan/quill/internal/services/narrative"
	"github.com/bobmcallan/quill/internal/signals"
)

// handlePresets handles GET /api/presets.
func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, models.PresetsResponse{
		Quarters:   assembler.QuarterLabels(2025, 2, 2023, 1),
		Regions:    assembler.RegionPresets(),
		Benchmarks: assembler.BenchmarkLabels(),
	})
}

// handleCommentary handles POST /api/commentary.
func (s *Server) handleCommentary(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.GenerateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	resp, ok := s.generate(w, r.Context(), &req)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, resp)
}

// handleCommentaryRaw handles GET /api/commentary/raw, returning the
// markdown as plain text.
func (s *Server) handleCommentaryRaw(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	req := models.GenerateRequest{
		Period:       q.Get("period"),
		MarketRegion: q.Get("market_region"),
		Benchmark:    q.Get("benchmark"),
		Model:        q.Get("model"),
	}
	if v := q.Get("para_min"); v != "" {
		req.ParaMin, _ = strconv.Atoi(v)
	}
	if v := q.Get("para_max"); v != "" {
		req.ParaMax, _ = strconv.Atoi(v)
	}
	if v := q.Get("z_threshold"); v != "" {
		req.ZThreshold, _ = strconv.ParseFloat(v, 64)
	}
	if v := q.Get("max_events"); v != "" {
		req.MaxEvents, _ = strconv.Atoi(v)
	}

	resp, ok := s.generate(w, r.Context(), &req)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(resp.MarketContextMarkdown + "\n"))
}

// generate runs the full assemble/detect/narrate pipeline for one request.
// On failure it writes the mapped error response and returns false.
func (s *Server) generate(w http.ResponseWriter, ctx context.Context, req *models.GenerateRequest) (*models.GenerateResponse, bool) {
	if req.Period == "" || req.MarketRegion == "" || req.Benchmark == "" {
		WriteError(w, http.StatusBadRequest, "period, market_region, and benchmark are required")
		return nil, false
	}
	if s.app.Narrative == nil {
		WriteError(w, http.StatusBadGateway, "Commentary generation unavailable: text generation backend not configured")
		return nil, false
	}

	gen := s.app.Config.Generation
	if req.ParaMin <= 0 {
		req.ParaMin = gen.ParaMin
	}
	if req.ParaMax <= 0 {
		req.ParaMax = gen.ParaMax
	}
	if req.ZThreshold <= 0 {
		req.ZThreshold = gen.ZThreshold
	}
	if req.MaxEvents <= 0 {
		req.MaxEvents = gen.MaxEvents
	}

	payload, verrs := s.app.Assembler.Assemble(ctx, req.Period, req.MarketRegion, req.Benchmark)
	if len(verrs) > 0 {
		WriteErrorDetails(w, http.StatusBadRequest, "payload build/validation error", verrs)
		return nil, false
	}

	prices, err := s.app.Assembler.DailyPrices(ctx, req.Period, req.Benchmark)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Price history unavailable for event detection")
	}
	events := signals.NewDetector(req.ZThreshold, req.MaxEvents).DetectOutsizedMoves(prices)
	hints := s.app.Assembler.CalendarHints(ctx)

	md, err := s.app.Narrative.GenerateMarketContext(ctx, payload, events, hints, interfaces.NarrativeOptions{
		ParaMin:    req.ParaMin,
		ParaMax:    req.ParaMax,
		MaxRetries: gen.MaxRetries,
		Model:      req.Model,
	})
	if err != nil {
		var policyErr *narrative.PolicyError
		switch {
		case errors.As(err, &policyErr):
			WriteErrorDetails(w, http.StatusUnprocessableEntity, "generated commentary failed output policy", policyErr.Violations)
		case errors.Is(err, narrative.ErrBackend):
			WriteError(w, http.StatusBadGateway, "text generation backend error")
		default:
			WriteError(w, http.StatusInternalServerError, "generation error: "+err.Error())
		}
		return nil, false
	}

	return &models.GenerateResponse{
		MarketContextMarkdown: md,
		Payload:               payload,
		Events:                events,
		Stats: models.TextStats{
			Words:      narrative.WordCount(md),
			Paragraphs: narrative.ParagraphCount(md),
		},
	}, true
}
