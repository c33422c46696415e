package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bobmcallan/quill/internal/app"
	"github.com/bobmcallan/quill/internal/interfaces"
	"github.com/bobmcallan/quill/internal/services/report"
	"github.com/bobmcallan/quill/internal/signals"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	period := flag.String("period", "", "reporting period, 'Q# YYYY' or 'YYYY-MM-DD to YYYY-MM-DD' (required)")
	region := flag.String("market-region", "", "market region label, e.g. 'U.S. equities (small-cap)' (required)")
	benchmark := flag.String("benchmark", "", "benchmark label, e.g. 'Russell 2000' (required)")
	outdir := flag.String("outdir", "out", "output directory")
	z := flag.Float64("z", 0, "z-score threshold for outsized move detection (default from config)")
	maxEvents := flag.Int("max-events", 0, "maximum detected events (default from config)")
	model := flag.String("model", "", "override generation model")
	chartOut := flag.Bool("chart", true, "also render a benchmark price chart PNG")
	configPath := flag.String("config", "", "path to quill.toml")
	flag.Parse()

	if *period == "" || *region == "" || *benchmark == "" {
		flag.Usage()
		return errors.New("period, market-region, and benchmark are required")
	}

	ctx := context.Background()

	a, err := app.NewApp(ctx, *configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer a.Close()

	if a.Narrative == nil {
		return errors.New("text generation backend not configured (set GEMINI_API_KEY)")
	}

	gen := a.Config.Generation
	if *z <= 0 {
		*z = gen.ZThreshold
	}
	if *maxEvents <= 0 {
		*maxEvents = gen.MaxEvents
	}

	payload, verrs := a.Assembler.Assemble(ctx, *period, *region, *benchmark)
	if len(verrs) > 0 {
		return fmt.Errorf("payload validation failed:\n- %s", strings.Join(verrs, "\n- "))
	}

	prices, err := a.Assembler.DailyPrices(ctx, *period, *benchmark)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("Price history unavailable for event detection")
	}
	events := signals.NewDetector(*z, *maxEvents).DetectOutsizedMoves(prices)
	hints := a.Assembler.CalendarHints(ctx)

	md, err := a.Narrative.GenerateMarketContext(ctx, payload, events, hints, interfaces.NarrativeOptions{
		ParaMin:    gen.ParaMin,
		ParaMax:    gen.ParaMax,
		MaxRetries: gen.MaxRetries,
		Model:      *model,
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*outdir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	base := fmt.Sprintf("market_context_%s_%s",
		strings.ReplaceAll(*period, " ", "_"),
		strings.ReplaceAll(*benchmark, " ", "_"))

	mdPath := filepath.Join(*outdir, base+".md")
	if err := os.WriteFile(mdPath, []byte(md+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write markdown: %w", err)
	}
	fmt.Println(mdPath)

	if *chartOut && len(prices) >= 2 {
		png, err := report.RenderBenchmarkChart(*benchmark, prices, events)
		if err != nil {
			a.Logger.Warn().Err(err).Msg("Chart render failed")
		} else {
			pngPath := filepath.Join(*outdir, base+".png")
			if err := os.WriteFile(pngPath, png, 0o644); err != nil {
				return fmt.Errorf("failed to write chart: %w", err)
			}
			fmt.Println(pngPath)
		}
	}

	return nil
}
