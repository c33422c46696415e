// Package app wires configuration, clients, and services into a single
// application core shared by cmd/quill-server and cmd/quill-cli.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/quill/internal/clients/alphavantage"
	"github.com/bobmcallan/quill/internal/clients/gemini"
	"github.com/bobmcallan/quill/internal/common"
	"github.com/bobmcallan/quill/internal/interfaces"
	"github.com/bobmcallan/quill/internal/services/assembler"
	"github.com/bobmcallan/quill/internal/services/narrative"
)

// App holds all initialized clients and services.
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	MarketData  interfaces.MarketDataClient
	Generator   interfaces.TextGenerator
	Assembler   interfaces.AssemblerService
	Narrative   interfaces.NarrativeService
	StartupTime time.Time

	geminiClient *gemini.Client
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, clients, and services. configPath may
// be empty, in which case the default resolution logic is used.
func NewApp(ctx context.Context, configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	// Load configuration - check provided path, QUILL_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("QUILL_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "quill.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/quill.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	// Resolve API keys
	avKey := common.ResolveAPIKey("alphavantage_api_key", config.Clients.AlphaVantage.APIKey)
	if avKey == "" {
		logger.Warn().Msg("Alpha Vantage API key not configured - market data fields will degrade to 'not provided'")
	}

	geminiKey := common.ResolveAPIKey("gemini_api_key", config.Clients.Gemini.APIKey)
	if geminiKey == "" {
		logger.Warn().Msg("Gemini API key not configured - commentary generation will be unavailable")
	}

	// Initialize API clients
	marketData := alphavantage.NewClient(avKey,
		alphavantage.WithBaseURL(config.Clients.AlphaVantage.BaseURL),
		alphavantage.WithLogger(logger),
		alphavantage.WithRateLimit(config.Clients.AlphaVantage.RateLimit),
		alphavantage.WithTimeout(config.Clients.AlphaVantage.GetTimeout()),
		alphavantage.WithRetries(config.Clients.AlphaVantage.Retries),
	)

	a := &App{
		Config:      config,
		Logger:      logger,
		MarketData:  marketData,
		Assembler:   assembler.NewService(marketData, logger),
		StartupTime: startupStart,
	}

	if geminiKey != "" {
		geminiClient, err := gemini.NewClient(ctx, geminiKey,
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithTemperature(config.Clients.Gemini.Temperature),
			gemini.WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
		}
		a.geminiClient = geminiClient
		a.Generator = geminiClient
		a.Narrative = narrative.NewService(geminiClient, logger)
	}

	logger.Info().
		Str("environment", config.Environment).
		Dur("startup", time.Since(startupStart)).
		Msg("Application initialized")

	return a, nil
}

// Close releases client resources.
func (a *App) Close() error {
	if a.geminiClient != nil {
		return a.geminiClient.Close()
	}
	return nil
}
